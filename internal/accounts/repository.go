package accounts

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"shopizen/internal/domain"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrEmailTaken = errors.New("email already registered")
)

// ListFilter narrows and pages registry listings for the admin surface.
type ListFilter struct {
	Query    string // matches name or email, case-insensitive
	Role     string
	Status   string
	Page     int
	PageSize int
}

// Repository is the registered-account registry. The storefront treats it
// as the remote user service behind the registration and profile-update
// endpoints.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, acct *domain.Account) error
	Update(ctx context.Context, acct *domain.Account) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Account, int64, error)
}

// GormRepository is the relational implementation of Repository.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var acct domain.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (r *GormRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var acct domain.Account
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (r *GormRepository) Create(ctx context.Context, acct *domain.Account) error {
	var exists int64
	r.db.WithContext(ctx).Model(&domain.Account{}).Where("email = ?", acct.Email).Count(&exists)
	if exists > 0 {
		return ErrEmailTaken
	}
	return r.db.WithContext(ctx).Create(acct).Error
}

func (r *GormRepository) Update(ctx context.Context, acct *domain.Account) error {
	return r.db.WithContext(ctx).Save(acct).Error
}

func (r *GormRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&domain.Account{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Account{}).Error
}

func (r *GormRepository) List(ctx context.Context, filter ListFilter) ([]domain.Account, int64, error) {
	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	db := r.db.WithContext(ctx).Model(&domain.Account{})
	if q := strings.TrimSpace(filter.Query); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ? OR email ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", "%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}
	if filter.Role != "" {
		db = db.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Account
	if err := db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

var _ Repository = (*GormRepository)(nil)
