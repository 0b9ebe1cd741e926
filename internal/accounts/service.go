package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"shopizen/internal/domain"
	"shopizen/pkg/idgen"
)

var ErrInvalidInput = errors.New("invalid account input")

// Service fronts the registry with the two operations the storefront
// exposes remotely: registration (create) and profile update (replace).
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Repository() Repository { return s.repo }

// Register creates a user-role account. There is no retry on failure, the
// operation is simply abandoned and reported.
func (s *Service) Register(ctx context.Context, name, email, mobile, password string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	acct := &domain.Account{
		ID:       fmt.Sprintf("u%d", idgen.NextID()),
		Name:     name,
		Email:    email,
		Mobile:   strings.TrimSpace(mobile),
		Password: password,
		Role:     domain.RoleUser,
		Status:   domain.AccountActive,
	}
	if err := s.repo.Create(ctx, acct); err != nil {
		return nil, err
	}
	zap.L().Info("account registered", zap.String("id", acct.ID), zap.String("email", acct.Email))
	return acct, nil
}

// UpdateProfile replaces the mutable profile fields. Empty fields keep
// their current value; the email is the account's fixed login identity.
func (s *Service) UpdateProfile(ctx context.Context, id, name, mobile, password string) (*domain.Account, error) {
	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		acct.Name = name
	}
	if mobile = strings.TrimSpace(mobile); mobile != "" {
		acct.Mobile = mobile
	}
	if password != "" {
		acct.Password = password
	}
	acct.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}
