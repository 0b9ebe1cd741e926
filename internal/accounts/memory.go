package accounts

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"shopizen/internal/domain"
)

// MemoryRepository keeps the registry in memory, seeded from the bundled
// user fixture. It is the default backend when no database is configured
// and the fake used by tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	byID     map[string]domain.Account
	ordering []string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]domain.Account)}
}

// Seed loads fixture accounts, skipping ids already present.
func (r *MemoryRepository) Seed(accts []domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range accts {
		if _, found := r.byID[a.ID]; found {
			continue
		}
		if a.Status == "" {
			a.Status = domain.AccountActive
		}
		a.Email = strings.ToLower(a.Email)
		r.byID[a.ID] = a
		r.ordering = append(r.ordering, a.ID)
	}
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, found := r.byID[id]
	if !found {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(email)
	for _, a := range r.byID {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) Create(_ context.Context, acct *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct.Email = strings.ToLower(acct.Email)
	for _, a := range r.byID {
		if a.Email == acct.Email {
			return ErrEmailTaken
		}
	}
	now := time.Now()
	acct.CreatedAt = now
	acct.UpdatedAt = now
	r.byID[acct.ID] = *acct
	r.ordering = append(r.ordering, acct.ID)
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, acct *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.byID[acct.ID]; !found {
		return ErrNotFound
	}
	acct.UpdatedAt = time.Now()
	r.byID[acct.ID] = *acct
	return nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, found := r.byID[id]
	if !found {
		return ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	r.byID[id] = a
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	for i, oid := range r.ordering {
		if oid == id {
			r.ordering = append(r.ordering[:i], r.ordering[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) List(_ context.Context, filter ListFilter) ([]domain.Account, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	var all []domain.Account
	for _, id := range r.ordering {
		a, found := r.byID[id]
		if !found {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(a.Name), q) && !strings.Contains(a.Email, q) {
			continue
		}
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		all = append(all, a)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []domain.Account{}, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

var _ Repository = (*MemoryRepository)(nil)
