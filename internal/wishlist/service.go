// Package wishlist keeps the per-principal saved-product set. There is no
// anonymous wishlist: mutating operations without a principal fail with
// ErrLoginRequired so the caller can route to the auth entry point.
package wishlist

import (
	"errors"
	"sync"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"shopizen/internal/domain"
	"shopizen/internal/events"
	"shopizen/internal/kvstore"
)

var ErrLoginRequired = errors.New("login required")

// PrincipalSource yields the current principal, nil when logged out.
type PrincipalSource interface {
	Current() *domain.Principal
}

type Service struct {
	store   kvstore.Store
	session PrincipalSource

	mu      sync.Mutex
	entries []domain.WishlistEntry
}

func NewService(store kvstore.Store, sess PrincipalSource, bus EventBus.Bus) *Service {
	s := &Service{store: store, session: sess}
	s.reload()
	if bus != nil {
		_ = bus.Subscribe(events.TopicSessionChanged, func(_ *domain.Principal) { s.reload() })
	}
	return s
}

func (s *Service) reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	p := s.session.Current()
	if p == nil {
		return
	}
	if _, err := s.store.Get(kvstore.WishlistKey(p.ID), &s.entries); err != nil {
		zap.L().Warn("wishlist: reload failed", zap.Error(err))
	}
}

func (s *Service) Add(p domain.Product) error {
	principal := s.session.Current()
	if principal == nil {
		return ErrLoginRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ProductID == p.ID {
			return nil
		}
	}
	s.entries = append(s.entries, domain.EntryFromProduct(p))
	return s.persistLocked(principal.ID)
}

func (s *Service) Remove(productID int64) error {
	principal := s.session.Current()
	if principal == nil {
		return ErrLoginRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ProductID == productID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return s.persistLocked(principal.ID)
}

// Toggle flips presence by product id.
func (s *Service) Toggle(p domain.Product) error {
	principal := s.session.Current()
	if principal == nil {
		return ErrLoginRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ProductID == p.ID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return s.persistLocked(principal.ID)
		}
	}
	s.entries = append(s.entries, domain.EntryFromProduct(p))
	return s.persistLocked(principal.ID)
}

func (s *Service) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ProductID == productID {
			return true
		}
	}
	return false
}

func (s *Service) Entries() []domain.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.WishlistEntry(nil), s.entries...)
}

func (s *Service) persistLocked(principalID string) error {
	if s.entries == nil {
		s.entries = []domain.WishlistEntry{}
	}
	return s.store.Put(kvstore.WishlistKey(principalID), s.entries)
}
