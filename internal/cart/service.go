// Package cart keeps the (product, quantity) lines of the current
// principal's cart. Carts are principal-scoped uniformly, the guest cart
// living under its own principal key, and every mutation re-serializes the
// whole list to the store.
package cart

import (
	"sync"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"shopizen/internal/domain"
	"shopizen/internal/events"
	"shopizen/internal/kvstore"
)

// PrincipalSource yields the id whose cart key is read and written.
type PrincipalSource interface {
	CurrentID() string
}

type Service struct {
	store   kvstore.Store
	session PrincipalSource

	mu    sync.Mutex
	lines []domain.CartLine
}

func NewService(store kvstore.Store, sess PrincipalSource, bus EventBus.Bus) *Service {
	s := &Service{store: store, session: sess}
	s.reload()
	if bus != nil {
		_ = bus.Subscribe(events.TopicSessionChanged, func(_ *domain.Principal) { s.reload() })
	}
	return s
}

func (s *Service) key() string {
	return kvstore.CartKey(s.session.CurrentID())
}

func (s *Service) reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	if _, err := s.store.Get(s.key(), &s.lines); err != nil {
		zap.L().Warn("cart: reload failed", zap.Error(err))
	}
}

// Add merges the product into an existing line, incrementing its quantity
// by one, or appends a fresh line. The full cart is re-persisted either
// way.
func (s *Service) Add(p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := false
	for i := range s.lines {
		if s.lines[i].ProductID == p.ID {
			s.lines[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, domain.LineFromProduct(p))
	}
	return s.persistLocked()
}

func (s *Service) Remove(productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	return s.persistLocked()
}

func (s *Service) Increase(productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity++
			break
		}
	}
	return s.persistLocked()
}

// Decrease floors at quantity 1; it never removes the line.
func (s *Service) Decrease(productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID && s.lines[i].Quantity > 1 {
			s.lines[i].Quantity--
			break
		}
	}
	return s.persistLocked()
}

func (s *Service) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	return s.persistLocked()
}

func (s *Service) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartLine(nil), s.lines...)
}

// Totals sums item count and price over the current lines.
func (s *Service) Totals() (int, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := 0
	price := 0.0
	for _, l := range s.lines {
		items += l.Quantity
		price += l.Price * float64(l.Quantity)
	}
	return items, price
}

func (s *Service) persistLocked() error {
	if s.lines == nil {
		s.lines = []domain.CartLine{}
	}
	return s.store.Put(s.key(), s.lines)
}
