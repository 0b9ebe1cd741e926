// Package moderation backs the admin review and refund surfaces: fixture
// seeded lists, mutated in memory and persisted whole to the store.
// Last writer wins; no audit trail.
package moderation

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"shopizen/internal/domain"
	"shopizen/internal/kvstore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNotFound = errors.New("record not found")

type ListFilter struct {
	Query    string
	Status   string
	Page     int
	PageSize int
}

type Service struct {
	store kvstore.Store

	mu      sync.Mutex
	reviews []domain.Review
	refunds []domain.Refund
}

// Load seeds reviews and refunds from fixtures unless the store already
// carries mutated lists.
func Load(fixtureDir string, store kvstore.Store) *Service {
	s := &Service{store: store}

	if found, _ := store.Get(kvstore.KeyAdminReviews, &s.reviews); !found {
		readFixture(fixtureDir, "reviews.json", &s.reviews)
	}
	if found, _ := store.Get(kvstore.KeyAdminRefunds, &s.refunds); !found {
		readFixture(fixtureDir, "refunds.json", &s.refunds)
	}
	return s
}

func readFixture(dir, name string, out interface{}) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		zap.L().Warn("moderation: fixture missing", zap.String("file", name), zap.Error(err))
		return
	}
	if err := json.Unmarshal(data, out); err != nil {
		zap.L().Warn("moderation: fixture unreadable", zap.String("file", name), zap.Error(err))
	}
}

func (s *Service) Reviews(f ListFilter) ([]domain.Review, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var matched []domain.Review
	for _, r := range s.reviews {
		if q != "" && !strings.Contains(strings.ToLower(r.Comment), q) &&
			!strings.Contains(strings.ToLower(r.UserName), q) {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return pageReviews(matched, f.Page, f.PageSize)
}

// SetReviewStatus approves or rejects one review.
func (s *Service) SetReviewStatus(id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reviews {
		if s.reviews[i].ID == id {
			s.reviews[i].Status = status
			return s.store.Put(kvstore.KeyAdminReviews, s.reviews)
		}
	}
	return ErrNotFound
}

func (s *Service) DeleteReview(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reviews {
		if s.reviews[i].ID == id {
			s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
			return s.store.Put(kvstore.KeyAdminReviews, s.reviews)
		}
	}
	return ErrNotFound
}

func (s *Service) Refunds(f ListFilter) ([]domain.Refund, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(f.Query))
	var matched []domain.Refund
	for _, r := range s.refunds {
		if q != "" && !strings.Contains(strings.ToLower(r.OrderID), q) &&
			!strings.Contains(strings.ToLower(r.Reason), q) {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		matched = append(matched, r)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return pageRefunds(matched, f.Page, f.PageSize)
}

// SetRefundStatus approves or rejects one refund.
func (s *Service) SetRefundStatus(id int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.refunds {
		if s.refunds[i].ID == id {
			s.refunds[i].Status = status
			return s.store.Put(kvstore.KeyAdminRefunds, s.refunds)
		}
	}
	return ErrNotFound
}

func pageReviews(list []domain.Review, page, pageSize int) ([]domain.Review, int) {
	total := len(list)
	start, end := pageBounds(total, page, pageSize)
	return list[start:end], total
}

func pageRefunds(list []domain.Refund, page, pageSize int) ([]domain.Refund, int) {
	total := len(list)
	start, end := pageBounds(total, page, pageSize)
	return list[start:end], total
}

func pageBounds(total, page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= total {
		return total, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end
}
