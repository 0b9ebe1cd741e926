package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopizen/internal/domain"
	"shopizen/internal/kvstore"
)

func seededService(store kvstore.Store) *Service {
	now := time.Now()
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(store.Put(kvstore.KeyAdminReviews, []domain.Review{
		{ID: 1, ProductID: 1, UserName: "rhea.k", Comment: "Great fit", Status: domain.ReviewApproved, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, ProductID: 5, UserName: "dev.n", Comment: "Stitching loose", Status: domain.ReviewPending, CreatedAt: now.Add(-time.Hour)},
		{ID: 3, ProductID: 8, UserName: "troll42", Comment: "spam", Status: domain.ReviewPending, CreatedAt: now},
	}))
	must(store.Put(kvstore.KeyAdminRefunds, []domain.Refund{
		{ID: 11, OrderID: "ORD-A", Reason: "Damaged/Defective item", Status: domain.RefundPending, CreatedAt: now},
	}))
	return Load("no-such-fixture-dir", store)
}

func TestLoadPrefersStoreOverFixtures(t *testing.T) {
	s := seededService(kvstore.NewMemoryStore())

	reviews, total := s.Reviews(ListFilter{})
	assert.Equal(t, 3, total)
	require.Len(t, reviews, 3)
	assert.Equal(t, int64(3), reviews[0].ID, "newest review first")

	_, total = s.Refunds(ListFilter{})
	assert.Equal(t, 1, total)
}

func TestReviewsFilter(t *testing.T) {
	s := seededService(kvstore.NewMemoryStore())

	_, total := s.Reviews(ListFilter{Status: domain.ReviewPending})
	assert.Equal(t, 2, total)

	rows, total := s.Reviews(ListFilter{Query: "stitching"})
	require.Equal(t, 1, total)
	assert.Equal(t, int64(2), rows[0].ID)

	rows, _ = s.Reviews(ListFilter{Page: 2, PageSize: 2})
	assert.Len(t, rows, 1)
}

func TestSetReviewStatusPersists(t *testing.T) {
	store := kvstore.NewMemoryStore()
	s := seededService(store)

	require.NoError(t, s.SetReviewStatus(2, domain.ReviewApproved))

	var persisted []domain.Review
	found, _ := store.Get(kvstore.KeyAdminReviews, &persisted)
	require.True(t, found)
	for _, r := range persisted {
		if r.ID == 2 {
			assert.Equal(t, domain.ReviewApproved, r.Status)
		}
	}

	assert.ErrorIs(t, s.SetReviewStatus(99, domain.ReviewApproved), ErrNotFound)
}

func TestDeleteReview(t *testing.T) {
	store := kvstore.NewMemoryStore()
	s := seededService(store)

	require.NoError(t, s.DeleteReview(3))
	_, total := s.Reviews(ListFilter{})
	assert.Equal(t, 2, total)

	var persisted []domain.Review
	found, _ := store.Get(kvstore.KeyAdminReviews, &persisted)
	require.True(t, found)
	assert.Len(t, persisted, 2)

	assert.ErrorIs(t, s.DeleteReview(3), ErrNotFound)
}

func TestSetRefundStatus(t *testing.T) {
	store := kvstore.NewMemoryStore()
	s := seededService(store)

	require.NoError(t, s.SetRefundStatus(11, domain.RefundApproved))
	rows, _ := s.Refunds(ListFilter{Status: domain.RefundApproved})
	require.Len(t, rows, 1)
	assert.Equal(t, int64(11), rows[0].ID)

	assert.ErrorIs(t, s.SetRefundStatus(99, domain.RefundRejected), ErrNotFound)
}
