package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopizen/config"
	"shopizen/internal/domain"
	"shopizen/internal/kvstore"
	"shopizen/internal/order"
)

type staticSession struct{ p *domain.Principal }

func (s *staticSession) Current() *domain.Principal { return s.p }

func sweepFixture(createdAgo, window time.Duration, status int) domain.Order {
	created := time.Now().Add(-createdAgo)
	return domain.Order{
		ID:        "ORD-sweep",
		UserID:    "u1",
		CreatedAt: created,
		Items: []domain.OrderItem{{
			OrderItemID:      "IT-1",
			StatusIndex:      status,
			ExpectedDelivery: created.Add(window),
		}},
	}
}

func TestDueStatusIndex(t *testing.T) {
	window := 6 * time.Hour

	o := sweepFixture(0, window, domain.StatusPlaced)
	assert.Equal(t, domain.StatusPlaced, dueStatusIndex(&o, o.CreatedAt.Add(time.Hour)))
	assert.Equal(t, domain.StatusConfirmed, dueStatusIndex(&o, o.CreatedAt.Add(3*time.Hour)))
	assert.Equal(t, domain.StatusShipped, dueStatusIndex(&o, o.CreatedAt.Add(5*time.Hour)))
	assert.Equal(t, domain.StatusDelivered, dueStatusIndex(&o, o.CreatedAt.Add(7*time.Hour)))
	// far past the window it stays capped at Delivered
	assert.Equal(t, domain.StatusDelivered, dueStatusIndex(&o, o.CreatedAt.Add(100*time.Hour)))
}

func TestBehindDeliverySchedule(t *testing.T) {
	o := sweepFixture(0, time.Hour, domain.StatusConfirmed)
	assert.False(t, behindDeliverySchedule(&o, domain.StatusConfirmed))
	assert.True(t, behindDeliverySchedule(&o, domain.StatusShipped))

	// terminal items never count as behind
	o.Items[0].StatusIndex = domain.StatusTerminal
	assert.False(t, behindDeliverySchedule(&o, domain.StatusDelivered))
}

func TestDeliverySweepAdvancesOverdueOrders(t *testing.T) {
	store := kvstore.NewMemoryStore()
	a := &Application{store: store}
	a.orders = order.NewManager(store, &staticSession{}, nil, nil, 7)

	overdue := sweepFixture(10*time.Hour, 6*time.Hour, domain.StatusPlaced)
	fresh := sweepFixture(time.Minute, 6*time.Hour, domain.StatusPlaced)
	fresh.ID = "ORD-fresh"
	fresh.UserID = "u2"
	require.NoError(t, store.Put(kvstore.OrdersKey("u1"), []domain.Order{overdue}))
	require.NoError(t, store.Put(kvstore.OrdersKey("u2"), []domain.Order{fresh}))

	a.SchedDeliverySweepTask()

	got, err := a.orders.GetFor("u1", "ORD-sweep")
	require.NoError(t, err)
	assert.Equal(t, "Delivered", got.Status())

	got, err = a.orders.GetFor("u2", "ORD-fresh")
	require.NoError(t, err)
	assert.Equal(t, "Placed", got.Status(), "a fresh order is left alone")
}

func TestNotificationRetentionOffByDefault(t *testing.T) {
	store := kvstore.NewMemoryStore()
	a := &Application{store: store, appConfig: config.DefaultAppConfig()}

	old := domain.Notification{ID: "NT-old", Message: "old", Timestamp: time.Now().Add(-10 * 365 * 24 * time.Hour)}
	recent := domain.Notification{ID: "NT-new", Message: "new", Timestamp: time.Now()}
	require.NoError(t, store.Put(kvstore.NotificationsKey("u1"), []domain.Notification{recent, old}))

	a.SchedNotificationPruneTask()

	var kept []domain.Notification
	found, _ := store.Get(kvstore.NotificationsKey("u1"), &kept)
	require.True(t, found)
	assert.Len(t, kept, 2, "without a retention window the log is kept whole")
}

func TestNotificationPruneWithRetentionConfigured(t *testing.T) {
	store := kvstore.NewMemoryStore()
	cfg := config.DefaultAppConfig()
	cfg.Shop.NotifyRetentionDays = 180
	a := &Application{store: store, appConfig: cfg}

	old := domain.Notification{ID: "NT-old", Message: "old", Timestamp: time.Now().Add(-200 * 24 * time.Hour)}
	recent := domain.Notification{ID: "NT-new", Message: "new", Timestamp: time.Now()}
	require.NoError(t, store.Put(kvstore.NotificationsKey("u1"), []domain.Notification{recent, old}))

	a.SchedNotificationPruneTask()

	var kept []domain.Notification
	found, _ := store.Get(kvstore.NotificationsKey("u1"), &kept)
	require.True(t, found)
	require.Len(t, kept, 1)
	assert.Equal(t, "NT-new", kept[0].ID)
}
