package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopizen/internal/domain"
	"shopizen/internal/kvstore"
)

type fakeSession struct{ p *domain.Principal }

func (f *fakeSession) Current() *domain.Principal { return f.p }

type fakeCart struct{ cleared int }

func (f *fakeCart) Clear() error { f.cleared++; return nil }

type fakeNotifier struct{ added []string }

func (f *fakeNotifier) Add(message, typ, orderID string) error {
	f.added = append(f.added, orderID)
	return nil
}

func validCustomer() domain.Customer {
	return domain.Customer{
		FirstName: "Rhea", LastName: "Kapoor", Email: "rhea@example.com",
		HouseNo: "14B", Address: "Juhu Lane", City: "Mumbai",
		Landmark: "Near park", State: "MH", Pincode: "400049",
	}
}

func testLines() []domain.CartLine {
	return []domain.CartLine{
		{ProductID: 1, Name: "Shirt", Price: 1299, Quantity: 2},
		{ProductID: 3, Name: "Shoes", Price: 3999, Quantity: 1},
	}
}

func newTestManager() (*Manager, *kvstore.MemoryStore, *fakeCart, *fakeNotifier) {
	store := kvstore.NewMemoryStore()
	cart := &fakeCart{}
	notifier := &fakeNotifier{}
	sess := &fakeSession{p: &domain.Principal{ID: "u1"}}
	return NewManager(store, sess, cart, notifier, 7), store, cart, notifier
}

func TestPlaceRequiresLogin(t *testing.T) {
	m := NewManager(kvstore.NewMemoryStore(), &fakeSession{}, nil, nil, 7)
	_, err := m.Place(validCustomer(), testLines(), domain.PaymentMethodCOD, false)
	assert.ErrorIs(t, err, ErrLoginRequired)
}

func TestPlaceValidation(t *testing.T) {
	m, _, _, _ := newTestManager()

	_, err := m.Place(validCustomer(), nil, domain.PaymentMethodCOD, false)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	c := validCustomer()
	c.City = "  "
	_, err = m.Place(c, testLines(), domain.PaymentMethodCOD, false)
	assert.ErrorIs(t, err, ErrMissingDetails)

	// phone and country are optional
	c = validCustomer()
	c.Phone = ""
	c.Country = ""
	_, err = m.Place(c, testLines(), domain.PaymentMethodCOD, false)
	assert.NoError(t, err)
}

func TestPlaceCODOrder(t *testing.T) {
	m, store, cart, notifier := newTestManager()

	o, err := m.Place(validCustomer(), testLines(), domain.PaymentMethodCOD, false)
	require.NoError(t, err)

	assert.Equal(t, 3, o.TotalItems)
	assert.InDelta(t, 2*1299+3999, o.TotalPrice, 0.001)
	assert.Equal(t, domain.PaymentPending, o.PaymentStatus)
	assert.Equal(t, "Placed", o.Status())
	require.Len(t, o.Items, 2)
	for _, it := range o.Items {
		assert.NotEmpty(t, it.OrderItemID)
		assert.Equal(t, domain.StatusPlaced, it.StatusIndex)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), it.ExpectedDelivery, time.Minute)
	}

	assert.Equal(t, 1, cart.cleared, "cart checkout clears the cart")
	assert.Equal(t, []string{o.ID}, notifier.added, "exactly one confirmation notification")

	// the shipping form is saved for reuse
	var addr domain.Customer
	found, _ := store.Get(kvstore.AddressKey("u1"), &addr)
	require.True(t, found)
	assert.Equal(t, "Mumbai", addr.City)
}

func TestPlaceBuyNowKeepsCart(t *testing.T) {
	m, _, cart, _ := newTestManager()

	_, err := m.Place(validCustomer(), testLines()[:1], domain.PaymentMethodCOD, true)
	require.NoError(t, err)
	assert.Equal(t, 0, cart.cleared, "buy-now skips the cart entirely")
}

func TestSettlePayment(t *testing.T) {
	m, _, _, _ := newTestManager()

	o, err := m.Place(validCustomer(), testLines(), "card", false)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentInitiated, o.PaymentStatus)

	paid, err := m.SettlePayment(o.ID, "cs_12345", true)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, "cs_12345", paid.PaymentRef)

	// a settled order rejects further callbacks
	_, err = m.SettlePayment(o.ID, "cs_67890", false)
	assert.ErrorIs(t, err, ErrPaymentSettled)
	got, err := m.Get(o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, "cs_12345", got.PaymentRef)

	_, err = m.SettlePayment("ORD-missing", "x", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettlePaymentRejectsCOD(t *testing.T) {
	m, _, _, _ := newTestManager()

	o, err := m.Place(validCustomer(), testLines(), domain.PaymentMethodCOD, false)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPending, o.PaymentStatus)

	_, err = m.SettlePayment(o.ID, "cs_12345", true)
	assert.ErrorIs(t, err, ErrPaymentSettled)

	got, err := m.Get(o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, got.PaymentStatus)
}

func TestSettlePaymentFailureKeepsOrder(t *testing.T) {
	m, _, _, _ := newTestManager()

	o, err := m.Place(validCustomer(), testLines(), "card", false)
	require.NoError(t, err)

	failed, err := m.SettlePayment(o.ID, "cs_12345", false)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, failed.PaymentStatus)

	got, err := m.Get(o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, got.PaymentStatus)
}

func TestListNewestFirstByCreationTime(t *testing.T) {
	m, store, _, _ := newTestManager()

	now := time.Now()
	// ids chosen so lexicographic order disagrees with creation order
	stored := []domain.Order{
		{ID: "ORD-9", UserID: "u1", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "ORD-1", UserID: "u1", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "ORD-5", UserID: "u1", CreatedAt: now},
	}
	require.NoError(t, store.Put(kvstore.OrdersKey("u1"), stored))

	orders, err := m.List()
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "ORD-5", orders[0].ID)
	assert.Equal(t, "ORD-1", orders[1].ID)
	assert.Equal(t, "ORD-9", orders[2].ID)
}

func TestGetAndItem(t *testing.T) {
	m, _, _, _ := newTestManager()

	o, err := m.Place(validCustomer(), testLines(), domain.PaymentMethodCOD, false)
	require.NoError(t, err)

	got, err := m.Get(o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	item, err := m.Item(o.ID, o.Items[1].OrderItemID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.ProductID)

	_, err = m.Item(o.ID, "IT-missing")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = m.Get("ORD-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAllOrdersScansEveryPrincipal(t *testing.T) {
	m, store, _, _ := newTestManager()

	now := time.Now()
	require.NoError(t, store.Put(kvstore.OrdersKey("u1"), []domain.Order{{ID: "ORD-A", UserID: "u1", CreatedAt: now.Add(-time.Hour)}}))
	require.NoError(t, store.Put(kvstore.OrdersKey("u2"), []domain.Order{{ID: "ORD-B", UserID: "u2", CreatedAt: now}}))

	all, err := m.AllOrders()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ORD-B", all[0].ID, "cross-principal listing is newest first")
	assert.Equal(t, "ORD-A", all[1].ID)
}

func TestOrderIDsUniqueUnderRapidCreation(t *testing.T) {
	m, _, _, _ := newTestManager()

	seen := make(map[string]struct{}, 2000)
	for i := 0; i < 2000; i++ {
		o, err := m.Place(validCustomer(), testLines()[:1], domain.PaymentMethodCOD, true)
		require.NoError(t, err)
		_, dup := seen[o.ID]
		require.Falsef(t, dup, "duplicate order id %s", o.ID)
		seen[o.ID] = struct{}{}
	}
}
