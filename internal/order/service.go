// Package order creates, persists and advances orders. Each principal's
// orders live as one list under that principal's store key; order identity
// never changes after creation and totals are frozen at checkout time.
package order

import (
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"shopizen/internal/domain"
	"shopizen/internal/kvstore"
	"shopizen/pkg/idgen"
)

var (
	ErrLoginRequired  = errors.New("login required")
	ErrNotFound       = errors.New("order not found")
	ErrItemNotFound   = errors.New("order item not found")
	ErrEmptyOrder     = errors.New("order has no items")
	ErrMissingDetails = errors.New("missing checkout details")
	ErrReasonRequired = errors.New("a reason is required")
	ErrTerminalItem   = errors.New("item already cancelled or returned")
	ErrNotDelivered   = errors.New("return allowed only after delivery")
	ErrPaymentSettled = errors.New("payment not awaiting a gateway result")
)

type PrincipalSource interface {
	Current() *domain.Principal
}

// CartClearer empties the active cart after a successful checkout.
type CartClearer interface {
	Clear() error
}

// Notifier records the order-confirmation message, deduplicated by order
// id.
type Notifier interface {
	Add(message, typ, orderID string) error
}

type Manager struct {
	store        kvstore.Store
	session      PrincipalSource
	cart         CartClearer
	notifier     Notifier
	deliveryDays int
}

func NewManager(store kvstore.Store, sess PrincipalSource, cart CartClearer, notifier Notifier, deliveryDays int) *Manager {
	if deliveryDays <= 0 {
		deliveryDays = 7
	}
	return &Manager{
		store:        store,
		session:      sess,
		cart:         cart,
		notifier:     notifier,
		deliveryDays: deliveryDays,
	}
}

// Place creates an order for the current principal from cart lines: every
// item starts Placed with a generated item id and an expected delivery a
// few days out. COD orders start with payment pending, anything else is
// initiated pending the hosted-checkout callback. On success the shipping
// form is saved for reuse, one confirmation notification is emitted and
// the cart is cleared unless this was a buy-now checkout.
func (m *Manager) Place(customer domain.Customer, lines []domain.CartLine, paymentMethod string, buyNow bool) (*domain.Order, error) {
	p := m.session.Current()
	if p == nil {
		return nil, ErrLoginRequired
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	now := time.Now()
	expected := now.Add(time.Duration(m.deliveryDays) * 24 * time.Hour)

	items := make([]domain.OrderItem, 0, len(lines))
	totalItems := 0
	totalPrice := 0.0
	for _, l := range lines {
		if l.Quantity < 1 {
			l.Quantity = 1
		}
		items = append(items, domain.OrderItem{
			OrderItemID:      idgen.ItemID(),
			ProductID:        l.ProductID,
			Name:             l.Name,
			Brand:            l.Brand,
			Price:            l.Price,
			Image:            l.Image,
			Quantity:         l.Quantity,
			ExpectedDelivery: expected,
			StatusIndex:      domain.StatusPlaced,
		})
		totalItems += l.Quantity
		totalPrice += l.Price * float64(l.Quantity)
	}

	paymentStatus := domain.PaymentInitiated
	if paymentMethod == domain.PaymentMethodCOD {
		paymentStatus = domain.PaymentPending
	}

	o := domain.Order{
		ID:            idgen.OrderID(),
		Customer:      customer,
		Items:         items,
		TotalItems:    totalItems,
		TotalPrice:    totalPrice,
		UserID:        p.ID,
		PaymentMethod: paymentMethod,
		PaymentStatus: paymentStatus,
		CreatedAt:     now,
	}

	orders := m.load(p.ID)
	orders = append(orders, o)
	if err := m.save(p.ID, orders); err != nil {
		return nil, err
	}

	if err := m.store.Put(kvstore.AddressKey(p.ID), customer); err != nil {
		zap.L().Warn("order: address save failed", zap.Error(err))
	}
	if m.notifier != nil {
		if err := m.notifier.Add("Your order #"+o.ID+" is confirmed", domain.NotifySuccess, o.ID); err != nil {
			zap.L().Warn("order: confirmation notification failed", zap.Error(err))
		}
	}
	if !buyNow && m.cart != nil {
		if err := m.cart.Clear(); err != nil {
			zap.L().Warn("order: cart clear failed", zap.Error(err))
		}
	}

	zap.L().Info("order placed",
		zap.String("id", o.ID),
		zap.String("user", p.ID),
		zap.Int("items", totalItems),
		zap.Float64("total", totalPrice))
	return &o, nil
}

func validateCustomer(c domain.Customer) error {
	// Phone and country are the only optional form fields.
	required := []string{
		c.FirstName, c.LastName, c.Email,
		c.HouseNo, c.Address, c.City, c.Landmark, c.State, c.Pincode,
	}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return ErrMissingDetails
		}
	}
	return nil
}

// List returns the current principal's orders, most recent first by
// creation time.
func (m *Manager) List() ([]domain.Order, error) {
	p := m.session.Current()
	if p == nil {
		return nil, ErrLoginRequired
	}
	orders := m.load(p.ID)
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *Manager) Get(orderID string) (*domain.Order, error) {
	p := m.session.Current()
	if p == nil {
		return nil, ErrLoginRequired
	}
	return m.GetFor(p.ID, orderID)
}

// Item fetches one item within an order by its item id.
func (m *Manager) Item(orderID, itemID string) (*domain.OrderItem, error) {
	o, err := m.Get(orderID)
	if err != nil {
		return nil, err
	}
	for i := range o.Items {
		if o.Items[i].OrderItemID == itemID {
			item := o.Items[i]
			return &item, nil
		}
	}
	return nil, ErrItemNotFound
}

// SettlePayment applies the hosted-checkout callback: success marks the
// order paid with the gateway reference, failure marks it failed but keeps
// the order. Only an order still awaiting its gateway result can settle; a
// COD order or one already paid or failed rejects the callback.
func (m *Manager) SettlePayment(orderID, paymentRef string, success bool) (*domain.Order, error) {
	p := m.session.Current()
	if p == nil {
		return nil, ErrLoginRequired
	}
	var updated *domain.Order
	err := m.mutate(p.ID, orderID, func(o *domain.Order) error {
		if o.PaymentStatus != domain.PaymentInitiated {
			return ErrPaymentSettled
		}
		if success {
			o.PaymentStatus = domain.PaymentPaid
		} else {
			o.PaymentStatus = domain.PaymentFailed
		}
		o.PaymentRef = paymentRef
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetFor fetches one order from an explicit principal's list; used by the
// admin console and the background sweep.
func (m *Manager) GetFor(principalID, orderID string) (*domain.Order, error) {
	for _, o := range m.load(principalID) {
		if o.ID == orderID {
			o := o
			return &o, nil
		}
	}
	return nil, ErrNotFound
}

// AllOrders scans every principal's order list. Admin-only view; the
// storefront never sees a global order table.
func (m *Manager) AllOrders() ([]domain.Order, error) {
	keys, err := m.store.Keys(kvstore.OrdersPrefix())
	if err != nil {
		return nil, err
	}
	var all []domain.Order
	for _, key := range keys {
		var orders []domain.Order
		if _, err := m.store.Get(key, &orders); err != nil {
			zap.L().Warn("order: scan failed", zap.String("key", key), zap.Error(err))
			continue
		}
		all = append(all, orders...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (m *Manager) load(principalID string) []domain.Order {
	var orders []domain.Order
	if _, err := m.store.Get(kvstore.OrdersKey(principalID), &orders); err != nil {
		zap.L().Warn("order: load failed", zap.String("user", principalID), zap.Error(err))
	}
	return orders
}

func (m *Manager) save(principalID string, orders []domain.Order) error {
	return m.store.Put(kvstore.OrdersKey(principalID), orders)
}

// mutate runs fn against one stored order and writes the whole list back
// when fn succeeds.
func (m *Manager) mutate(principalID, orderID string, fn func(*domain.Order) error) error {
	orders := m.load(principalID)
	for i := range orders {
		if orders[i].ID == orderID {
			if err := fn(&orders[i]); err != nil {
				return err
			}
			return m.save(principalID, orders)
		}
	}
	return ErrNotFound
}
