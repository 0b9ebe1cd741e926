package domain

import "time"

// Forward delivery statuses, indexed by OrderItem.StatusIndex.
var OrderStatuses = []string{"Placed", "Confirmed", "Shipped", "Delivered"}

const (
	StatusPlaced    = 0
	StatusConfirmed = 1
	StatusShipped   = 2
	StatusDelivered = 3

	// StatusTerminal marks a cancelled or returned item. Terminal items are
	// never advanced again.
	StatusTerminal = -1
)

// Item actions recorded together with StatusTerminal.
const (
	ActionCancel = "cancel"
	ActionReturn = "return"
)

// Payment statuses.
const (
	PaymentPending   = "pending"   // cash on delivery
	PaymentInitiated = "initiated" // hosted checkout started
	PaymentPaid      = "paid"
	PaymentFailed    = "failed"
)

const PaymentMethodCOD = "cod"

// OrderItem is a product snapshot frozen at checkout time plus its own
// delivery state. StatusIndex is a position in OrderStatuses or
// StatusTerminal.
type OrderItem struct {
	OrderItemID      string    `json:"orderItemId"`
	ProductID        int64     `json:"productId"`
	Name             string    `json:"name"`
	Brand            string    `json:"brand"`
	Price            float64   `json:"price"`
	Image            string    `json:"image"`
	Quantity         int       `json:"quantity"`
	ExpectedDelivery time.Time `json:"expectedDelivery"`
	StatusIndex      int       `json:"statusIndex"`
	Action           string    `json:"action,omitempty"`
	Reason           string    `json:"reason,omitempty"`
}

// Customer is the shipping/contact form snapshot stored with an order and
// under the per-user saved address key.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	HouseNo   string `json:"houseNo"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Landmark  string `json:"landmark"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
	Country   string `json:"country"`
}

// Order identity is immutable once created. TotalItems and TotalPrice are
// computed at creation time and not recomputed afterwards.
type Order struct {
	ID            string      `json:"id"`
	Customer      Customer    `json:"customer"`
	Items         []OrderItem `json:"items"`
	TotalItems    int         `json:"totalItems"`
	TotalPrice    float64     `json:"totalPrice"`
	UserID        string      `json:"userId"`
	PaymentMethod string      `json:"paymentMethod"`
	PaymentStatus string      `json:"paymentStatus"`
	PaymentRef    string      `json:"paymentRef,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// Status derives the displayed order status from all items: the least
// advanced non-terminal item wins, an order whose items are all cancelled
// or returned reads "Cancelled".
func (o *Order) Status() string {
	min := -1
	for i := range o.Items {
		si := o.Items[i].StatusIndex
		if si == StatusTerminal {
			continue
		}
		if min == -1 || si < min {
			min = si
		}
	}
	if min == -1 {
		return "Cancelled"
	}
	return OrderStatuses[min]
}

// Refund is an admin moderation record for returned items.
type Refund struct {
	ID        int64     `json:"id"`
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"` // pending/approved/rejected
	CreatedAt time.Time `json:"createdAt"`
}

const (
	RefundPending  = "pending"
	RefundApproved = "approved"
	RefundRejected = "rejected"
)
