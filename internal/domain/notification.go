package domain

import "time"

// Notification types.
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyError   = "error"
)

// Notification is an append-only per-user log entry. OrderID, when set,
// deduplicates: at most one notification is kept per correlated order.
type Notification struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId,omitempty"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	Timestamp time.Time `json:"timestamp"`
}
