package kvstore

import "fmt"

// All store key templates live here so the "which key am I touching" logic
// stays in one testable place. Per-principal collections embed the
// principal id; switching principals swaps which entries are read and
// written, leaving other principals' entries untouched.

const (
	KeySession  = "loggedInUser"
	KeySettings = "settings"

	// Admin demo-data blobs overriding the bundled fixtures.
	KeyAdminProducts = "admin_products"
	KeyAdminReviews  = "admin_reviews"
	KeyAdminRefunds  = "admin_refunds"

	// GuestID scopes the cart of an unauthenticated profile. Carts are
	// principal-scoped uniformly; the guest cart is just another principal
	// key.
	GuestID = "guest"

	ordersPrefix        = "orders_"
	notificationsPrefix = "notifications_"
)

func CartKey(principalID string) string {
	if principalID == "" {
		principalID = GuestID
	}
	return fmt.Sprintf("cart_%s", principalID)
}

func WishlistKey(principalID string) string {
	return fmt.Sprintf("wishlist_%s", principalID)
}

func OrdersKey(principalID string) string {
	return ordersPrefix + principalID
}

// OrdersPrefix is used by the admin console to scan order lists across all
// principals.
func OrdersPrefix() string { return ordersPrefix }

// PrincipalFromOrdersKey extracts the owning principal id from an orders
// key produced by OrdersKey.
func PrincipalFromOrdersKey(key string) string {
	if len(key) <= len(ordersPrefix) {
		return ""
	}
	return key[len(ordersPrefix):]
}

func NotificationsKey(principalID string) string {
	return notificationsPrefix + principalID
}

// NotificationsPrefix is used by the retention sweep to scan every
// principal's notification log.
func NotificationsPrefix() string { return notificationsPrefix }

func AddressKey(principalID string) string {
	return fmt.Sprintf("address_%s", principalID)
}
