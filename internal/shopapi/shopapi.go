// Package shopapi exposes the storefront surface: auth, catalog, cart,
// wishlist, orders, tracking, notifications and the hosted-checkout
// stand-in.
package shopapi

import (
	"context"
	"sync"

	"shopizen/config"
	"shopizen/internal/accounts"
	"shopizen/internal/cart"
	"shopizen/internal/catalog"
	"shopizen/internal/notify"
	"shopizen/internal/order"
	"shopizen/internal/session"
	"shopizen/internal/wishlist"
)

// Env bundles the services the handlers operate on.
type Env struct {
	Cfg      *config.AppConfig
	Session  *session.Holder
	Accounts *accounts.Service
	Catalog  *catalog.Provider
	Cart     *cart.Service
	Wishlist *wishlist.Service
	Orders   *order.Manager
	Notify   *notify.Log
}

var env *Env

// active per-order trackers, keyed by order id
var (
	trackersMu sync.Mutex
	trackers   = map[string]*order.Tracker{}

	// trackerCtx outlives the start request; a tracker tied to the request
	// context would die the moment the handler returns.
	trackerCtx    context.Context
	trackerCancel context.CancelFunc
)

// Init wires the handler environment and registers all storefront routes.
func Init(e *Env) {
	env = e
	trackerCtx, trackerCancel = context.WithCancel(context.Background())
	registerAuthRoutes()
	registerCatalogRoutes()
	registerCartRoutes()
	registerWishlistRoutes()
	registerOrderRoutes()
	registerNotificationRoutes()
	registerCheckoutRoutes()
}

// Shutdown stops every running tracker on daemon teardown.
func Shutdown() {
	if trackerCancel != nil {
		trackerCancel()
	}
}
