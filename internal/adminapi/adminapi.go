// Package adminapi is the console surface: CRUD over products, reviews,
// refunds and users, the cross-principal order view and the sales report.
// Every route sits behind the admin role gate.
package adminapi

import (
	"shopizen/config"
	"shopizen/internal/accounts"
	"shopizen/internal/catalog"
	"shopizen/internal/kvstore"
	"shopizen/internal/moderation"
	"shopizen/internal/order"
)

type Env struct {
	Cfg        *config.AppConfig
	Catalog    *catalog.Provider
	Moderation *moderation.Service
	Accounts   accounts.Repository
	Orders     *order.Manager
	Store      kvstore.Store
}

var env *Env

// Init wires the handler environment and registers all console routes.
func Init(e *Env) {
	env = e
	registerProductRoutes()
	registerReviewRoutes()
	registerRefundRoutes()
	registerUserRoutes()
	registerOrderRoutes()
	registerSalesRoutes()
	registerStoreRoutes()
}
