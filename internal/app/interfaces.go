package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"

	"shopizen/config"
	"shopizen/internal/kvstore"
	"shopizen/internal/session"
)

// ConfigProvider provides access to the application configuration.
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides access to the persistent key-value store and the
// change bus fed by it.
type StoreProvider interface {
	Store() kvstore.Store
	Bus() EventBus.Bus
}

// SessionProvider provides access to the session holder.
type SessionProvider interface {
	Session() *session.Holder
}

// SchedulerProvider provides access to the cron scheduler.
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext aggregates the provider surfaces handlers and jobs depend on.
type AppContext interface {
	ConfigProvider
	StoreProvider
	SessionProvider
	SchedulerProvider
}
