package app

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shopizen/config"
	"shopizen/internal/accounts"
	"shopizen/internal/cart"
	"shopizen/internal/catalog"
	"shopizen/internal/domain"
	"shopizen/internal/events"
	"shopizen/internal/kvstore"
	"shopizen/internal/moderation"
	"shopizen/internal/notify"
	"shopizen/internal/order"
	"shopizen/internal/session"
	"shopizen/internal/wishlist"
)

type Application struct {
	appConfig *config.AppConfig
	store     kvstore.Store
	gormDB    *gorm.DB
	bus       EventBus.Bus
	sched     *cron.Cron

	registry   accounts.Repository
	accountSvc *accounts.Service
	session    *session.Holder
	catalog    *catalog.Provider
	cart       *cart.Service
	wishlist   *wishlist.Service
	notify     *notify.Log
	orders     *order.Manager
	moderation *moderation.Service
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ SessionProvider   = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig       { return a.appConfig }
func (a *Application) Store() kvstore.Store            { return a.store }
func (a *Application) DB() *gorm.DB                    { return a.gormDB }
func (a *Application) Bus() EventBus.Bus               { return a.bus }
func (a *Application) Scheduler() *cron.Cron           { return a.sched }
func (a *Application) Registry() accounts.Repository   { return a.registry }
func (a *Application) Accounts() *accounts.Service     { return a.accountSvc }
func (a *Application) Session() *session.Holder        { return a.session }
func (a *Application) Catalog() *catalog.Provider      { return a.catalog }
func (a *Application) Cart() *cart.Service             { return a.cart }
func (a *Application) Wishlist() *wishlist.Service     { return a.wishlist }
func (a *Application) Notify() *notify.Log             { return a.notify }
func (a *Application) Orders() *order.Manager          { return a.orders }
func (a *Application) Moderation() *moderation.Service { return a.moderation }

// OverrideStore replaces the application's store handle (used in tests).
func (a *Application) OverrideStore(s kvstore.Store) {
	a.store = s
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	if err := os.MkdirAll(cfg.System.Workdir, 0o755); err != nil {
		return err
	}

	store, err := kvstore.NewBoltStore(cfg.StorePath())
	if err != nil {
		return err
	}
	a.store = store
	zap.S().Infof("store opened at %s", cfg.StorePath())

	a.bus = EventBus.New()
	store.OnChange(func(key string) {
		a.bus.Publish(events.TopicStoreChanged, key)
	})

	// relational registry when a database host is configured, otherwise the
	// in-memory fixture registry
	if cfg.Database.Host != "" {
		a.gormDB, err = openDatabase(cfg.Database)
		if err != nil {
			return err
		}
		if err := a.MigrateDB(false); err != nil {
			zap.S().Errorf("database migration failed: %v", err)
		}
		a.registry = accounts.NewGormRepository(a.gormDB)
		zap.S().Infof("account registry: %s database", cfg.Database.Type)
	} else {
		mem := accounts.NewMemoryRepository()
		a.registry = mem
		zap.S().Info("account registry: in-memory")
	}
	a.accountSvc = accounts.NewService(a.registry)

	a.catalog, err = catalog.Load(cfg.Shop.FixtureDir, a.store)
	if err != nil {
		return err
	}
	a.moderation = moderation.Load(cfg.Shop.FixtureDir, a.store)

	a.session = session.NewHolder(a.store, a.registry, a.bus)
	a.cart = cart.NewService(a.store, a.session, a.bus)
	a.wishlist = wishlist.NewService(a.store, a.session, a.bus)
	a.notify = notify.NewLog(a.store, a.session, a.bus)
	a.orders = order.NewManager(a.store, a.session, a.cart, a.notify, cfg.Shop.DeliveryDays)

	go func() {
		time.Sleep(time.Second)
		a.checkAdmin()
		a.seedAccounts()
	}()

	a.initJob()
	return nil
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
		cfg.Host, cfg.User, cfg.Passwd, cfg.Name, port, "Asia/Kolkata")
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: dsn}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	return db, nil
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEBUG_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
		zap.S().Error(err)
	}
}

// Start scheduler job runner
func (a *Application) StartBackgroundJobs(ctx context.Context) {
	a.sched.Start()
	go func() {
		<-ctx.Done()
		a.sched.Stop()
	}()
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	_ = zap.L().Sync()
}
