package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"shopizen/config"
	"shopizen/internal/adminapi"
	"shopizen/internal/app"
	"shopizen/internal/shopapi"
	"shopizen/internal/webserver"
)

var (
	BuildVersion string = "dev"

	cfile   = flag.String("c", "shopizen.yml", "config file")
	showVer = flag.Bool("v", false, "print version and exit")
	initDB  = flag.Bool("initdb", false, "drop and recreate registry tables, then exit")
)

func main() {
	flag.Parse()
	if *showVer {
		fmt.Println(BuildVersion)
		os.Exit(0)
	}

	cfg := config.LoadConfig(*cfile)

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	if *initDB {
		if application.DB() == nil {
			zap.S().Fatal("initdb requires a configured database")
		}
		application.InitDb()
		zap.S().Info("registry tables recreated")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	application.StartBackgroundJobs(ctx)

	ws := webserver.Init(cfg)
	defer shopapi.Shutdown()
	shopapi.Init(&shopapi.Env{
		Cfg:      cfg,
		Session:  application.Session(),
		Accounts: application.Accounts(),
		Catalog:  application.Catalog(),
		Cart:     application.Cart(),
		Wishlist: application.Wishlist(),
		Orders:   application.Orders(),
		Notify:   application.Notify(),
	})
	adminapi.Init(&adminapi.Env{
		Cfg:        cfg,
		Catalog:    application.Catalog(),
		Moderation: application.Moderation(),
		Accounts:   application.Registry(),
		Orders:     application.Orders(),
		Store:      application.Store(),
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- ws.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zap.S().Errorf("webserver stopped: %v", err)
	case sig := <-sigCh:
		zap.S().Infof("received %s, shutting down", sig)
	}
}
