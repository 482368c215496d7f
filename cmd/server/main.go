package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/handi_point/internal/config"
	"github.com/Skotchmaster/handi_point/internal/db"
	"github.com/Skotchmaster/handi_point/internal/httpserver"
	"github.com/Skotchmaster/handi_point/internal/logging"
	"github.com/Skotchmaster/handi_point/internal/menu"
	"github.com/Skotchmaster/handi_point/internal/middleware"
	"github.com/Skotchmaster/handi_point/internal/middleware/session"
	"github.com/Skotchmaster/handi_point/internal/mykafka"
	"github.com/Skotchmaster/handi_point/internal/repo"
	"github.com/Skotchmaster/handi_point/internal/service"
	"github.com/Skotchmaster/handi_point/internal/store"
)

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	ctx := logging.IntoContext(context.Background(), logger)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	kv, closeKV, err := openKV(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	catalog, err := menu.Load(cfg.MenuFile)
	if err != nil {
		log.Fatalf("menu load error: %v", err)
	}

	var publisher service.Publisher
	var prod *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = mykafka.NewProducer(cfg.KafkaBrokers)
		publisher = prod
	} else {
		logger.Info("kafka disabled, events will not be published")
	}

	cartSvc := service.NewCartService(&store.CartStore{KV: kv}, publisher)
	checkoutSvc := service.NewCheckoutService(cartSvc, &store.OrderLog{KV: kv}, publisher, service.CheckoutConfig{
		Delay:            cfg.CheckoutDelay,
		OrderIDPrefix:    cfg.OrderIDPrefix,
		DeliveryEstimate: cfg.DeliveryEstimate,
	})
	newsletterSvc := &service.NewsletterService{Subscribers: &store.Subscribers{KV: kv}}

	e := echo.New()
	e.HideBanner = true
	e.Pre(ecM.RemoveTrailingSlash())
	e.Use(middleware.Common(logger)...)

	httpserver.Register(e, &httpserver.Deps{
		MenuHandler:       &httpserver.MenuHTTP{Catalog: catalog},
		CartHandler:       &httpserver.CartHTTP{Svc: cartSvc, Menu: catalog},
		CheckoutHandler:   &httpserver.CheckoutHTTP{Svc: checkoutSvc},
		NewsletterHandler: &httpserver.NewsletterHTTP{Svc: newsletterSvc},
		Session:           session.New(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure),
		Ready: func(ctx context.Context) error {
			_, err := kv.Get(ctx, store.SubscribersKey)
			if errors.Is(err, repo.ErrNotFound) {
				return nil
			}
			return err
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// orders already submitting must land before storage goes away
	checkoutSvc.Wait()

	if prod != nil {
		if err := prod.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}
	if err := closeKV(); err != nil {
		logger.Error("storage close error", "error", err)
	}

	logger.Info("shutdown complete")
}

func openKV(ctx context.Context, cfg config.Config) (repo.KV, func() error, error) {
	switch cfg.StorageDriver {
	case config.DriverRedis:
		client, err := repo.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewRedisRepo(client, cfg.ServiceName), client.Close, nil
	default:
		gdb, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		kv, err := repo.NewGormRepo(gdb)
		if err != nil {
			db.Close(gdb)
			return nil, nil, err
		}
		return kv, func() error { return db.Close(gdb) }, nil
	}
}
