package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"glamup.com/app/internal/config"
	apphttp "glamup.com/app/internal/http"
	"glamup.com/app/internal/http/cartcookie"
	"glamup.com/app/internal/http/handlers"
	"glamup.com/app/internal/mailer"
	"glamup.com/app/internal/modules/admin"
	"glamup.com/app/internal/modules/auth"
	"glamup.com/app/internal/modules/cart"
	"glamup.com/app/internal/modules/catalog"
	"glamup.com/app/internal/modules/checkout"
	"glamup.com/app/internal/modules/email"
	"glamup.com/app/internal/modules/orders"
	"glamup.com/app/internal/shared/dbx"
	"glamup.com/app/internal/storage"
)

const (
	cartIdleAfter   = 30 * time.Minute
	evictEvery      = 5 * time.Minute
	sessionSweep    = time.Hour
	shutdownTimeout = 15 * time.Second
)

func main() {
	// Load .env file (ignore error if not found - prod uses real env vars)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server_exit", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	db, err := dbx.OpenMySQL(cfg.DBDSN)
	if err != nil {
		return err
	}
	health := map[string]handlers.Check{"db": pingDB(db)}

	catalogSvc := catalog.NewService(catalog.NewGormRepo(db))
	if n, err := catalogSvc.Count(ctx); err == nil && n == 0 {
		logger.Warn("catalog_empty", slog.String("hint", "run `ctl seed-catalog`"))
	}

	authSvc := auth.NewService(auth.NewRepo(db), auth.NewTokenIssuer(cfg.JWTSecret, "glamup"), cfg.SessionTTL)

	var orderStore orders.Store = orders.NewGormStore(db)
	if cfg.OrderStore == "mongo" {
		client, err := orders.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		ms := orders.NewMongoStore(client.Database(cfg.MongoDB))
		if err := ms.EnsureIndexes(ctx); err != nil {
			return err
		}
		orderStore = ms
		health["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
	}
	orderSvc := orders.NewService(orderStore)
	adminOrders := orders.NewAdminService(orderStore)

	var persister cart.Persister
	if cfg.CartPersist == "redis" {
		rdb := cart.NewRedisClient(cfg.RedisURL)
		defer rdb.Close()
		rp := cart.NewRedisPersister(rdb, cfg.CartTTL)
		persister = rp
		health["redis"] = rp.Ping
	}
	carts := cart.NewRegistry(persister, logger)

	var sender mailer.Sender = mailer.Log{L: logger}
	if cfg.SMTP.Enabled() {
		sender = mailer.NewSMTPMailer(cfg.SMTP)
	}
	emailSvc := email.NewService(sender)

	checkoutSvc := checkout.NewService(orderSvc, emailSvc, logger, checkout.Options{Delay: cfg.CheckoutDelay})

	store, err := storage.FromConfig(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	deps := apphttp.Deps{
		Catalog:      catalogSvc,
		Auth:         authSvc,
		Orders:       orderSvc,
		AdminOrders:  adminOrders,
		Checkout:     checkoutSvc,
		Dashboard:    admin.NewDashboard(catalogSvc, authSvc, adminOrders),
		Carts:        carts,
		CartCookie:   cartcookie.New([]byte(cfg.AppSecret), cartcookie.DefaultName, cfg.CookieSecure, cfg.CartTTL),
		Storage:      store,
		Welcome:      emailSvc,
		Health:       health,
		CORSOrigins:  cfg.CORSOrigins,
		CookieSecure: cfg.CookieSecure,
	}
	if cfg.Storage.Driver == "local" {
		deps.UploadDir = cfg.Storage.LocalDir
		deps.UploadURLPrefix = cfg.Storage.LocalURLPrefix
	}

	bg, cancelBg := context.WithCancel(ctx)
	defer cancelBg()
	go carts.RunEvictor(bg, evictEvery, cartIdleAfter)
	go sweepSessions(bg, authSvc, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apphttp.NewRouter(logger, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_start", slog.String("addr", cfg.HTTPAddr), slog.String("order_store", cfg.OrderStore), slog.String("cart_persist", cfg.CartPersist))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server_shutdown_failed", slog.Any("err", err))
	}
	checkoutSvc.Wait()
	if err := carts.Flush(shutdownCtx); err != nil {
		logger.Warn("cart_flush_failed", slog.Any("err", err))
	}
	return nil
}

func pingDB(db *gorm.DB) handlers.Check {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func sweepSessions(ctx context.Context, svc *auth.Service, logger *slog.Logger) {
	t := time.NewTicker(sessionSweep)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := svc.PurgeExpiredSessions(ctx)
			if err != nil {
				logger.Warn("session_sweep_failed", slog.Any("err", err))
				continue
			}
			if n > 0 {
				logger.Info("sessions_purged", slog.Int64("count", n))
			}
		}
	}
}
