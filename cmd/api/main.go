package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/bannugul/consumer-gateway/api/routes"
	addresssvc "github.com/bannugul/consumer-gateway/internal/address"
	authsvc "github.com/bannugul/consumer-gateway/internal/auth"
	cartsvc "github.com/bannugul/consumer-gateway/internal/cart"
	catalogsvc "github.com/bannugul/consumer-gateway/internal/catalog"
	checkoutsvc "github.com/bannugul/consumer-gateway/internal/checkout"
	orderssvc "github.com/bannugul/consumer-gateway/internal/orders"
	"github.com/bannugul/consumer-gateway/internal/session"
	settingssvc "github.com/bannugul/consumer-gateway/internal/settings"
	supportsvc "github.com/bannugul/consumer-gateway/internal/support"
	"github.com/bannugul/consumer-gateway/internal/upstream"
	"github.com/bannugul/consumer-gateway/pkg/config"
	"github.com/bannugul/consumer-gateway/pkg/db"
	"github.com/bannugul/consumer-gateway/pkg/logger"
	"github.com/bannugul/consumer-gateway/pkg/media"
	"github.com/bannugul/consumer-gateway/pkg/metrics"
	pkgredis "github.com/bannugul/consumer-gateway/pkg/redis"
)

const (
	shutdownTimeout   = 15 * time.Second
	sessionPurgeEvery = time.Hour
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.Session, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open session database", err)
		os.Exit(1)
	}

	sessions, err := session.NewStore(dbClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare session store", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	closeAll := func() {
		err := multierr.Combine(redisClient.Close(), dbClient.Close())
		if err != nil {
			logg.Error(context.Background(), "error closing dependencies", err)
		}
	}

	registry := prometheus.NewRegistry()
	gateway := upstream.NewClient(cfg.Upstream, logg, metrics.NewUpstreamMetrics(registry))

	carts := cartsvc.NewService(gateway, logg)
	addresses := addresssvc.NewService(gateway, logg)
	appSettings := settingssvc.NewService(gateway, redisClient, cfg.Cache, logg)

	svcs := routes.Services{
		Auth:     authsvc.NewService(gateway, sessions, cfg.JWT, logg),
		Cart:     carts,
		Catalog:  catalogsvc.NewService(gateway, media.NewResolver(cfg.Media), logg),
		Address:  addresses,
		Orders:   orderssvc.NewService(gateway, logg),
		Checkout: checkoutsvc.NewService(gateway, carts, addresses, appSettings, cfg.Checkout, logg),
		Settings: appSettings,
		Support:  supportsvc.NewService(gateway, logg),
	}
	deps := routes.Dependencies{
		Sessions:    sessions,
		Redis:       redisClient,
		DBPinger:    dbClient,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Registry:    registry,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go purgeSessions(ctx, sessions, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, svcs, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting gateway server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "gateway server stopped unexpectedly", err)
			closeAll()
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "error draining connections", err)
	}
	closeAll()
	logg.Info(ctx, "gateway shut down gracefully")
}

// purgeSessions deletes expired session rows on a fixed interval so the
// embedded store does not grow without bound.
func purgeSessions(ctx context.Context, store *session.Store, logg *logger.Logger) {
	ticker := time.NewTicker(sessionPurgeEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := store.PurgeExpired(ctx, time.Now())
			if err != nil {
				logg.Error(ctx, "failed to purge expired sessions", err)
				continue
			}
			if purged > 0 {
				logg.Info(logg.WithFields(ctx, map[string]any{"purged": purged}), "purged expired sessions")
			}
		}
	}
}
