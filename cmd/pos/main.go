// Package main implements the bakery point-of-sale HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "net/http/pprof"

	"github.com/abgdnv/bakerypos/internal/app"
	"github.com/abgdnv/bakerypos/internal/config"
	"github.com/abgdnv/bakerypos/internal/events"
	"github.com/abgdnv/bakerypos/internal/store"
	"github.com/abgdnv/bakerypos/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/bakerypos/pkg/config"
	"github.com/abgdnv/bakerypos/pkg/config/configloader"
	"golang.org/x/sync/errgroup"
)

const serviceName = "pos"

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application, opens the state store and starts the HTTP
// and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	kv, closeStore, err := setupStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	pub, closePub, err := setupPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePub()

	deps, err := app.SetupDependencies(ctx, kv, pub, logger, cfg)
	if err != nil {
		return err
	}
	httpServer := app.SetupHttpServer(deps, cfg)
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		logger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			logger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			logger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// setupStore opens the configured key-value backend.
func setupStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case pkgconfig.StoreBackendPostgres:
		if err := store.Migrate(cfg.Store.Database.URL); err != nil {
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Store.Database.URL, cfg.Store.Database.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		return store.NewPgStore(dbPool), dbPool.Close, nil
	case pkgconfig.StoreBackendRedis:
		client, err := bootstrap.NewRedisClient(ctx, cfg.Store.Redis.Addr, cfg.Store.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return store.NewRedisStore(client), func() { _ = client.Close() }, nil
	default:
		return store.NewMemoryStore(), func() {}, nil
	}
}

// setupPublisher connects the event publisher; without a NATS URL events
// are discarded.
func setupPublisher(cfg *config.Config, logger *slog.Logger) (events.Publisher, func(), error) {
	if cfg.NATS.URL == "" {
		logger.Info("NATS not configured, change events disabled")
		return events.NoopPublisher{}, func() {}, nil
	}
	nc, err := events.NewNatsClient(cfg.NATS.URL, cfg.NATS.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := events.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to NATS", slog.String("url", cfg.NATS.URL))
	return events.NewNatsPublisher(js), nc.Close, nil
}
