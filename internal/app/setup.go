// Package app contains the application setup for the register service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/bakerypos/internal/config"
	"github.com/abgdnv/bakerypos/internal/events"
	"github.com/abgdnv/bakerypos/internal/register"
	"github.com/abgdnv/bakerypos/internal/store"
	"github.com/abgdnv/bakerypos/internal/transport/rest"
	"github.com/abgdnv/bakerypos/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type Dependencies struct {
	Session *register.Session
	Logger  *slog.Logger
}

// SetupDependencies creates the register session over the selected store
// backend and event publisher.
func SetupDependencies(ctx context.Context, kv store.Store, pub events.Publisher, logger *slog.Logger, cfg *config.Config) (*Dependencies, error) {
	session, err := register.NewSession(ctx, kv, pub, logger, register.Options{
		SeedCatalog:  cfg.Register.SeedCatalog,
		DefaultFloat: decimal.NewFromFloat(cfg.Register.OpeningFloat),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open register session: %w", err)
	}
	return &Dependencies{
		Session: session,
		Logger:  logger,
	}, nil
}

// SetupHttpHandler initializes the HTTP routes for the register service.
// Used by handler tests to set up the server with the full middleware stack.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the register service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(deps.Session, deps.Logger)
	handler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures the HTTP server for the register service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
