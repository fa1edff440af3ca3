// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-khetscore-simulation/internal/bootstrap"
	"github.com/AccelByte/extend-khetscore-simulation/internal/config"
	"github.com/AccelByte/extend-khetscore-simulation/internal/server"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/handler"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/service"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/session"
	"github.com/AccelByte/extend-khetscore-simulation/pkg/store"
	"github.com/sirupsen/logrus"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	httpServer        *server.HTTPServer
	grpcServer        *server.GRPCServer
	metricsServer     *server.MetricsServer
	store             store.Store
	telemetry         *server.Telemetry
}

// New creates and initializes a new application instance.
//
// ============================================================
// DEVELOPER: Application initialization order
// ============================================================
// Components are initialized in dependency order:
// 1. Store (redis, sqlite or badger)
// 2. Reference data (catalog, farmer directory)
// 3. Scoring engine and repositories
// 4. Servers (HTTP API, gRPC health, metrics)
// 5. Telemetry (OpenTelemetry tracing)
// ============================================================
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: Initialize the store
	// ============================================================
	s, err := bootstrap.InitStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init %s store: %w", cfg.StoreBackend, err)
	}
	app.store = s

	// ============================================================
	// Step 2: Load reference data
	// ============================================================
	cat, err := bootstrap.InitCatalog(cfg.CatalogPath)
	if err != nil {
		app.closeStore()
		return nil, err
	}
	farmers, err := bootstrap.InitFarmers(cfg.FarmerDataPath)
	if err != nil {
		app.closeStore()
		return nil, err
	}

	// ============================================================
	// Step 3: Engine and repositories
	// ============================================================
	engine := bootstrap.InitEngine(cat, cfg.RandomSeed)
	drafts := service.NewDraftService(s)
	healthChecker := store.NewHealthChecker(s, cfg.StoreBackend)

	api := handler.New(handler.Dependencies{
		Users:       service.NewUserService(s, service.UserServiceConfig{BcryptCost: cfg.BcryptCost}),
		Simulations: service.NewSimulationService(s, drafts),
		Drafts:      drafts,
		Farmers:     farmers,
		Catalog:     cat,
		Engine:      engine,
		Sessions:    session.NewRegistry(),
		Health:      healthChecker,
	}, handler.Config{
		JWTSecret:      []byte(cfg.JWTSecret),
		TokenTTL:       time.Duration(cfg.TokenTTLHours) * time.Hour,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// ============================================================
	// Step 4: Setup servers
	// ============================================================
	app.httpServer = server.NewHTTPServer(cfg.HTTPPort, api)
	if err := app.httpServer.Setup(); err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to setup HTTP server: %w", err)
	}

	app.grpcServer = server.NewGRPCServer(cfg.GRPCPort, cfg.ServiceName, healthChecker)
	if err := app.grpcServer.Setup(); err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to setup gRPC server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		app.closeStore()
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// ============================================================
	// Step 5: Setup telemetry
	// ============================================================
	if cfg.OtelEnabled {
		telemetry, err := server.SetupTelemetry(server.TelemetryConfig{
			ServiceName:    cfg.ServiceName,
			Environment:    cfg.Environment,
			ZipkinEndpoint: cfg.ZipkinEndpoint,
		})
		if err != nil {
			app.closeStore()
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.telemetry = telemetry
	} else {
		logrus.Info("telemetry disabled")
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

func (a *App) closeStore() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		logrus.Errorf("store close error: %v", err)
	}
	a.store = nil
}
