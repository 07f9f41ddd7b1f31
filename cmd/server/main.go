// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/sheetlens/internal/api"
	"github.com/tomtom215/sheetlens/internal/auth"
	"github.com/tomtom215/sheetlens/internal/cache"
	"github.com/tomtom215/sheetlens/internal/config"
	"github.com/tomtom215/sheetlens/internal/database"
	"github.com/tomtom215/sheetlens/internal/logging"
	"github.com/tomtom215/sheetlens/internal/metrics"
	"github.com/tomtom215/sheetlens/internal/session"
	"github.com/tomtom215/sheetlens/internal/sheets"
	"github.com/tomtom215/sheetlens/internal/supervisor"
	"github.com/tomtom215/sheetlens/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// renderCacheEntries bounds the memoized chart renders across all views.
const renderCacheEntries = 10000

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("db_path", cfg.Database.Path).
		Str("sheets_dir", cfg.Sheets.Dir).
		Bool("demo_enabled", cfg.Sheets.DemoEnabled).
		Msg("Starting Sheetlens")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	// Demo ids are served locally; everything else goes through the breaker
	// to the workbook directory.
	workbooks := sheets.NewWorkbookSource(cfg.Sheets.Dir)
	breaker := sheets.NewBreakerSource(workbooks, sheets.DefaultBreakerConfig(), cfg.Sheets.FetchTimeout)
	var demo sheets.Source
	if cfg.Sheets.DemoEnabled {
		demo = sheets.NewDemoSource()
	}
	source := sheets.NewMux(demo, breaker)

	renderCache := cache.New("render", cfg.Cache.TTL, renderCacheEntries)
	views := session.NewManager(session.Config{
		IdleTimeout: cfg.Cache.ViewIdleTimeout,
		FetchRate:   cfg.Sheets.FetchRate,
		FetchBurst:  cfg.Sheets.FetchBurst,
	}, renderCache)

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	authService, err := auth.NewService(db, jwtManager, cfg.Security.BcryptCost)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize auth service")
	}

	handler, err := api.NewHandler(api.Deps{
		Config:  cfg,
		Store:   db,
		Auth:    authService,
		Source:  source,
		Views:   views,
		Catalog: workbooks,
		Breaker: breaker,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize API handlers")
	}
	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager, db, api.WriteAuthError))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(renderCache)
	tree.AddDataService(views)
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for services to stop")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	stop()
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Sheetlens stopped")
}
