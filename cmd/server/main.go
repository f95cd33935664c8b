// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/doorly/docs" // Swagger spec for /swagger
	"github.com/tomtom215/doorly/internal/api"
	"github.com/tomtom215/doorly/internal/audit"
	"github.com/tomtom215/doorly/internal/auth"
	"github.com/tomtom215/doorly/internal/authz"
	"github.com/tomtom215/doorly/internal/cache"
	"github.com/tomtom215/doorly/internal/config"
	"github.com/tomtom215/doorly/internal/logging"
	"github.com/tomtom215/doorly/internal/supervisor"
	"github.com/tomtom215/doorly/internal/supervisor/services"
	"github.com/tomtom215/doorly/internal/sync"
)

// shutdownTimeout bounds HTTP connection draining.
const shutdownTimeout = 10 * time.Second

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
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Str("auth_mode", cfg.Security.AuthMode).
		Strs("sources", cfg.Sheets.SourceNames()).
		Bool("instagram_enabled", cfg.Instagram.Enabled).
		Bool("sync_enabled", cfg.Sync.Enabled).
		Msg("Starting Doorly")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sheet reads go through a circuit breaker so a failing Sheets API
	// fails fast instead of tying up request goroutines.
	sheetsClient, err := sync.NewSheetsClient(ctx, &cfg.Sheets)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create Google Sheets client")
	}
	rows := sync.NewCircuitBreakerSource(sheetsClient)

	responseCache := cache.NewCacher(cache.Config{
		Enabled:    cfg.Cache.Enabled,
		TTL:        cfg.Cache.TTL,
		MaxEntries: cfg.Cache.MaxEntries,
	})

	authSvc, err := auth.NewService(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}
	enforcer, err := authz.NewEnforcer(&cfg.Security.Casbin)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization")
	}

	handler := api.NewHandler(cfg, rows, authSvc, responseCache)
	handler.SetEnforcer(enforcer)

	var auditLogger *audit.Logger
	if cfg.Audit.Enabled {
		auditLogger = audit.NewLogger(audit.NewMemoryStore(cfg.Audit.MaxEvents), audit.Config{
			Retention:   cfg.Audit.Retention,
			BufferSize:  cfg.Audit.BufferSize,
			LogToStdout: cfg.Audit.LogToStdout,
		})
		handler.SetAuditLogger(auditLogger)
	}

	var syncer *sync.InsightsSyncer
	if cfg.Instagram.Enabled {
		insights := sync.NewCircuitBreakerInsights(sync.NewInstagramClient(&cfg.Instagram))
		handler.SetInsightsSource(insights)
		if cfg.Sync.Enabled {
			syncer = sync.NewInsightsSyncer(insights, rows, responseCache, cfg.Sync)
			handler.SetSyncer(syncer)
		}
	}

	router := api.NewRouter(handler, authSvc, enforcer)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if c, ok := responseCache.(*cache.Cache); ok {
		tree.AddDataService(services.NewCacheService(c))
	}
	if auditLogger != nil {
		tree.AddDataService(auditLogger)
	}
	if syncer != nil {
		tree.AddSyncService(services.NewSyncService(syncer))
		logging.Info().Dur("interval", cfg.Sync.Interval).Msg("Instagram sync added to supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, shutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	// The channel receives exactly one value and is never closed.
	errCh := tree.ServeBackground(ctx)
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Waiting for supervisor tree to stop")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Doorly stopped")
}
