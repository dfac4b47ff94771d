// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

// Command server runs the Film Track HTTP API and its background
// event workers under a suture supervision tree.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/YldzBerkay/film-track-be-sub001/internal/api"
	"github.com/YldzBerkay/film-track-be-sub001/internal/config"
	"github.com/YldzBerkay/film-track-be-sub001/internal/database"
	"github.com/YldzBerkay/film-track-be-sub001/internal/events"
	"github.com/YldzBerkay/film-track-be-sub001/internal/logging"
	"github.com/YldzBerkay/film-track-be-sub001/internal/mood"
	"github.com/YldzBerkay/film-track-be-sub001/internal/recommend"
	"github.com/YldzBerkay/film-track-be-sub001/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("db_path", cfg.Database.Path).
		Msg("starting filmtrack server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("closing database")
		}
	}()

	moodCfg := mood.DefaultConfig()
	moodCfg.HistoryLimit = cfg.Mood.HistoryLimit
	moodCfg.VibeMaxDuration = time.Duration(cfg.Vibe.MaxDurationHours) * time.Hour

	moodLogger := logging.With().Str("component", "mood").Logger()
	moodEngine, err := mood.NewEngine(moodCfg, mood.Deps{
		Interactions: db,
		Catalog:      db,
		State:        db,
		Rules:        db,
	}, moodLogger)
	if err != nil {
		return fmt.Errorf("building mood engine: %w", err)
	}

	recCfg := &recommend.Config{
		CacheTTL:      cfg.Recommend.CacheTTL,
		DefaultLimit:  cfg.Recommend.DefaultLimit,
		MaxLimit:      cfg.Recommend.MaxLimit,
		MaxCandidates: cfg.Recommend.MaxCandidates,
	}
	recLogger := logging.With().Str("component", "recommend").Logger()
	recEngine, err := recommend.NewEngine(recCfg, db, moodEngine, recLogger)
	if err != nil {
		return fmt.Errorf("building recommendation engine: %w", err)
	}
	defer recEngine.Close()

	busLogger := logging.With().Str("component", "events").Logger()
	bus := events.NewBus(busLogger)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Warn().Err(err).Msg("closing event bus")
		}
	}()
	worker := events.NewRecomputeWorker(bus, moodEngine, recEngine, busLogger)

	handler := api.NewHandler(moodEngine, recEngine, db, bus)
	router := api.NewRouter(handler, &cfg.Server)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	slogger := slog.New(logging.NewSlogHandler())
	tree := supervisor.NewTree(slogger, treeCfg)
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddMessagingService(worker)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("supervision tree starting")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervision tree: %w", err)
	}

	logging.Info().Msg("shutdown complete")
	return nil
}
