// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package main is the entry point for the NestScout server.
//
// NestScout ranks real estate listings against a buyer's preference
// profile. Each session aggregates candidates from listing portals,
// scores them with neighborhood quality providers, argues for and
// against each candidate, and compiles ranked reports. Buyer feedback
// (like/dislike) nudges the scoring weights online and reranks the
// remaining queue.
//
// The process initializes in this order:
//
//  1. Configuration: Koanf v2 layered sources (env over file over defaults)
//  2. Weight store: BadgerDB when persistence is enabled
//  3. Pipeline: collectors, providers, evaluator, arguer, feedback bus
//  4. HTTP server: chi REST API with Prometheus metrics
//  5. Supervisor tree: suture v4 manages the manager and HTTP server
//
// Graceful shutdown runs on SIGINT and SIGTERM: the supervisor drains
// both layers, the HTTP server stops accepting connections, and the
// Badger store is closed last.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/aggregate"
	"github.com/nestscout/nestscout/internal/api"
	"github.com/nestscout/nestscout/internal/argue"
	"github.com/nestscout/nestscout/internal/collector"
	"github.com/nestscout/nestscout/internal/config"
	"github.com/nestscout/nestscout/internal/evaluate"
	"github.com/nestscout/nestscout/internal/events"
	"github.com/nestscout/nestscout/internal/learn"
	"github.com/nestscout/nestscout/internal/logging"
	"github.com/nestscout/nestscout/internal/pipeline"
	"github.com/nestscout/nestscout/internal/similarity"
	"github.com/nestscout/nestscout/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet, fall back to the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	log := logging.Logger()

	logging.Info().
		Int("port", cfg.Server.Port).
		Bool("persist_weights", cfg.Learning.PersistWeights).
		Msg("Starting NestScout")

	var store learn.Store = learn.NopStore{}
	if cfg.Learning.PersistWeights {
		badger, err := learn.NewBadgerStore(cfg.Store.Path, log)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open weight store")
		}
		store = badger
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing weight store")
		}
	}()

	// Compiled sessions feed the index; later sessions look up analogs.
	idx := similarity.NewMemoryIndex()

	shared := cfg.Providers
	eval := evaluate.New(evaluate.Options{
		Crime:         resilient(evaluate.ProviderCrime, shared.Crime, shared, log),
		School:        resilient(evaluate.ProviderSchool, shared.School, shared, log),
		Walkability:   resilient(evaluate.ProviderWalkability, shared.Walkability, shared, log),
		Affordability: resilient(evaluate.ProviderAffordability, shared.Affordability, shared, log),
		Index:         idx,
		SimTopK:       cfg.Similarity.TopK,
		SimTimeout:    cfg.Similarity.Timeout,
	}, log)

	runner := collector.NewRunner(collector.DefaultSources(), cfg.Pipeline.CollectTimeout, log)
	agg := aggregate.New(cfg.Scoring.DedupPriceBucket, cfg.Pipeline.MaxListings, log)
	arguer := argue.New(cfg.Pipeline.ArgueTimeout, log)
	bus := events.NewBus(log)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing feedback bus")
		}
	}()

	manager := pipeline.NewManager(cfg, runner, agg, eval, arguer, idx, store, bus, log)

	handler := api.NewHandler(manager, bus, log)
	router := api.NewRouter(handler, cfg.API)
	server := api.NewServer(cfg.Server, router, log)

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddPipelineService(manager)
	tree.AddAPIService(server)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree exited")
		stop()
		os.Exit(1)
	}

	logging.Info().Msg("Shutdown complete")
}

// resilient wraps the built-in fixture provider with rate limiting,
// circuit breaking, and per-call timeouts.
func resilient(name string, pc config.ProviderConfig, shared config.ProvidersConfig, log zerolog.Logger) evaluate.Provider {
	return evaluate.NewResilientProvider(evaluate.NewFixtureProvider(name), pc, shared, log)
}
