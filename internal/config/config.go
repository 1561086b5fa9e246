// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package config defines the service configuration and its koanf-based
// loading order: struct defaults, then an optional YAML file, then
// NESTSCOUT_-prefixed environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/nestscout/nestscout/internal/models"
)

// Config is the root service configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server" json:"server"`
	Logging    LoggingConfig    `koanf:"logging" json:"logging"`
	Pipeline   PipelineConfig   `koanf:"pipeline" json:"pipeline"`
	Scoring    ScoringConfig    `koanf:"scoring" json:"scoring"`
	Learning   LearningConfig   `koanf:"learning" json:"learning"`
	Providers  ProvidersConfig  `koanf:"providers" json:"providers"`
	Similarity SimilarityConfig `koanf:"similarity" json:"similarity"`
	Store      StoreConfig      `koanf:"store" json:"store"`
	API        APIConfig        `koanf:"api" json:"api"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Host is the bind address.
	Host string `koanf:"host" json:"host"`

	// Port is the listen port.
	Port int `koanf:"port" json:"port" validate:"gte=1,lte=65535"`

	// Timeout is the read/write timeout for HTTP requests.
	Timeout time.Duration `koanf:"timeout" json:"timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`
}

// LoggingConfig configures the zerolog sink.
type LoggingConfig struct {
	Level  string `koanf:"level" json:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" json:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller" json:"caller"`
}

// PipelineConfig configures the session pipeline orchestrator.
type PipelineConfig struct {
	// Workers bounds the per-session worker pool for per-listing
	// evaluation and argumentation tasks.
	Workers int `koanf:"workers" json:"workers" validate:"gte=1"`

	// CollectTimeout bounds the collector fan-out per source.
	CollectTimeout time.Duration `koanf:"collect_timeout" json:"collect_timeout"`

	// EvaluateTimeout bounds the evaluation of a single listing;
	// listings that miss the barrier are excluded, not blocking.
	EvaluateTimeout time.Duration `koanf:"evaluate_timeout" json:"evaluate_timeout"`

	// ArgueTimeout bounds pro/con generation per side per listing.
	ArgueTimeout time.Duration `koanf:"argue_timeout" json:"argue_timeout"`

	// MaxListings caps the aggregated working set.
	MaxListings int `koanf:"max_listings" json:"max_listings" validate:"gte=1"`

	// SessionTTL is how long a terminal session stays queryable.
	SessionTTL time.Duration `koanf:"session_ttl" json:"session_ttl"`
}

// ScoringConfig holds the composite-score base weights and the
// price bucket used for deduplication. The 40/30/20/10 split is a
// configurable default, not a constant.
type ScoringConfig struct {
	// BaseWeights are the initial feature weights. They are
	// normalized at runtime, so they need not sum exactly to 1.0.
	BaseWeights models.WeightVector `koanf:"base_weights" json:"base_weights"`

	// DedupPriceBucket is the price bucket width in dollars for the
	// aggregator's normalized-address+price dedup key.
	DedupPriceBucket int `koanf:"dedup_price_bucket" json:"dedup_price_bucket" validate:"gte=1"`
}

// LearningConfig configures per-session weight learning.
type LearningConfig struct {
	// Rate is the per-event weight nudge magnitude.
	Rate float64 `koanf:"rate" json:"rate" validate:"gt=0,lte=0.5"`

	// PersistWeights enables Badger persistence of learned weights
	// and the feedback log.
	PersistWeights bool `koanf:"persist_weights" json:"persist_weights"`
}

// ProviderConfig configures one external quality-of-life provider.
type ProviderConfig struct {
	// Enabled toggles the provider; disabled providers report
	// unavailable scores.
	Enabled bool `koanf:"enabled" json:"enabled"`

	// Timeout bounds one provider call.
	Timeout time.Duration `koanf:"timeout" json:"timeout"`

	// RateLimit is the maximum calls per second (0 = unlimited).
	RateLimit float64 `koanf:"rate_limit" json:"rate_limit"`
}

// ProvidersConfig configures the external factor providers and the
// shared circuit-breaker policy.
type ProvidersConfig struct {
	Crime         ProviderConfig `koanf:"crime" json:"crime"`
	School        ProviderConfig `koanf:"school" json:"school"`
	Walkability   ProviderConfig `koanf:"walkability" json:"walkability"`
	Affordability ProviderConfig `koanf:"affordability" json:"affordability"`

	// BreakerFailureThreshold is the consecutive-failure count that
	// opens a provider's circuit breaker.
	BreakerFailureThreshold uint32 `koanf:"breaker_failure_threshold" json:"breaker_failure_threshold" validate:"gte=1"`

	// BreakerCooldown is how long an open breaker stays open.
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" json:"breaker_cooldown"`
}

// SimilarityConfig configures historical-analog retrieval.
type SimilarityConfig struct {
	// TopK is how many analogs to retrieve per listing.
	TopK int `koanf:"top_k" json:"top_k" validate:"gte=1"`

	// Timeout bounds one index lookup.
	Timeout time.Duration `koanf:"timeout" json:"timeout"`
}

// StoreConfig configures the Badger store.
type StoreConfig struct {
	// Path is the Badger directory. Empty selects in-memory mode.
	Path string `koanf:"path" json:"path"`
}

// APIConfig configures API behavior.
type APIConfig struct {
	// RateLimitReqs is requests allowed per window per client IP.
	RateLimitReqs int `koanf:"rate_limit_reqs" json:"rate_limit_reqs" validate:"gte=1"`

	// RateLimitWindow is the rate-limiting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window" json:"rate_limit_window"`

	// CORSOrigins lists allowed origins; empty allows none.
	CORSOrigins []string `koanf:"cors_origins" json:"cors_origins"`
}

// Default returns a Config with production defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8472,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Pipeline: PipelineConfig{
			Workers:         8,
			CollectTimeout:  45 * time.Second,
			EvaluateTimeout: 15 * time.Second,
			ArgueTimeout:    10 * time.Second,
			MaxListings:     200,
			SessionTTL:      24 * time.Hour,
		},
		Scoring: ScoringConfig{
			BaseWeights: models.WeightVector{
				PreferenceMatch: 0.40,
				ExternalMean:    0.30,
				ArgumentBalance: 0.20,
				SimilarityBoost: 0.10,
			},
			DedupPriceBucket: 25_000,
		},
		Learning: LearningConfig{
			Rate:           0.02,
			PersistWeights: false,
		},
		Providers: ProvidersConfig{
			Crime:                   ProviderConfig{Enabled: true, Timeout: 5 * time.Second, RateLimit: 10},
			School:                  ProviderConfig{Enabled: true, Timeout: 5 * time.Second, RateLimit: 10},
			Walkability:             ProviderConfig{Enabled: true, Timeout: 5 * time.Second, RateLimit: 10},
			Affordability:           ProviderConfig{Enabled: true, Timeout: 5 * time.Second, RateLimit: 10},
			BreakerFailureThreshold: 5,
			BreakerCooldown:         30 * time.Second,
		},
		Similarity: SimilarityConfig{
			TopK:    5,
			Timeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Path: "",
		},
		API: APIConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// Validate checks the configuration for errors beyond struct tags.
func (c *Config) Validate() error {
	if c.Scoring.BaseWeights.Sum() <= 0 {
		return fmt.Errorf("scoring.base_weights must have a positive sum, got %f", c.Scoring.BaseWeights.Sum())
	}
	if c.Pipeline.EvaluateTimeout <= 0 {
		return fmt.Errorf("pipeline.evaluate_timeout must be positive, got %v", c.Pipeline.EvaluateTimeout)
	}
	if c.Pipeline.ArgueTimeout <= 0 {
		return fmt.Errorf("pipeline.argue_timeout must be positive, got %v", c.Pipeline.ArgueTimeout)
	}
	if c.Pipeline.CollectTimeout <= 0 {
		return fmt.Errorf("pipeline.collect_timeout must be positive, got %v", c.Pipeline.CollectTimeout)
	}
	if c.Learning.Rate <= 0 || c.Learning.Rate > 0.5 {
		return fmt.Errorf("learning.rate must be in (0, 0.5], got %f", c.Learning.Rate)
	}
	if c.Similarity.TopK < 1 {
		return fmt.Errorf("similarity.top_k must be positive, got %d", c.Similarity.TopK)
	}
	return nil
}
