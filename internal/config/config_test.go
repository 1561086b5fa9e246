// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nestscout/nestscout/internal/models"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := validate(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.Port != 8472 {
		t.Errorf("default port = %d, want 8472", cfg.Server.Port)
	}
	sum := cfg.Scoring.BaseWeights.Sum()
	if sum < 0.99 || sum > 1.01 {
		t.Errorf("default base weights sum = %f, want ~1.0", sum)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("NESTSCOUT_SERVER_PORT", "9000")
	t.Setenv("NESTSCOUT_LOGGING_LEVEL", "debug")
	t.Setenv("NESTSCOUT_LEARNING_RATE", "0.05")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want env override 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Learning.Rate != 0.05 {
		t.Errorf("rate = %f, want 0.05", cfg.Learning.Rate)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("server:\n  port: 9100\nscoring:\n  dedup_price_bucket: 50000\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("NESTSCOUT_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want 9100 from file", cfg.Server.Port)
	}
	if cfg.Scoring.DedupPriceBucket != 50_000 {
		t.Errorf("dedup bucket = %d, want 50000", cfg.Scoring.DedupPriceBucket)
	}
	// Untouched sections keep defaults.
	if cfg.Pipeline.Workers != 8 {
		t.Errorf("workers = %d, want default 8", cfg.Pipeline.Workers)
	}
}

func TestEnvTransform(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"NESTSCOUT_SERVER_PORT", "server.port"},
		{"NESTSCOUT_PIPELINE_COLLECT_TIMEOUT", "pipeline.collect_timeout"},
		{"NESTSCOUT_LOGGING_LEVEL", "logging.level"},
	}
	for _, tc := range cases {
		if got := envTransform(tc.in); got != tc.want {
			t.Errorf("envTransform(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero weights", func(c *Config) { c.Scoring.BaseWeights = models.WeightVector{} }},
		{"negative evaluate timeout", func(c *Config) { c.Pipeline.EvaluateTimeout = -time.Second }},
		{"rate too large", func(c *Config) { c.Learning.Rate = 0.9 }},
		{"zero top-k", func(c *Config) { c.Similarity.TopK = 0 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
