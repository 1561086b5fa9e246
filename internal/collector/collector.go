// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package collector defines the candidate source contract and the
// fan-out that queries every source concurrently. Each source call
// carries its own timeout; a failed or timed-out source degrades
// coverage and never fails the batch.
package collector

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/aggregate"
	"github.com/nestscout/nestscout/internal/models"
)

// Source produces candidate listings matching a profile.
// Implementations must be safe for concurrent use.
type Source interface {
	// Name tags listings and failures with their origin.
	Name() string

	// Search returns candidates for the profile. Implementations
	// should honor ctx cancellation promptly.
	Search(ctx context.Context, profile *models.PreferenceProfile) ([]models.Listing, error)
}

// Runner fans a profile out to all sources in parallel.
type Runner struct {
	sources []Source
	timeout time.Duration
	logger  zerolog.Logger
}

// NewRunner builds a Runner. timeout bounds each individual source
// call.
func NewRunner(sources []Source, timeout time.Duration, logger zerolog.Logger) *Runner {
	return &Runner{
		sources: sources,
		timeout: timeout,
		logger:  logger.With().Str("component", "collector").Logger(),
	}
}

// Collect queries every source concurrently and returns one result
// per source, in source registration order. Errors are carried in the
// results, never returned.
func (r *Runner) Collect(ctx context.Context, profile *models.PreferenceProfile) []aggregate.SourceResult {
	results := make([]aggregate.SourceResult, len(r.sources))

	var wg sync.WaitGroup
	for i, src := range r.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			results[i] = r.collectOne(ctx, src, profile)
		}(i, src)
	}
	wg.Wait()

	return results
}

func (r *Runner) collectOne(ctx context.Context, src Source, profile *models.PreferenceProfile) aggregate.SourceResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	listings, err := src.Search(ctx, profile)
	if err != nil {
		r.logger.Warn().Err(err).
			Str("source", src.Name()).
			Dur("elapsed", time.Since(start)).
			Msg("source search failed")
		return aggregate.SourceResult{Source: src.Name(), Err: err}
	}

	r.logger.Debug().
		Str("source", src.Name()).
		Int("listings", len(listings)).
		Dur("elapsed", time.Since(start)).
		Msg("source search complete")
	return aggregate.SourceResult{Source: src.Name(), Listings: listings}
}
