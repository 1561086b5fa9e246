// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package argue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/models"
)

// Generator produces one side's arguments.
type Generator func(profile *models.PreferenceProfile, listing *models.Listing, scores *models.SubScoreSet) []string

// Arguer runs the advocate and skeptic generators concurrently with a
// per-side timeout. A side that misses the deadline contributes an
// empty list and flags the set as limited analysis; the other side is
// unaffected.
type Arguer struct {
	advocate Generator
	skeptic  Generator
	timeout  time.Duration
	logger   zerolog.Logger
}

// New builds an Arguer with the default rule-based generators.
func New(timeout time.Duration, logger zerolog.Logger) *Arguer {
	return &Arguer{
		advocate: Advocate,
		skeptic:  Skeptic,
		timeout:  timeout,
		logger:   logger.With().Str("component", "arguer").Logger(),
	}
}

// NewWithGenerators builds an Arguer around custom generators.
func NewWithGenerators(advocate, skeptic Generator, timeout time.Duration, logger zerolog.Logger) *Arguer {
	a := New(timeout, logger)
	a.advocate = advocate
	a.skeptic = skeptic
	return a
}

// Argue produces the argument set for one listing.
func (a *Arguer) Argue(ctx context.Context, profile *models.PreferenceProfile, listing *models.Listing, scores *models.SubScoreSet) models.ArgumentSet {
	set := models.ArgumentSet{ListingID: listing.ID}

	type sideResult struct {
		args []string
		ok   bool
	}
	proCh := make(chan sideResult, 1)
	go func() {
		args, ok := a.runSide(ctx, "advocate", a.advocate, profile, listing, scores)
		proCh <- sideResult{args, ok}
	}()

	con, okCon := a.runSide(ctx, "skeptic", a.skeptic, profile, listing, scores)
	proRes := <-proCh
	pro, okPro := proRes.args, proRes.ok

	set.Pro = pro
	set.Con = con
	set.LimitedAnalysis = !okPro || !okCon
	return set
}

// runSide executes one generator in its own goroutine so a stalled
// generator cannot block the listing past the deadline.
func (a *Arguer) runSide(ctx context.Context, side string, gen Generator, profile *models.PreferenceProfile, listing *models.Listing, scores *models.SubScoreSet) ([]string, bool) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	done := make(chan []string, 1)
	go func() {
		done <- gen(profile, listing, scores)
	}()

	select {
	case args := <-done:
		return args, true
	case <-ctx.Done():
		a.logger.Warn().
			Str("side", side).
			Str("listing_id", listing.ID).
			Msg("argument generation timed out")
		return nil, false
	}
}
