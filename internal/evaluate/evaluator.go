// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package evaluate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/models"
	"github.com/nestscout/nestscout/internal/similarity"
)

// Evaluator scores one listing against a preference profile: the
// declared-preference match, the four external factor scores, and
// retrieved historical analogs. The external calls and the index
// lookup run concurrently; any of them failing marks the sub-score
// unavailable without failing the listing.
type Evaluator struct {
	crime         Provider
	school        Provider
	walkability   Provider
	affordability Provider

	index      similarity.Index
	simTopK    int
	simTimeout time.Duration

	logger zerolog.Logger
}

// Options configures an Evaluator. Nil providers and a nil index are
// permitted and report unavailable.
type Options struct {
	Crime         Provider
	School        Provider
	Walkability   Provider
	Affordability Provider

	Index      similarity.Index
	SimTopK    int
	SimTimeout time.Duration
}

// New builds an Evaluator.
func New(opts Options, logger zerolog.Logger) *Evaluator {
	topK := opts.SimTopK
	if topK <= 0 {
		topK = 5
	}
	return &Evaluator{
		crime:         opts.Crime,
		school:        opts.School,
		walkability:   opts.Walkability,
		affordability: opts.Affordability,
		index:         opts.Index,
		simTopK:       topK,
		simTimeout:    opts.SimTimeout,
		logger:        logger.With().Str("component", "evaluator").Logger(),
	}
}

// Evaluate produces the sub-score set for one listing. The only error
// path is a malformed listing/profile pair; provider failures and
// index failures degrade the result instead.
func (e *Evaluator) Evaluate(ctx context.Context, profile *models.PreferenceProfile, listing *models.Listing) (models.SubScoreSet, error) {
	pref, strengths, concerns, err := PreferenceScore(profile, listing)
	if err != nil {
		return models.SubScoreSet{}, &models.ListingEvaluationFailure{ListingID: listing.ID, Err: err}
	}

	set := models.SubScoreSet{
		ListingID:       listing.ID,
		PreferenceMatch: pref,
		DealBreakerHit:  DealBreakerHit(profile, listing),
	}

	var wg sync.WaitGroup
	slots := []struct {
		provider Provider
		dst      *models.SubScore
	}{
		{e.crime, &set.Crime},
		{e.school, &set.School},
		{e.walkability, &set.Walkability},
		{e.affordability, &set.Affordability},
	}
	for _, slot := range slots {
		if slot.provider == nil {
			continue
		}
		wg.Add(1)
		go func(p Provider, dst *models.SubScore) {
			defer wg.Done()
			score, err := p.Score(ctx, listing.Address)
			if err != nil {
				e.logger.Debug().Err(err).
					Str("listing_id", listing.ID).
					Msg("external factor unavailable")
				return
			}
			// Slots are disjoint; no lock needed.
			*dst = models.ScoreOf(score)
		}(slot.provider, slot.dst)
	}

	if e.index != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			set.Similar = e.lookupSimilar(ctx, listing)
		}()
	}

	wg.Wait()

	set.Strengths, set.Concerns = e.annotate(listing, &set, strengths, concerns)
	return set, nil
}

// lookupSimilar retrieves the top-k analogs, absorbing any failure.
func (e *Evaluator) lookupSimilar(ctx context.Context, listing *models.Listing) []models.SimilarEvaluation {
	if e.simTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.simTimeout)
		defer cancel()
	}
	similar, err := e.index.Lookup(ctx, similarity.Vectorize(*listing), e.simTopK)
	if err != nil {
		e.logger.Debug().Err(err).Str("listing_id", listing.ID).Msg("similarity lookup failed")
		return nil
	}
	return similar
}

// annotate extends the preference-derived strengths and concerns with
// rule-based notes from the listing and the external factor scores.
// Order is fixed so reports are deterministic.
func (e *Evaluator) annotate(listing *models.Listing, set *models.SubScoreSet, strengths, concerns []string) ([]string, []string) {
	if set.Crime.Available {
		if set.Crime.Value >= 7 {
			strengths = append(strengths, "Low crime area")
		} else if set.Crime.Value < 4 {
			concerns = append(concerns, "Elevated crime in the area")
		}
	}
	if set.School.Available {
		if set.School.Value >= 8 {
			strengths = append(strengths, "Excellent school district")
		} else if set.School.Value < 4 {
			concerns = append(concerns, "Below-average schools nearby")
		}
	}
	if set.Walkability.Available {
		if set.Walkability.Value >= 8 {
			strengths = append(strengths, "Very walkable neighborhood")
		} else if set.Walkability.Value < 3 {
			concerns = append(concerns, "Car-dependent location")
		}
	}
	if set.Affordability.Available {
		if set.Affordability.Value >= 7 {
			strengths = append(strengths, "Priced well for the market")
		} else if set.Affordability.Value < 3 {
			concerns = append(concerns, "Expensive relative to the local market")
		}
	}

	if listing.DaysOnMarket > 90 {
		concerns = append(concerns, fmt.Sprintf("On the market %d days", listing.DaysOnMarket))
	} else if listing.DaysOnMarket > 0 && listing.DaysOnMarket <= 7 {
		strengths = append(strengths, "Fresh listing")
	}

	return strengths, concerns
}
