// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package learn maintains the per-session learned weight vector and
// reorders the unseen queue from feedback. Each session has exactly
// one engine; all mutation goes through its mutex, so independent
// sessions never contend.
package learn

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/models"
)

// nudge is one recorded weight adjustment, kept so an action flip can
// undo it exactly even after clipping.
type nudge struct {
	action models.FeedbackAction
	delta  models.WeightVector
}

// Engine owns a session's weight vector and feedback history.
type Engine struct {
	mu sync.Mutex

	// raw holds the unnormalized weights in [0, 1]. Normalization
	// happens on read so undo arithmetic stays exact.
	raw  models.WeightVector
	rate float64

	// last maps listing ID to the most recent applied nudge; the
	// idempotency key is the (session, listing) pair and the engine
	// is already per-session.
	last map[string]nudge

	likes    int
	dislikes int

	logger zerolog.Logger
}

// NewEngine builds an engine seeded with the base weights.
func NewEngine(base models.WeightVector, rate float64, logger zerolog.Logger) *Engine {
	return &Engine{
		raw:    base.Normalize(),
		rate:   rate,
		last:   make(map[string]nudge),
		logger: logger.With().Str("component", "learn").Logger(),
	}
}

// Weights returns the current normalized weight vector.
func (e *Engine) Weights() models.WeightVector {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.raw.Normalize()
}

// ApplyFeedback folds one feedback event into the weights using the
// feature values that produced the listing's composite score. Nudges
// move weight toward features the user's likes score high on and away
// from features their dislikes score high on.
//
// Repeating the same action for a listing is a no-op; a flipped
// action first undoes the prior nudge, then applies the new one. The
// returned bool reports whether the weights changed.
func (e *Engine) ApplyFeedback(ev models.FeedbackEvent, features models.FeatureVector) (bool, error) {
	if !ev.Action.Valid() {
		return false, models.ErrMalformedFeedback
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	prev, seen := e.last[ev.ListingID]
	if seen && prev.action == ev.Action {
		return false, nil
	}

	if seen {
		// Flip: subtract the exact delta that was applied before.
		e.raw = subtract(e.raw, prev.delta)
		e.uncount(prev.action)
	}

	dir := 1.0
	if ev.Action == models.ActionDislike {
		dir = -1
	}

	want := models.WeightVector{
		PreferenceMatch: dir * e.rate * centered(features.PreferenceMatch),
		ExternalMean:    dir * e.rate * centered(features.ExternalMean),
		ArgumentBalance: dir * e.rate * centered(features.ArgumentBalance),
		SimilarityBoost: dir * e.rate * centered(features.SimilarityBoost),
	}

	// Record the post-clip delta actually applied, not the intended
	// one, so a later undo restores the exact prior state.
	clipped := add(e.raw, want).Clip()
	applied := subtract(clipped, e.raw)
	e.raw = clipped
	e.last[ev.ListingID] = nudge{action: ev.Action, delta: applied}
	e.count(ev.Action)

	e.logger.Debug().
		Str("listing_id", ev.ListingID).
		Str("action", string(ev.Action)).
		Float64("pref_w", e.raw.PreferenceMatch).
		Float64("ext_w", e.raw.ExternalMean).
		Msg("feedback applied")
	return true, nil
}

// Rerank orders the given reports by the dot product of each report's
// feature values with the current weights, descending. The frozen
// composite scores are not consulted or modified. Ties break by lower
// days-on-market, then by listing ID, so the order is total and
// deterministic.
func (e *Engine) Rerank(reports []*models.FinalReport) {
	w := e.Weights()
	keys := make(map[string]float64, len(reports))
	for _, r := range reports {
		key, _ := r.Features.Fuse(w)
		keys[r.Listing.ID] = key
	}
	sort.SliceStable(reports, func(i, j int) bool {
		a, b := reports[i], reports[j]
		ka, kb := keys[a.Listing.ID], keys[b.Listing.ID]
		if ka != kb {
			return ka > kb
		}
		if a.Listing.DaysOnMarket != b.Listing.DaysOnMarket {
			return a.Listing.DaysOnMarket < b.Listing.DaysOnMarket
		}
		return a.Listing.ID < b.Listing.ID
	})
}

// Insights summarizes what the session's feedback has taught the
// engine so far.
type Insights struct {
	// Likes and Dislikes count distinct listings by current action.
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`

	// Weights is the current normalized weight vector by feature.
	Weights map[string]float64 `json:"weights"`

	// TopFeatures lists feature names by descending weight.
	TopFeatures []string `json:"top_features"`
}

// Snapshot returns the current insights.
func (e *Engine) Snapshot() Insights {
	e.mu.Lock()
	defer e.mu.Unlock()

	w := e.raw.Normalize()
	byWeight := []struct {
		name   string
		weight float64
	}{
		{models.FeaturePreferenceMatch, w.PreferenceMatch},
		{models.FeatureExternalMean, w.ExternalMean},
		{models.FeatureArgumentBalance, w.ArgumentBalance},
		{models.FeatureSimilarityBoost, w.SimilarityBoost},
	}
	sort.SliceStable(byWeight, func(i, j int) bool {
		if byWeight[i].weight != byWeight[j].weight {
			return byWeight[i].weight > byWeight[j].weight
		}
		return byWeight[i].name < byWeight[j].name
	})

	top := make([]string, len(byWeight))
	for i, f := range byWeight {
		top[i] = f.name
	}

	return Insights{
		Likes:       e.likes,
		Dislikes:    e.dislikes,
		Weights:     w.ToMap(),
		TopFeatures: top,
	}
}

func (e *Engine) count(a models.FeedbackAction) {
	if a == models.ActionLike {
		e.likes++
	} else {
		e.dislikes++
	}
}

func (e *Engine) uncount(a models.FeedbackAction) {
	if a == models.ActionLike {
		e.likes--
	} else {
		e.dislikes--
	}
}

// centered maps an available [0, 10] feature value to [-1, 1]; an
// unavailable feature contributes nothing in either direction.
func centered(s models.SubScore) float64 {
	if !s.Available {
		return 0
	}
	return (s.Value/10 - 0.5) * 2
}

func add(a, b models.WeightVector) models.WeightVector {
	return models.WeightVector{
		PreferenceMatch: a.PreferenceMatch + b.PreferenceMatch,
		ExternalMean:    a.ExternalMean + b.ExternalMean,
		ArgumentBalance: a.ArgumentBalance + b.ArgumentBalance,
		SimilarityBoost: a.SimilarityBoost + b.SimilarityBoost,
	}
}

func subtract(a, b models.WeightVector) models.WeightVector {
	return models.WeightVector{
		PreferenceMatch: a.PreferenceMatch - b.PreferenceMatch,
		ExternalMean:    a.ExternalMean - b.ExternalMean,
		ArgumentBalance: a.ArgumentBalance - b.ArgumentBalance,
		SimilarityBoost: a.SimilarityBoost - b.SimilarityBoost,
	}
}
