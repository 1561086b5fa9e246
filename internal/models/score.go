// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package models

import (
	"github.com/goccy/go-json"
)

// SubScore is one named scoring component in [0, 10] with explicit
// availability. An unavailable score is semantically distinct from a
// zero score: zero means "measured and bad", unavailable means "no
// data" and causes weight redistribution at compilation time.
type SubScore struct {
	Value     float64
	Available bool
}

// ScoreOf returns an available sub-score clamped to [0, 10].
func ScoreOf(v float64) SubScore {
	return SubScore{Value: Clamp10(v), Available: true}
}

// UnavailableScore returns the unavailable marker.
func UnavailableScore() SubScore {
	return SubScore{}
}

// Or returns the score value when available, otherwise the fallback.
func (s SubScore) Or(fallback float64) float64 {
	if s.Available {
		return s.Value
	}
	return fallback
}

// MarshalJSON renders unavailable scores as null, matching the
// optional-score wire shape consumed by the presentation client.
func (s SubScore) MarshalJSON() ([]byte, error) {
	if !s.Available {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON parses null as unavailable.
func (s *SubScore) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = SubScore{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = ScoreOf(v)
	return nil
}

// Clamp10 clamps v to [0, 10].
func Clamp10(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// SimilarEvaluation is one retrieved analog from the
// historical-similarity index.
type SimilarEvaluation struct {
	// ID identifies the past evaluation record.
	ID string `json:"id"`

	// Similarity is the retrieval similarity in [0, 1].
	Similarity float64 `json:"similarity"`

	// CompositeScore is the composite score that past evaluation
	// received.
	CompositeScore float64 `json:"composite_score"`
}

// SubScoreSet is the evaluation output for one listing: the
// preference-match score, the external factor scores, retrieved
// historical analogs, and free-text strengths and concerns.
type SubScoreSet struct {
	ListingID string `json:"listing_id"`

	// PreferenceMatch is always available; a failed preference-match
	// computation fails the whole listing evaluation instead.
	PreferenceMatch float64 `json:"preference_match"`

	// DealBreakerHit marks a declared deal-breaker found in the
	// listing. It zeroes PreferenceMatch and forces the Pass
	// recommendation at compilation, whatever the other components
	// score.
	DealBreakerHit bool `json:"deal_breaker_hit,omitempty"`

	Crime         SubScore `json:"crime_score"`
	School        SubScore `json:"school_score"`
	Walkability   SubScore `json:"walkability_score"`
	Affordability SubScore `json:"affordability_score"`

	// Similar holds the top-k most similar past evaluations. Empty on
	// index failure; that is not an error.
	Similar []SimilarEvaluation `json:"similar_evaluations"`

	Strengths []string `json:"strengths"`
	Concerns  []string `json:"concerns"`
}

// ExternalScores returns the external factor scores in fixed order.
func (s *SubScoreSet) ExternalScores() []SubScore {
	return []SubScore{s.Crime, s.School, s.Walkability, s.Affordability}
}

// ExternalMean averages the available external factor scores. The
// second return is false when none are available.
func (s *SubScoreSet) ExternalMean() (float64, bool) {
	var sum float64
	var n int
	for _, sc := range s.ExternalScores() {
		if sc.Available {
			sum += sc.Value
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
