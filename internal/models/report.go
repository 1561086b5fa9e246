// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package models

// ArgumentSet holds the independently generated pro and con arguments
// for one listing. Either side may be empty when its generation failed
// or timed out; LimitedAnalysis records that condition.
type ArgumentSet struct {
	ListingID string `json:"listing_id"`

	// Pro is the ordered list of arguments for the listing.
	Pro []string `json:"pro_arguments"`

	// Con is the ordered list of arguments against the listing.
	Con []string `json:"con_arguments"`

	// LimitedAnalysis is true when pro or con generation failed and
	// the report should be flagged downstream.
	LimitedAnalysis bool `json:"limited_analysis,omitempty"`
}

// Balance returns (#pro - #con) / max(#pro + #con, 1) in [-1, 1].
func (a *ArgumentSet) Balance() float64 {
	total := len(a.Pro) + len(a.Con)
	if total == 0 {
		total = 1
	}
	return float64(len(a.Pro)-len(a.Con)) / float64(total)
}

// Recommendation is the three-valued verdict attached to a report.
type Recommendation string

const (
	RecommendStrongBuy Recommendation = "Strong Buy"
	RecommendConsider  Recommendation = "Consider"
	RecommendPass      Recommendation = "Pass"
)

// RecommendationForScore maps a composite score to its verdict:
// >= 8 Strong Buy, >= 5 Consider, otherwise Pass.
func RecommendationForScore(score float64) Recommendation {
	switch {
	case score >= 8:
		return RecommendStrongBuy
	case score >= 5:
		return RecommendConsider
	default:
		return RecommendPass
	}
}

// FinalReport bundles everything the pipeline produced for one
// listing. Immutable once compiled: reranking attaches an external
// rank key and never mutates CompositeScore.
type FinalReport struct {
	// Listing is the candidate this report describes.
	Listing Listing `json:"listing"`

	// Scores is the evaluation output.
	Scores SubScoreSet `json:"evaluation"`

	// Arguments is the pro/con argumentation output.
	Arguments ArgumentSet `json:"arguments"`

	// Features are the per-feature values the composite score was
	// fused from, kept for reranking under learned weights.
	Features FeatureVector `json:"features"`

	// CompositeScore is the fused score in [0, 10], frozen at
	// compilation time.
	CompositeScore float64 `json:"final_score"`

	// EffectiveWeights are the renormalized weights actually used,
	// after redistribution over available features. They sum to 1.0.
	EffectiveWeights WeightVector `json:"effective_weights"`

	// Recommendation is the verdict derived from CompositeScore.
	Recommendation Recommendation `json:"recommendation"`

	// ExecutiveSummary is the deterministic templated synthesis of
	// the top strength, top concern, and dominant argument side.
	ExecutiveSummary string `json:"executive_summary"`

	// LimitedAnalysis is set when argument generation was degraded.
	LimitedAnalysis bool `json:"limited_analysis,omitempty"`
}
