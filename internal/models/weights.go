// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package models

// Feature names used in weight vectors, rerank keys, and insights.
const (
	FeaturePreferenceMatch = "preference_match"
	FeatureExternalMean    = "external_mean"
	FeatureArgumentBalance = "argument_balance"
	FeatureSimilarityBoost = "similarity_boost"
)

// WeightVector holds the relative importance of each composite-score
// feature. Weights are non-negative and are renormalized to sum to 1.0
// after every update.
type WeightVector struct {
	// PreferenceMatch weights the declared-preference match score.
	PreferenceMatch float64 `json:"preference_match"`

	// ExternalMean weights the mean of available external factor
	// scores (crime, school, walkability, affordability).
	ExternalMean float64 `json:"external_mean"`

	// ArgumentBalance weights the pro/con argument balance.
	ArgumentBalance float64 `json:"argument_balance"`

	// SimilarityBoost weights the historical-analog contribution.
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Sum returns the total of all weights.
func (w WeightVector) Sum() float64 {
	return w.PreferenceMatch + w.ExternalMean + w.ArgumentBalance + w.SimilarityBoost
}

// Normalize returns a copy with weights scaled to sum to 1.0.
// If all weights are zero, equal weights are returned.
func (w WeightVector) Normalize() WeightVector {
	sum := w.Sum()
	if sum == 0 {
		const equal = 0.25
		return WeightVector{
			PreferenceMatch: equal,
			ExternalMean:    equal,
			ArgumentBalance: equal,
			SimilarityBoost: equal,
		}
	}
	return WeightVector{
		PreferenceMatch: w.PreferenceMatch / sum,
		ExternalMean:    w.ExternalMean / sum,
		ArgumentBalance: w.ArgumentBalance / sum,
		SimilarityBoost: w.SimilarityBoost / sum,
	}
}

// Clip returns a copy with every weight clamped to [0, 1].
func (w WeightVector) Clip() WeightVector {
	return WeightVector{
		PreferenceMatch: clamp01(w.PreferenceMatch),
		ExternalMean:    clamp01(w.ExternalMean),
		ArgumentBalance: clamp01(w.ArgumentBalance),
		SimilarityBoost: clamp01(w.SimilarityBoost),
	}
}

// ToMap returns the weights keyed by feature name.
func (w WeightVector) ToMap() map[string]float64 {
	return map[string]float64{
		FeaturePreferenceMatch: w.PreferenceMatch,
		FeatureExternalMean:    w.ExternalMean,
		FeatureArgumentBalance: w.ArgumentBalance,
		FeatureSimilarityBoost: w.SimilarityBoost,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FeatureVector holds the per-feature values that feed a listing's
// composite score, each with explicit availability. It is frozen into
// the FinalReport so reranking can recompute keys under a changed
// weight vector without touching the report's score.
type FeatureVector struct {
	PreferenceMatch SubScore `json:"preference_match"`
	ExternalMean    SubScore `json:"external_mean"`
	ArgumentBalance SubScore `json:"argument_balance"`
	SimilarityBoost SubScore `json:"similarity_boost"`
}

// Fuse combines the feature values under the given weights. Weights of
// unavailable features are redistributed proportionally among the
// available ones so the effective weights still sum to 1.0. The
// effective weight vector actually used is returned alongside the
// fused score.
//
// PreferenceMatch is always available, so the available set is never
// empty and the fused score is always defined.
func (f FeatureVector) Fuse(w WeightVector) (float64, WeightVector) {
	var eff WeightVector
	var sum float64

	if f.PreferenceMatch.Available {
		eff.PreferenceMatch = w.PreferenceMatch
		sum += w.PreferenceMatch
	}
	if f.ExternalMean.Available {
		eff.ExternalMean = w.ExternalMean
		sum += w.ExternalMean
	}
	if f.ArgumentBalance.Available {
		eff.ArgumentBalance = w.ArgumentBalance
		sum += w.ArgumentBalance
	}
	if f.SimilarityBoost.Available {
		eff.SimilarityBoost = w.SimilarityBoost
		sum += w.SimilarityBoost
	}

	if sum == 0 {
		// All weights on unavailable features; fall back to equal
		// weighting of whatever is available.
		if f.PreferenceMatch.Available {
			eff.PreferenceMatch = 1
			sum++
		}
		if f.ExternalMean.Available {
			eff.ExternalMean = 1
			sum++
		}
		if f.ArgumentBalance.Available {
			eff.ArgumentBalance = 1
			sum++
		}
		if f.SimilarityBoost.Available {
			eff.SimilarityBoost = 1
			sum++
		}
		if sum == 0 {
			return 0, WeightVector{}
		}
	}

	eff = WeightVector{
		PreferenceMatch: eff.PreferenceMatch / sum,
		ExternalMean:    eff.ExternalMean / sum,
		ArgumentBalance: eff.ArgumentBalance / sum,
		SimilarityBoost: eff.SimilarityBoost / sum,
	}

	score := eff.PreferenceMatch*f.PreferenceMatch.Value +
		eff.ExternalMean*f.ExternalMean.Value +
		eff.ArgumentBalance*f.ArgumentBalance.Value +
		eff.SimilarityBoost*f.SimilarityBoost.Value

	return Clamp10(score), eff
}
