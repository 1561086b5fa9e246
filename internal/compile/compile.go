// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package compile fuses a listing's evaluation and argumentation
// output into a final report: the weighted composite score with
// proportional weight redistribution over available features, the
// three-valued recommendation, and a templated executive summary.
package compile

import (
	"fmt"
	"strings"

	"github.com/nestscout/nestscout/internal/models"
)

// Compile produces the final report for one listing. The composite
// score and everything derived from it are frozen here; later
// reranking recomputes ordering keys from Features without touching
// the report.
func Compile(listing models.Listing, scores models.SubScoreSet, args models.ArgumentSet, weights models.WeightVector) models.FinalReport {
	features := Featurize(scores, args)
	score, effective := features.Fuse(weights.Normalize())

	rec := models.RecommendationForScore(score)
	if scores.DealBreakerHit {
		// A violated deal-breaker disqualifies the listing no matter
		// how the remaining components score.
		rec = models.RecommendPass
	}

	report := models.FinalReport{
		Listing:          listing,
		Scores:           scores,
		Arguments:        args,
		Features:         features,
		CompositeScore:   score,
		EffectiveWeights: effective,
		Recommendation:   rec,
		LimitedAnalysis:  args.LimitedAnalysis,
	}
	report.ExecutiveSummary = summarize(&report)
	return report
}

// Featurize maps the evaluation and argumentation output onto the
// four composite-score features, each on a [0, 10] scale:
//
//   - preference match: passed through, always available
//   - external mean: mean of available factor scores, unavailable
//     when every provider failed
//   - argument balance: (#pro-#con)/total mapped from [-1, 1] to
//     [0, 10], unavailable only when generation was degraded and
//     produced nothing
//   - similarity boost: similarity-weighted mean of the analogs'
//     historical composite scores, unavailable without analogs
func Featurize(scores models.SubScoreSet, args models.ArgumentSet) models.FeatureVector {
	f := models.FeatureVector{
		PreferenceMatch: models.ScoreOf(scores.PreferenceMatch),
	}

	if mean, ok := scores.ExternalMean(); ok {
		f.ExternalMean = models.ScoreOf(mean)
	}

	if !args.LimitedAnalysis || len(args.Pro)+len(args.Con) > 0 {
		f.ArgumentBalance = models.ScoreOf((args.Balance() + 1) * 5)
	}

	if boost, ok := similarityBoost(scores.Similar); ok {
		f.SimilarityBoost = models.ScoreOf(boost)
	}

	return f
}

// similarityBoost is the similarity-weighted mean of the analogs'
// historical composite scores.
func similarityBoost(similar []models.SimilarEvaluation) (float64, bool) {
	var num, den float64
	for _, s := range similar {
		if s.Similarity <= 0 {
			continue
		}
		num += s.Similarity * s.CompositeScore
		den += s.Similarity
	}
	if den == 0 {
		return 0, false
	}
	return num / den, true
}

// summarize renders the deterministic executive summary from the top
// strength, the top concern, and the dominant argument side.
func summarize(r *models.FinalReport) string {
	var b strings.Builder

	addr := r.Listing.Address.String()
	if addr == "" {
		addr = "This property"
	}
	fmt.Fprintf(&b, "%s scores %.1f/10 (%s).", addr, r.CompositeScore, r.Recommendation)

	if len(r.Scores.Strengths) > 0 {
		fmt.Fprintf(&b, " Top strength: %s.", lowerFirst(r.Scores.Strengths[0]))
	}
	if len(r.Scores.Concerns) > 0 {
		fmt.Fprintf(&b, " Top concern: %s.", lowerFirst(r.Scores.Concerns[0]))
	}

	switch {
	case len(r.Arguments.Pro) > len(r.Arguments.Con):
		fmt.Fprintf(&b, " The case for outweighs the case against (%d vs %d).", len(r.Arguments.Pro), len(r.Arguments.Con))
	case len(r.Arguments.Con) > len(r.Arguments.Pro):
		fmt.Fprintf(&b, " The case against outweighs the case for (%d vs %d).", len(r.Arguments.Con), len(r.Arguments.Pro))
	case len(r.Arguments.Pro) > 0:
		b.WriteString(" The cases for and against are evenly balanced.")
	}

	if r.LimitedAnalysis {
		b.WriteString(" Analysis was limited; some argumentation is missing.")
	}

	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
