// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package models

import (
	"errors"
	"math"
	"testing"

	"github.com/goccy/go-json"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNormalizeSumsToOne(t *testing.T) {
	w := WeightVector{PreferenceMatch: 2, ExternalMean: 1, ArgumentBalance: 1}
	n := w.Normalize()
	if !approx(n.Sum(), 1.0) {
		t.Errorf("normalized sum = %f, want 1.0", n.Sum())
	}
	if !approx(n.PreferenceMatch, 0.5) {
		t.Errorf("preference weight = %f, want 0.5", n.PreferenceMatch)
	}
}

func TestNormalizeZeroVectorFallsBackToEqual(t *testing.T) {
	n := WeightVector{}.Normalize()
	for name, v := range n.ToMap() {
		if !approx(v, 0.25) {
			t.Errorf("%s = %f, want 0.25", name, v)
		}
	}
}

func TestFuseAllAvailable(t *testing.T) {
	f := FeatureVector{
		PreferenceMatch: ScoreOf(8),
		ExternalMean:    ScoreOf(6),
		ArgumentBalance: ScoreOf(5),
		SimilarityBoost: ScoreOf(7),
	}
	w := WeightVector{PreferenceMatch: 0.4, ExternalMean: 0.3, ArgumentBalance: 0.2, SimilarityBoost: 0.1}

	score, eff := f.Fuse(w)
	want := 0.4*8 + 0.3*6 + 0.2*5 + 0.1*7
	if !approx(score, want) {
		t.Errorf("fused score = %f, want %f", score, want)
	}
	if !approx(eff.Sum(), 1.0) {
		t.Errorf("effective weights sum = %f, want 1.0", eff.Sum())
	}
}

func TestFuseRedistributesUnavailableWeight(t *testing.T) {
	f := FeatureVector{
		PreferenceMatch: ScoreOf(8),
		ExternalMean:    UnavailableScore(),
		ArgumentBalance: ScoreOf(5),
		SimilarityBoost: UnavailableScore(),
	}
	w := WeightVector{PreferenceMatch: 0.4, ExternalMean: 0.3, ArgumentBalance: 0.2, SimilarityBoost: 0.1}

	score, eff := f.Fuse(w)
	if !approx(eff.PreferenceMatch, 0.4/0.6) {
		t.Errorf("effective preference weight = %f, want %f", eff.PreferenceMatch, 0.4/0.6)
	}
	if !approx(eff.ArgumentBalance, 0.2/0.6) {
		t.Errorf("effective balance weight = %f, want %f", eff.ArgumentBalance, 0.2/0.6)
	}
	if eff.ExternalMean != 0 || eff.SimilarityBoost != 0 {
		t.Errorf("unavailable features carry weight: %+v", eff)
	}
	want := (0.4*8 + 0.2*5) / 0.6
	if !approx(score, want) {
		t.Errorf("fused score = %f, want %f", score, want)
	}
}

func TestFuseZeroWeightOnAvailableFallsBackToEqual(t *testing.T) {
	f := FeatureVector{
		PreferenceMatch: ScoreOf(6),
		ArgumentBalance: ScoreOf(4),
	}
	w := WeightVector{ExternalMean: 0.5, SimilarityBoost: 0.5}

	score, eff := f.Fuse(w)
	if !approx(eff.PreferenceMatch, 0.5) || !approx(eff.ArgumentBalance, 0.5) {
		t.Errorf("effective weights = %+v, want equal split", eff)
	}
	if !approx(score, 5) {
		t.Errorf("fused score = %f, want 5", score)
	}
}

func TestSubScoreJSONRoundtrip(t *testing.T) {
	out, err := json.Marshal(UnavailableScore())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "null" {
		t.Errorf("unavailable marshals to %s, want null", out)
	}

	var s SubScore
	if err := json.Unmarshal([]byte("7.5"), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !s.Available || s.Value != 7.5 {
		t.Errorf("got %+v, want available 7.5", s)
	}
	if err := json.Unmarshal([]byte("null"), &s); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if s.Available {
		t.Error("null should decode as unavailable")
	}
}

func TestExternalMeanSkipsUnavailable(t *testing.T) {
	set := SubScoreSet{
		Crime:       ScoreOf(8),
		School:      UnavailableScore(),
		Walkability: ScoreOf(4),
	}
	mean, ok := set.ExternalMean()
	if !ok {
		t.Fatal("mean should be available")
	}
	if !approx(mean, 6) {
		t.Errorf("mean = %f, want 6", mean)
	}

	var empty SubScoreSet
	if _, ok := empty.ExternalMean(); ok {
		t.Error("all-unavailable set should report no mean")
	}
}

func TestSessionStateTransitions(t *testing.T) {
	legal := []struct{ from, to SessionState }{
		{StatePending, StateCollecting},
		{StateCollecting, StateEvaluating},
		{StateEvaluating, StateCompiling},
		{StateCompiling, StateReady},
		{StateReady, StateExhausted},
		{StatePending, StateError},
		{StateReady, StateError},
	}
	for _, e := range legal {
		if !e.from.CanTransition(e.to) {
			t.Errorf("%s -> %s should be legal", e.from, e.to)
		}
	}

	illegal := []struct{ from, to SessionState }{
		{StatePending, StateReady},
		{StateCollecting, StateCompiling},
		{StateReady, StateCollecting},
		{StateExhausted, StateError},
		{StateError, StateCollecting},
	}
	for _, e := range illegal {
		if e.from.CanTransition(e.to) {
			t.Errorf("%s -> %s should be illegal", e.from, e.to)
		}
	}
}

func TestFeedbackActionValid(t *testing.T) {
	if !FeedbackAction("like").Valid() || !FeedbackAction("dislike").Valid() {
		t.Error("like and dislike should be valid")
	}
	if FeedbackAction("maybe").Valid() || FeedbackAction("").Valid() {
		t.Error("unknown actions should be invalid")
	}
}

func TestProfileValidate(t *testing.T) {
	good := PreferenceProfile{PriceMin: 100_000, PriceMax: 500_000, BedroomsMin: 2, BedroomsMax: 4}
	if err := good.Validate(); err != nil {
		t.Errorf("valid profile rejected: %v", err)
	}

	bad := PreferenceProfile{PriceMin: 500_000, PriceMax: 100_000}
	if err := bad.Validate(); err == nil {
		t.Error("inverted price range accepted")
	}
	if err := (&PreferenceProfile{BedroomsMin: 4, BedroomsMax: 2}).Validate(); err == nil {
		t.Error("inverted bedroom range accepted")
	}
	if err := (&PreferenceProfile{SqftMin: 3000, SqftMax: 1000}).Validate(); err == nil {
		t.Error("inverted sqft range accepted")
	}
	clash := PreferenceProfile{MustHaveFeatures: []string{"Garage"}, DealBreakers: []string{"garage "}}
	if err := clash.Validate(); err == nil {
		t.Error("must-have overlapping deal-breaker accepted")
	}
}

func TestFeedbackEventValidate(t *testing.T) {
	good := FeedbackEvent{SessionID: "s-1", ListingID: "l-1", Action: ActionLike}
	if err := good.Validate(); err != nil {
		t.Errorf("valid event rejected: %v", err)
	}

	cases := []struct {
		name string
		ev   FeedbackEvent
	}{
		{"missing session", FeedbackEvent{ListingID: "l-1", Action: ActionLike}},
		{"missing listing", FeedbackEvent{SessionID: "s-1", Action: ActionDislike}},
		{"unknown action", FeedbackEvent{SessionID: "s-1", ListingID: "l-1", Action: "maybe"}},
		{"empty action", FeedbackEvent{SessionID: "s-1", ListingID: "l-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.ev.Validate()
			if !errors.Is(err, ErrMalformedFeedback) {
				t.Errorf("err = %v, want ErrMalformedFeedback", err)
			}
		})
	}
}
