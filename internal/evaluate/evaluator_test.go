// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package evaluate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/config"
	"github.com/nestscout/nestscout/internal/models"
	"github.com/nestscout/nestscout/internal/similarity"
)

// staticProvider returns a fixed score or error.
type staticProvider struct {
	name  string
	score float64
	err   error
	delay time.Duration
}

func (p *staticProvider) Name() string { return p.name }

func (p *staticProvider) Score(ctx context.Context, _ models.Address) (float64, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return p.score, p.err
}

func newTestEvaluator(opts Options) *Evaluator {
	return New(opts, zerolog.Nop())
}

func TestEvaluateAllProvidersHealthy(t *testing.T) {
	ev := newTestEvaluator(Options{
		Crime:         &staticProvider{name: ProviderCrime, score: 7},
		School:        &staticProvider{name: ProviderSchool, score: 8.5},
		Walkability:   &staticProvider{name: ProviderWalkability, score: 6},
		Affordability: &staticProvider{name: ProviderAffordability, score: 5},
	})

	profile := &models.PreferenceProfile{PriceMax: 500_000, BedroomsMin: 3}
	set, err := ev.Evaluate(context.Background(), profile, testListing())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	for i, sc := range set.ExternalScores() {
		if !sc.Available {
			t.Errorf("external score %d unavailable, want available", i)
		}
	}
	mean, ok := set.ExternalMean()
	if !ok {
		t.Fatal("ExternalMean unavailable with four healthy providers")
	}
	want := (7 + 8.5 + 6 + 5.0) / 4
	if mean != want {
		t.Errorf("ExternalMean = %f, want %f", mean, want)
	}
}

func TestEvaluatePartialProviderFailure(t *testing.T) {
	ev := newTestEvaluator(Options{
		Crime:       &staticProvider{name: ProviderCrime, err: errors.New("upstream 503")},
		School:      &staticProvider{name: ProviderSchool, score: 8},
		Walkability: &staticProvider{name: ProviderWalkability, score: 6},
	})

	set, err := ev.Evaluate(context.Background(), &models.PreferenceProfile{BedroomsMin: 3}, testListing())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if set.Crime.Available {
		t.Error("crime score available after provider error")
	}
	if set.Affordability.Available {
		t.Error("affordability score available with no provider wired")
	}
	mean, ok := set.ExternalMean()
	if !ok || mean != 7 {
		t.Errorf("ExternalMean = %f/%v, want 7 over the two healthy providers", mean, ok)
	}
}

func TestEvaluateAllProvidersFail(t *testing.T) {
	boom := errors.New("network down")
	ev := newTestEvaluator(Options{
		Crime:         &staticProvider{name: ProviderCrime, err: boom},
		School:        &staticProvider{name: ProviderSchool, err: boom},
		Walkability:   &staticProvider{name: ProviderWalkability, err: boom},
		Affordability: &staticProvider{name: ProviderAffordability, err: boom},
	})

	set, err := ev.Evaluate(context.Background(), &models.PreferenceProfile{BedroomsMin: 3}, testListing())
	if err != nil {
		t.Fatalf("Evaluate must not fail on provider errors: %v", err)
	}
	if _, ok := set.ExternalMean(); ok {
		t.Error("ExternalMean available with every provider failing")
	}
	if set.PreferenceMatch <= 0 {
		t.Errorf("PreferenceMatch = %f, want > 0 for a satisfied profile", set.PreferenceMatch)
	}
}

func TestEvaluateFlagsDealBreaker(t *testing.T) {
	ev := newTestEvaluator(Options{
		Crime:  &staticProvider{name: ProviderCrime, score: 9},
		School: &staticProvider{name: ProviderSchool, score: 9},
	})

	profile := &models.PreferenceProfile{DealBreakers: []string{"busy road"}}
	l := testListing()
	l.Description = "Updated kitchen, sits on a busy road near the highway."

	set, err := ev.Evaluate(context.Background(), profile, l)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !set.DealBreakerHit {
		t.Error("DealBreakerHit not set for a listing with a declared deal-breaker")
	}
	if set.PreferenceMatch != 0 {
		t.Errorf("PreferenceMatch = %f, want 0 on a deal-breaker hit", set.PreferenceMatch)
	}
}

func TestEvaluateSimilarityLookup(t *testing.T) {
	idx := similarity.NewMemoryIndex()
	seed := testListing()
	if err := idx.Add(context.Background(), similarity.Record{
		ID:             "past-1",
		Vector:         similarity.Vectorize(*seed),
		CompositeScore: 8.2,
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ev := newTestEvaluator(Options{Index: idx, SimTopK: 3})
	set, err := ev.Evaluate(context.Background(), &models.PreferenceProfile{}, testListing())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(set.Similar) != 1 {
		t.Fatalf("Similar = %v, want one analog", set.Similar)
	}
	if set.Similar[0].ID != "past-1" || set.Similar[0].CompositeScore != 8.2 {
		t.Errorf("unexpected analog: %+v", set.Similar[0])
	}
	if set.Similar[0].Similarity < 0.99 {
		t.Errorf("identical vector similarity = %f, want ~1", set.Similar[0].Similarity)
	}
}

func TestEvaluateMalformedListingFails(t *testing.T) {
	ev := newTestEvaluator(Options{})
	l := testListing()
	l.ID = ""
	_, err := ev.Evaluate(context.Background(), &models.PreferenceProfile{}, l)
	var lef *models.ListingEvaluationFailure
	if !errors.As(err, &lef) {
		t.Fatalf("err = %v, want ListingEvaluationFailure", err)
	}
}

func TestResilientProviderTimeout(t *testing.T) {
	slow := &staticProvider{name: ProviderCrime, score: 7, delay: 200 * time.Millisecond}
	rp := NewResilientProvider(slow, config.ProviderConfig{
		Enabled: true,
		Timeout: 10 * time.Millisecond,
	}, config.ProvidersConfig{BreakerFailureThreshold: 5, BreakerCooldown: time.Second}, zerolog.Nop())

	_, err := rp.Score(context.Background(), models.Address{City: "Austin"})
	var pu *models.ProviderUnavailable
	if !errors.As(err, &pu) {
		t.Fatalf("err = %v, want ProviderUnavailable", err)
	}
}

func TestResilientProviderBreakerOpens(t *testing.T) {
	failing := &staticProvider{name: ProviderSchool, err: errors.New("boom")}
	rp := NewResilientProvider(failing, config.ProviderConfig{Enabled: true},
		config.ProvidersConfig{BreakerFailureThreshold: 3, BreakerCooldown: time.Minute}, zerolog.Nop())

	for i := 0; i < 5; i++ {
		if _, err := rp.Score(context.Background(), models.Address{City: "Austin"}); err == nil {
			t.Fatal("expected error from failing provider")
		}
	}
	if got := rp.BreakerState(); got != "open" {
		t.Errorf("breaker state = %q, want open after consecutive failures", got)
	}
}

func TestResilientProviderDisabled(t *testing.T) {
	rp := NewResilientProvider(&staticProvider{name: ProviderWalkability, score: 9},
		config.ProviderConfig{Enabled: false},
		config.ProvidersConfig{BreakerFailureThreshold: 3, BreakerCooldown: time.Minute}, zerolog.Nop())

	if _, err := rp.Score(context.Background(), models.Address{City: "Austin"}); err == nil {
		t.Error("disabled provider returned a score")
	}
}

func TestFixtureProviderDeterministic(t *testing.T) {
	p := NewFixtureProvider(ProviderCrime)
	addr := models.Address{City: "Smallville"}
	first, err := p.Score(context.Background(), addr)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := p.Score(context.Background(), addr)
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if got != first {
			t.Fatalf("synthetic score changed: %f != %f", got, first)
		}
	}
	if first < 0 || first > 10 {
		t.Errorf("synthetic score %f out of range", first)
	}
}

func TestFixtureProviderKnownCity(t *testing.T) {
	p := NewFixtureProvider(ProviderSchool)
	got, err := p.Score(context.Background(), models.Address{City: "Seattle"})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got != 8.3 {
		t.Errorf("Seattle school score = %f, want 8.3", got)
	}
}
