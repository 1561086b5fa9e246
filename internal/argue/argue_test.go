// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package argue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/models"
)

func fixtureListing() *models.Listing {
	return &models.Listing{
		ID:           "lst-9",
		Price:        420_000,
		Bedrooms:     4,
		Bathrooms:    2.5,
		Sqft:         2400,
		PropertyType: "house",
		Description:  "Spacious family home.",
		Address:      models.Address{City: "Raleigh", State: "NC", Zip: "27601"},
		DaysOnMarket: 21,
	}
}

func TestAdvocateFindsUpside(t *testing.T) {
	profile := &models.PreferenceProfile{PriceMax: 500_000, BedroomsMin: 3, SqftMin: 1500}
	scores := &models.SubScoreSet{
		ListingID:       "lst-9",
		PreferenceMatch: 9,
		School:          models.ScoreOf(8),
		Crime:           models.ScoreOf(7.5),
	}

	pro := Advocate(profile, fixtureListing(), scores)
	if len(pro) < 3 {
		t.Errorf("Advocate = %v, want at least budget, bedrooms, and school arguments", pro)
	}
}

func TestSkepticFindsDownside(t *testing.T) {
	profile := &models.PreferenceProfile{PriceMax: 400_000, BedroomsMin: 5}
	scores := &models.SubScoreSet{
		ListingID:       "lst-9",
		PreferenceMatch: 3,
		Crime:           models.ScoreOf(2),
	}

	con := Skeptic(profile, fixtureListing(), scores)
	if len(con) < 3 {
		t.Errorf("Skeptic = %v, want budget, bedrooms, and crime arguments", con)
	}
}

func TestSidesAreIndependent(t *testing.T) {
	// A listing can accumulate arguments on both sides at once.
	profile := &models.PreferenceProfile{PriceMax: 500_000, BedroomsMin: 3}
	scores := &models.SubScoreSet{
		ListingID:       "lst-9",
		PreferenceMatch: 8.5,
		Crime:           models.ScoreOf(2),
		School:          models.ScoreOf(8),
	}
	l := fixtureListing()

	pro := Advocate(profile, l, scores)
	con := Skeptic(profile, l, scores)
	if len(pro) == 0 || len(con) == 0 {
		t.Errorf("pro = %v, con = %v; both sides should have material", pro, con)
	}
}

func TestArguerBalance(t *testing.T) {
	a := New(time.Second, zerolog.Nop())
	profile := &models.PreferenceProfile{PriceMax: 500_000, BedroomsMin: 3}
	scores := &models.SubScoreSet{ListingID: "lst-9", PreferenceMatch: 9, School: models.ScoreOf(8)}

	set := a.Argue(context.Background(), profile, fixtureListing(), scores)
	if set.LimitedAnalysis {
		t.Error("LimitedAnalysis set with healthy generators")
	}
	if b := set.Balance(); b < -1 || b > 1 {
		t.Errorf("Balance = %f out of [-1, 1]", b)
	}
}

func TestArguerTimeoutFlagsLimitedAnalysis(t *testing.T) {
	stalled := func(_ *models.PreferenceProfile, _ *models.Listing, _ *models.SubScoreSet) []string {
		time.Sleep(500 * time.Millisecond)
		return []string{"too late"}
	}
	a := NewWithGenerators(stalled, Skeptic, 20*time.Millisecond, zerolog.Nop())

	scores := &models.SubScoreSet{ListingID: "lst-9", PreferenceMatch: 5}
	set := a.Argue(context.Background(), &models.PreferenceProfile{}, fixtureListing(), scores)
	if !set.LimitedAnalysis {
		t.Error("LimitedAnalysis not set after advocate timeout")
	}
	if len(set.Pro) != 0 {
		t.Errorf("Pro = %v, want empty for the timed-out side", set.Pro)
	}
}

func TestArguerRunsSidesConcurrently(t *testing.T) {
	slow := func(args ...string) Generator {
		return func(_ *models.PreferenceProfile, _ *models.Listing, _ *models.SubScoreSet) []string {
			time.Sleep(100 * time.Millisecond)
			return args
		}
	}
	a := NewWithGenerators(slow("for"), slow("against"), time.Second, zerolog.Nop())

	scores := &models.SubScoreSet{ListingID: "lst-9", PreferenceMatch: 5}
	start := time.Now()
	set := a.Argue(context.Background(), &models.PreferenceProfile{}, fixtureListing(), scores)
	elapsed := time.Since(start)

	if set.LimitedAnalysis || len(set.Pro) != 1 || len(set.Con) != 1 {
		t.Fatalf("unexpected set: %+v", set)
	}
	// Sequential sides would need at least 200ms.
	if elapsed >= 190*time.Millisecond {
		t.Errorf("Argue took %v, want both sides overlapping", elapsed)
	}
}

func TestEmptyArgumentSetBalanceIsZero(t *testing.T) {
	set := models.ArgumentSet{ListingID: "x"}
	if b := set.Balance(); b != 0 {
		t.Errorf("empty set Balance = %f, want 0", b)
	}
}

func TestGeneratorsDeterministic(t *testing.T) {
	profile := &models.PreferenceProfile{PriceMax: 500_000, BedroomsMin: 3, SqftMin: 1500}
	scores := &models.SubScoreSet{
		ListingID:       "lst-9",
		PreferenceMatch: 9,
		School:          models.ScoreOf(8),
		Walkability:     models.ScoreOf(7.2),
	}
	l := fixtureListing()

	first := Advocate(profile, l, scores)
	for i := 0; i < 5; i++ {
		got := Advocate(profile, l, scores)
		if len(got) != len(first) {
			t.Fatalf("argument count changed across runs: %d != %d", len(got), len(first))
		}
		for j := range got {
			if got[j] != first[j] {
				t.Fatalf("argument %d changed: %q != %q", j, got[j], first[j])
			}
		}
	}
}
