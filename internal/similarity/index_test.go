// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package similarity

import (
	"context"
	"math"
	"testing"

	"github.com/nestscout/nestscout/internal/models"
)

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, 0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Cosine(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Cosine() = %f, want %f", got, tc.want)
			}
		})
	}

	if !math.IsNaN(Cosine([]float64{1}, []float64{1, 2})) {
		t.Error("mismatched lengths should yield NaN")
	}
	if !math.IsNaN(Cosine([]float64{0, 0}, []float64{1, 1})) {
		t.Error("zero vector should yield NaN")
	}
}

func TestVectorizeDimensions(t *testing.T) {
	l := models.Listing{
		Price:        500_000,
		Bedrooms:     3,
		Bathrooms:    2,
		Sqft:         1800,
		DaysOnMarket: 30,
		PropertyType: "House",
	}
	v := Vectorize(l)
	if len(v) != 8 {
		t.Fatalf("vector has %d dimensions, want 8", len(v))
	}
	if v[0] != 0.5 {
		t.Errorf("price dimension = %f, want 0.5", v[0])
	}
	if v[5] != 1 || v[6] != 0 || v[7] != 0 {
		t.Errorf("property one-hot = %v, want house slot set", v[5:])
	}
}

func TestLookupRanksBySimilarity(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()

	near := Vectorize(models.Listing{Price: 450_000, Bedrooms: 3, Bathrooms: 2, Sqft: 1800, PropertyType: "house"})
	far := Vectorize(models.Listing{Price: 2_000_000, Bedrooms: 6, Bathrooms: 5, Sqft: 6000, DaysOnMarket: 200, PropertyType: "condo"})
	if err := idx.Add(ctx, Record{ID: "near", Vector: near, CompositeScore: 8.0}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Add(ctx, Record{ID: "far", Vector: far, CompositeScore: 4.0}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	query := Vectorize(models.Listing{Price: 460_000, Bedrooms: 3, Bathrooms: 2, Sqft: 1750, PropertyType: "house"})
	got, err := idx.Lookup(ctx, query, 2)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d matches, want 2", len(got))
	}
	if got[0].ID != "near" {
		t.Errorf("top match = %s, want near", got[0].ID)
	}
	if got[0].Similarity <= got[1].Similarity {
		t.Errorf("matches not in descending similarity: %f then %f", got[0].Similarity, got[1].Similarity)
	}
}

func TestLookupHonorsK(t *testing.T) {
	idx := NewMemoryIndex()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := idx.Add(ctx, Record{ID: id, Vector: []float64{1, 1}, CompositeScore: 5}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	got, err := idx.Lookup(ctx, []float64{1, 1}, 2)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d matches, want k=2", len(got))
	}
	// Equal similarity breaks ties by ID.
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("tie-break order = %s, %s, want a, b", got[0].ID, got[1].ID)
	}
}

func TestLookupEmptyIndex(t *testing.T) {
	idx := NewMemoryIndex()
	got, err := idx.Lookup(context.Background(), []float64{1, 1}, 5)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d matches from empty index", len(got))
	}
}

func TestLookupCanceledContext(t *testing.T) {
	idx := NewMemoryIndex()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := idx.Lookup(ctx, []float64{1, 1}, 5); err == nil {
		t.Error("expected error from canceled context")
	}
}
