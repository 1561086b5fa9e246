// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package similarity provides the historical-similarity index: a
// pluggable top-k lookup over past evaluation records embedded in a
// shared feature space. Implementations (real index vs. in-memory)
// are interchangeable behind the Index interface.
package similarity

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/nestscout/nestscout/internal/models"
)

// Record is one stored past evaluation.
type Record struct {
	// ID identifies the past evaluation.
	ID string

	// Vector is the listing's embedding in the shared feature space.
	Vector []float64

	// CompositeScore is the composite score the evaluation received.
	CompositeScore float64
}

// Index is the historical-similarity lookup capability. A lookup
// failure yields an empty list at the call site, never an error that
// aborts evaluation.
type Index interface {
	// Lookup returns the top-k records most similar to the query
	// vector, most similar first.
	Lookup(ctx context.Context, vector []float64, k int) ([]models.SimilarEvaluation, error)
}

// Store is the optional write side: pipelines that finish compiling a
// report add it back so later sessions can retrieve it as an analog.
type Store interface {
	Add(ctx context.Context, rec Record) error
}

// Vectorize embeds a listing into the shared feature space. The
// dimensions mirror the feature extraction used for preference
// learning: price (millions), bedrooms, bathrooms, area (thousands of
// sqft), days on market (hundreds), and a property-type one-hot.
func Vectorize(l models.Listing) []float64 {
	return []float64{
		float64(l.Price) / 1_000_000,
		float64(l.Bedrooms),
		l.Bathrooms,
		float64(l.Sqft) / 1_000,
		float64(l.DaysOnMarket) / 100,
		oneHot(l.PropertyType, "house"),
		oneHot(l.PropertyType, "condo"),
		oneHot(l.PropertyType, "townhouse"),
	}
}

func oneHot(propertyType, want string) float64 {
	if models.NormalizeFeature(propertyType) == want {
		return 1
	}
	return 0
}

// MemoryIndex is an in-process Index and Store backed by a slice.
// Safe for concurrent use.
type MemoryIndex struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// Add stores a record.
func (m *MemoryIndex) Add(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// Len returns the number of stored records.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Lookup returns the top-k most similar records by cosine similarity.
// Ties break by record ID for determinism.
func (m *MemoryIndex) Lookup(ctx context.Context, vector []float64, k int) ([]models.SimilarEvaluation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]models.SimilarEvaluation, 0, len(m.records))
	for _, rec := range m.records {
		sim := Cosine(vector, rec.Vector)
		if math.IsNaN(sim) {
			continue
		}
		matches = append(matches, models.SimilarEvaluation{
			ID:             rec.ID,
			Similarity:     sim,
			CompositeScore: rec.CompositeScore,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ID < matches[j].ID
	})

	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Cosine computes the cosine similarity of two vectors, mapped from
// [-1, 1] to [0, 1]. Returns NaN for mismatched or zero vectors.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.NaN()
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return math.NaN()
	}
	cos := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return (cos + 1) / 2
}
