// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package models

import (
	"fmt"
	"strings"
)

// PreferenceProfile captures a user's declared search preferences.
// It is immutable once a pipeline session starts. A zero value for any
// numeric bound means "not specified".
type PreferenceProfile struct {
	// PriceMin and PriceMax bound the acceptable price in dollars.
	PriceMin int `json:"price_min,omitempty"`
	PriceMax int `json:"price_max,omitempty" validate:"omitempty,gtefield=PriceMin"`

	// BedroomsMin and BedroomsMax bound the bedroom count.
	BedroomsMin int `json:"bedrooms_min,omitempty"`
	BedroomsMax int `json:"bedrooms_max,omitempty" validate:"omitempty,gtefield=BedroomsMin"`

	// BathroomsMin is the minimum bathroom count.
	BathroomsMin float64 `json:"bathrooms_min,omitempty"`

	// SqftMin and SqftMax bound the interior area.
	SqftMin int `json:"sqft_min,omitempty"`
	SqftMax int `json:"sqft_max,omitempty" validate:"omitempty,gtefield=SqftMin"`

	// Location is a city, zip code, or neighborhood descriptor.
	Location string `json:"location,omitempty"`

	// PropertyTypes restricts the acceptable property categories.
	// Empty means any type is acceptable.
	PropertyTypes []string `json:"property_types,omitempty"`

	// MustHaveFeatures are features the listing description must
	// mention (e.g. "garage", "yard").
	MustHaveFeatures []string `json:"must_have_features,omitempty"`

	// DealBreakers are features whose presence disqualifies a listing
	// outright. Disjoint from MustHaveFeatures.
	DealBreakers []string `json:"deal_breakers,omitempty"`

	// LifestylePriorities are ranked priorities, most important first
	// (e.g. "schools", "walkability", "safety").
	LifestylePriorities []string `json:"lifestyle_priorities,omitempty"`
}

// Validate checks the profile invariants: all declared ranges satisfy
// min <= max (the struct tags), and deal-breakers and must-haves are
// disjoint.
func (p *PreferenceProfile) Validate() error {
	if err := structValidator.Struct(p); err != nil {
		return fmt.Errorf("invalid profile bounds: %w", err)
	}

	must := make(map[string]struct{}, len(p.MustHaveFeatures))
	for _, f := range p.MustHaveFeatures {
		must[NormalizeFeature(f)] = struct{}{}
	}
	for _, d := range p.DealBreakers {
		if _, ok := must[NormalizeFeature(d)]; ok {
			return fmt.Errorf("feature %q is both a must-have and a deal-breaker", d)
		}
	}
	return nil
}

// NormalizeFeature canonicalizes a feature tag for comparison.
func NormalizeFeature(f string) string {
	return strings.ToLower(strings.TrimSpace(f))
}
