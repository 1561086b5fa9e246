// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package evaluate

import (
	"fmt"
	"strings"

	"github.com/nestscout/nestscout/internal/models"
)

// constraint is one declared preference check against a listing.
type constraint struct {
	// name tags the constraint for priority weighting and for the
	// strengths/concerns derivation.
	name string

	// label is the human-readable description used in strengths and
	// concerns.
	label string

	// satisfied is the check outcome.
	satisfied bool
}

// PreferenceScore computes the declared-preference match for one
// listing: the priority-weighted fraction of satisfied constraints
// scaled to [0, 10]. Any violated deal-breaker forces the score to 0
// regardless of other matches.
//
// The error return indicates a malformed profile/listing pair, which
// is fatal for that listing's evaluation (the listing is excluded
// from the batch).
func PreferenceScore(profile *models.PreferenceProfile, listing *models.Listing) (score float64, strengths, concerns []string, err error) {
	if err := profile.Validate(); err != nil {
		return 0, nil, nil, fmt.Errorf("malformed profile: %w", err)
	}
	if listing.ID == "" || listing.Price <= 0 {
		return 0, nil, nil, fmt.Errorf("malformed listing: id=%q price=%d", listing.ID, listing.Price)
	}

	text := listingText(listing)

	// Deal-breakers first: one hit zeroes the whole match.
	if db, hit := firstDealBreaker(profile, text); hit {
		concerns = append(concerns, "Deal-breaker present: "+db)
		return 0, strengths, concerns, nil
	}

	constraints := declaredConstraints(profile, listing, text)
	if len(constraints) == 0 {
		// Nothing declared: neutral match.
		return 5, strengths, concerns, nil
	}

	var sumW, satW float64
	for _, c := range constraints {
		w := priorityWeight(c.name, profile.LifestylePriorities)
		sumW += w
		if c.satisfied {
			satW += w
			strengths = append(strengths, c.label)
		} else {
			concerns = append(concerns, "Does not meet: "+c.label)
		}
	}

	return models.Clamp10(10 * satW / sumW), strengths, concerns, nil
}

// declaredConstraints builds the constraint list from whatever the
// profile actually declares; undeclared dimensions contribute nothing.
func declaredConstraints(p *models.PreferenceProfile, l *models.Listing, text string) []constraint {
	var cs []constraint

	if p.PriceMin > 0 || p.PriceMax > 0 {
		ok := (p.PriceMin == 0 || l.Price >= p.PriceMin) &&
			(p.PriceMax == 0 || l.Price <= p.PriceMax)
		cs = append(cs, constraint{"price", fmt.Sprintf("Price $%d within budget", l.Price), ok})
	}
	if p.BedroomsMin > 0 || p.BedroomsMax > 0 {
		ok := (p.BedroomsMin == 0 || l.Bedrooms >= p.BedroomsMin) &&
			(p.BedroomsMax == 0 || l.Bedrooms <= p.BedroomsMax)
		cs = append(cs, constraint{"bedrooms", fmt.Sprintf("%d bedrooms fit the requested range", l.Bedrooms), ok})
	}
	if p.BathroomsMin > 0 {
		cs = append(cs, constraint{"bathrooms", fmt.Sprintf("%.1f bathrooms meet the minimum", l.Bathrooms), l.Bathrooms >= p.BathroomsMin})
	}
	if p.SqftMin > 0 || p.SqftMax > 0 {
		ok := (p.SqftMin == 0 || l.Sqft >= p.SqftMin) &&
			(p.SqftMax == 0 || l.Sqft <= p.SqftMax)
		cs = append(cs, constraint{"sqft", fmt.Sprintf("%d sqft fits the requested size", l.Sqft), ok})
	}
	if p.Location != "" {
		cs = append(cs, constraint{"location", "Located in " + p.Location, locationMatches(p.Location, l)})
	}
	if len(p.PropertyTypes) > 0 {
		ok := false
		for _, t := range p.PropertyTypes {
			if models.NormalizeFeature(t) == models.NormalizeFeature(l.PropertyType) {
				ok = true
				break
			}
		}
		cs = append(cs, constraint{"property_type", "Property type " + l.PropertyType + " is acceptable", ok})
	}
	for _, f := range p.MustHaveFeatures {
		cs = append(cs, constraint{models.NormalizeFeature(f), "Has " + f, featurePresent(text, f)})
	}

	return cs
}

// priorityWeight weights a constraint by its rank among the declared
// lifestyle priorities: rank 0 of n gets 2.0, the last gets just over
// 1.0, unranked constraints get 1.0.
func priorityWeight(name string, priorities []string) float64 {
	n := len(priorities)
	for rank, p := range priorities {
		if models.NormalizeFeature(p) == name {
			return 1 + float64(n-rank)/float64(n)
		}
	}
	return 1
}

// DealBreakerHit reports whether any declared deal-breaker appears in
// the listing. The hit is carried on the sub-score set so compilation
// can disqualify the listing outright.
func DealBreakerHit(profile *models.PreferenceProfile, listing *models.Listing) bool {
	_, hit := firstDealBreaker(profile, listingText(listing))
	return hit
}

func firstDealBreaker(profile *models.PreferenceProfile, text string) (string, bool) {
	for _, db := range profile.DealBreakers {
		if featurePresent(text, db) {
			return db, true
		}
	}
	return "", false
}

// listingText is the lowercased haystack for feature searches.
func listingText(l *models.Listing) string {
	return strings.ToLower(l.Description + " " + l.PropertyType + " " + strings.Join(l.Images, " "))
}

// featurePresent reports whether the normalized feature appears in the
// listing text.
func featurePresent(text, feature string) bool {
	f := models.NormalizeFeature(feature)
	return f != "" && strings.Contains(text, f)
}

// locationMatches reports whether the profile location descriptor
// matches the listing's city, zip, or state.
func locationMatches(loc string, l *models.Listing) bool {
	want := models.NormalizeFeature(loc)
	return want == models.NormalizeFeature(l.Address.City) ||
		want == strings.TrimSpace(l.Address.Zip) ||
		want == models.NormalizeFeature(l.Address.State) ||
		strings.Contains(models.NormalizeFeature(l.Address.String()), want)
}
