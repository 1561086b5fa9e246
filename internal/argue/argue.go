// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package argue generates adversarial pro and con argument lists for
// evaluated listings. The advocate and skeptic generators are pure
// functions over the listing, the profile, and the evaluation output;
// they run independently and concurrently, and a side that times out
// yields an empty list with the report flagged as limited analysis.
package argue

import (
	"fmt"

	"github.com/nestscout/nestscout/internal/models"
)

// Advocate builds the case for a listing. Rules fire in a fixed order
// so the argument list is deterministic.
func Advocate(profile *models.PreferenceProfile, listing *models.Listing, scores *models.SubScoreSet) []string {
	var args []string

	if profile.PriceMax > 0 && listing.Price < profile.PriceMax {
		margin := profile.PriceMax - listing.Price
		if margin >= profile.PriceMax/10 {
			args = append(args, fmt.Sprintf("Priced $%d under the stated budget", margin))
		}
	}
	if profile.BedroomsMin > 0 && listing.Bedrooms > profile.BedroomsMin {
		args = append(args, fmt.Sprintf("Offers %d bedrooms, more than the %d requested", listing.Bedrooms, profile.BedroomsMin))
	}
	if profile.SqftMin > 0 && listing.Sqft >= profile.SqftMin+500 {
		args = append(args, fmt.Sprintf("Generous %d sqft of living space", listing.Sqft))
	}
	if scores.PreferenceMatch >= 8 {
		args = append(args, "Strong match against the declared preferences")
	}
	if scores.School.Available && scores.School.Value >= 7.5 {
		args = append(args, "Well-rated schools serve this address")
	}
	if scores.Crime.Available && scores.Crime.Value >= 7 {
		args = append(args, "Neighborhood safety scores above average")
	}
	if scores.Walkability.Available && scores.Walkability.Value >= 7 {
		args = append(args, "Daily errands are walkable from here")
	}
	if scores.Affordability.Available && scores.Affordability.Value >= 7 {
		args = append(args, "Priced competitively for the local market")
	}
	if listing.DaysOnMarket > 60 {
		args = append(args, "Long time on market suggests room to negotiate")
	}
	if n := len(scores.Similar); n > 0 {
		var sum float64
		for _, s := range scores.Similar {
			sum += s.CompositeScore
		}
		if sum/float64(n) >= 7.5 {
			args = append(args, "Comparable past candidates scored highly")
		}
	}

	return args
}

// Skeptic builds the case against a listing, in a fixed rule order.
func Skeptic(profile *models.PreferenceProfile, listing *models.Listing, scores *models.SubScoreSet) []string {
	var args []string

	if profile.PriceMax > 0 && listing.Price > profile.PriceMax {
		args = append(args, fmt.Sprintf("Exceeds the stated budget by $%d", listing.Price-profile.PriceMax))
	}
	if profile.BedroomsMin > 0 && listing.Bedrooms < profile.BedroomsMin {
		args = append(args, fmt.Sprintf("Only %d bedrooms against the %d requested", listing.Bedrooms, profile.BedroomsMin))
	}
	if profile.SqftMin > 0 && listing.Sqft > 0 && listing.Sqft < profile.SqftMin {
		args = append(args, fmt.Sprintf("At %d sqft it is smaller than the %d sqft minimum", listing.Sqft, profile.SqftMin))
	}
	if scores.PreferenceMatch < 4 {
		args = append(args, "Weak match against the declared preferences")
	}
	if scores.Crime.Available && scores.Crime.Value < 4 {
		args = append(args, "Crime statistics for the area are concerning")
	}
	if scores.School.Available && scores.School.Value < 4 {
		args = append(args, "Local schools rate below average")
	}
	if scores.Walkability.Available && scores.Walkability.Value < 3 {
		args = append(args, "Nearly everything requires a car from this location")
	}
	if scores.Affordability.Available && scores.Affordability.Value < 3 {
		args = append(args, "Expensive relative to comparable local homes")
	}
	if listing.DaysOnMarket > 90 {
		args = append(args, fmt.Sprintf("Sat unsold for %d days", listing.DaysOnMarket))
	}
	if listing.Sqft == 0 || listing.Description == "" {
		args = append(args, "Listing data is incomplete; key details are missing")
	}

	return args
}
