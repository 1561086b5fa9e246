// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package collector

import (
	"context"
	"strings"
	"time"

	"github.com/nestscout/nestscout/internal/models"
)

// FixtureSource serves a static corpus filtered by the hard profile
// bounds. It stands in for the real portal scrapers in development
// and tests; the soft preference matching happens downstream in
// evaluation, so the filter here only drops clear range misses.
type FixtureSource struct {
	name   string
	corpus []models.Listing
}

// NewFixtureSource wraps a corpus as a Source.
func NewFixtureSource(name string, corpus []models.Listing) *FixtureSource {
	return &FixtureSource{name: name, corpus: corpus}
}

// Name implements Source.
func (s *FixtureSource) Name() string { return s.name }

// Search implements Source.
func (s *FixtureSource) Search(ctx context.Context, profile *models.PreferenceProfile) ([]models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []models.Listing
	for _, l := range s.corpus {
		if matchesBounds(profile, &l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func matchesBounds(p *models.PreferenceProfile, l *models.Listing) bool {
	if p.PriceMin > 0 && l.Price < p.PriceMin {
		return false
	}
	if p.PriceMax > 0 && l.Price > p.PriceMax {
		return false
	}
	if p.BedroomsMin > 0 && l.Bedrooms < p.BedroomsMin {
		return false
	}
	if p.Location != "" {
		want := strings.ToLower(strings.TrimSpace(p.Location))
		if !strings.Contains(strings.ToLower(l.Address.String()), want) {
			return false
		}
	}
	return true
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DefaultSources returns the built-in fixture portals. The corpora
// overlap on purpose: 412 Maple St appears in two portals at slightly
// different prices so aggregation has duplicates to merge.
func DefaultSources() []Source {
	return []Source{
		NewFixtureSource("homeportal", []models.Listing{
			{
				ID: "hp-1001", Source: "homeportal",
				URL:     "https://homeportal.example/listing/1001",
				Address: models.Address{Street: "412 Maple St", City: "Austin", State: "TX", Zip: "78704"},
				Price:   455_000, Bedrooms: 3, Bathrooms: 2, Sqft: 1850,
				PropertyType: "house",
				Description:  "Updated three bedroom house with a two-car garage and shaded yard.",
				Images:       []string{"hp/1001/front.jpg", "hp/1001/kitchen.jpg"},
				ListingDate:  date(2026, 7, 18), DaysOnMarket: 43,
			},
			{
				ID: "hp-1002", Source: "homeportal",
				URL:     "https://homeportal.example/listing/1002",
				Address: models.Address{Street: "88 Congress Ave", City: "Austin", State: "TX", Zip: "78701"},
				Price:   615_000, Bedrooms: 2, Bathrooms: 2, Sqft: 1200,
				PropertyType: "condo",
				Description:  "Downtown condo with skyline views, gym, and secured parking.",
				Images:       []string{"hp/1002/view.jpg"},
				ListingDate:  date(2026, 8, 2), DaysOnMarket: 28,
			},
			{
				ID: "hp-1003", Source: "homeportal",
				URL:     "https://homeportal.example/listing/1003",
				Address: models.Address{Street: "9 Brushy Creek Rd", City: "Round Rock", State: "TX", Zip: "78681"},
				Price:   389_000, Bedrooms: 4, Bathrooms: 2.5, Sqft: 2300,
				PropertyType: "house",
				Description:  "Family home on a quiet cul-de-sac with a fenced yard and new roof.",
				Images:       []string{"hp/1003/front.jpg", "hp/1003/yard.jpg", "hp/1003/living.jpg"},
				ListingDate:  date(2026, 6, 30), DaysOnMarket: 61,
			},
			{
				ID: "hp-1004", Source: "homeportal",
				URL:     "https://homeportal.example/listing/1004",
				Address: models.Address{Street: "230 Rainey St", City: "Austin", State: "TX", Zip: "78701"},
				Price:   725_000, Bedrooms: 3, Bathrooms: 3, Sqft: 1950,
				PropertyType: "townhouse",
				Description:  "Modern townhouse steps from the hike and bike trail.",
				Images:       []string{"hp/1004/front.jpg"},
				ListingDate:  date(2026, 8, 11), DaysOnMarket: 19,
			},
		}),
		NewFixtureSource("nestfinder", []models.Listing{
			{
				ID: "nf-2001", Source: "nestfinder",
				URL:     "https://nestfinder.example/p/2001",
				Address: models.Address{Street: "412 Maple Street", City: "Austin", State: "TX", Zip: "78704"},
				Price:   452_000, Bedrooms: 3, Bathrooms: 2, Sqft: 1850,
				PropertyType: "house",
				Description:  "Charming South Austin house, garage, mature trees, walk to cafes.",
				Images:       []string{"nf/2001/a.jpg", "nf/2001/b.jpg", "nf/2001/c.jpg"},
				ListingDate:  date(2026, 8, 5), DaysOnMarket: 25,
			},
			{
				ID: "nf-2002", Source: "nestfinder",
				URL:     "https://nestfinder.example/p/2002",
				Address: models.Address{Street: "1501 Barton Springs Rd", City: "Austin", State: "TX", Zip: "78704"},
				Price:   540_000, Bedrooms: 3, Bathrooms: 2, Sqft: 1600,
				PropertyType: "house",
				Description:  "Bungalow near Zilker Park with a screened porch and studio shed.",
				Images:       []string{"nf/2002/a.jpg"},
				ListingDate:  date(2026, 7, 25), DaysOnMarket: 36,
			},
			{
				ID: "nf-2003", Source: "nestfinder",
				URL:     "https://nestfinder.example/p/2003",
				Address: models.Address{Street: "77 Mueller Blvd", City: "Austin", State: "TX", Zip: "78723"},
				Price:   475_000, Bedrooms: 3, Bathrooms: 2.5, Sqft: 1750,
				PropertyType: "townhouse",
				Description:  "Mueller townhouse with solar panels, walkable to the lake park.",
				Images:       []string{"nf/2003/a.jpg", "nf/2003/b.jpg"},
				ListingDate:  date(2026, 8, 15), DaysOnMarket: 15,
			},
			{
				ID: "nf-2004", Source: "nestfinder",
				URL:     "https://nestfinder.example/p/2004",
				Address: models.Address{Street: "3200 Red River St", City: "Austin", State: "TX", Zip: "78705"},
				Price:   310_000, Bedrooms: 1, Bathrooms: 1, Sqft: 720,
				PropertyType: "condo",
				Description:  "Efficient one bedroom condo near campus, low HOA.",
				Images:       nil,
				ListingDate:  date(2026, 5, 20), DaysOnMarket: 102,
			},
		}),
		NewFixtureSource("realtyhub", []models.Listing{
			{
				ID: "rh-3001", Source: "realtyhub",
				URL:     "https://realtyhub.example/homes/3001",
				Address: models.Address{Street: "640 Pecan Grove Ln", City: "Pflugerville", State: "TX", Zip: "78660"},
				Price:   415_000, Bedrooms: 4, Bathrooms: 3, Sqft: 2450,
				PropertyType: "house",
				Description:  "Spacious two-story with a game room, covered patio, and garage.",
				Images:       []string{"rh/3001/1.jpg", "rh/3001/2.jpg"},
				ListingDate:  date(2026, 7, 8), DaysOnMarket: 53,
			},
			{
				ID: "rh-3002", Source: "realtyhub",
				URL:     "https://realtyhub.example/homes/3002",
				Address: models.Address{Street: "12 Travis Heights Blvd", City: "Austin", State: "TX", Zip: "78704"},
				Price:   870_000, Bedrooms: 4, Bathrooms: 3, Sqft: 2600,
				PropertyType: "house",
				Description:  "Travis Heights classic with a renovated kitchen and large yard.",
				Images:       []string{"rh/3002/1.jpg"},
				ListingDate:  date(2026, 8, 1), DaysOnMarket: 29,
			},
			{
				ID: "rh-3003", Source: "realtyhub",
				URL:     "https://realtyhub.example/homes/3003",
				Address: models.Address{Street: "501 West Ave", City: "Austin", State: "TX", Zip: "78701"},
				Price:   498_000, Bedrooms: 2, Bathrooms: 2, Sqft: 1100,
				PropertyType: "condo",
				Description:  "Corner unit condo, floor-to-ceiling windows, walkable downtown.",
				Images:       []string{"rh/3003/1.jpg", "rh/3003/2.jpg", "rh/3003/3.jpg"},
				ListingDate:  date(2026, 8, 9), DaysOnMarket: 21,
			},
		}),
	}
}
