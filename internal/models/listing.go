// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package models

import "time"

// Address is the structured location of a listing.
type Address struct {
	// Street is the street line, e.g. "123 Oak Ave".
	Street string `json:"street"`

	// City is the city name.
	City string `json:"city"`

	// State is the two-letter state code.
	State string `json:"state"`

	// Zip is the postal code.
	Zip string `json:"zip"`
}

// String returns the single-line form of the address.
func (a Address) String() string {
	return a.Street + ", " + a.City + ", " + a.State + " " + a.Zip
}

// Listing is one property record as returned by a collector source.
// Listings are immutable after aggregation; downstream stages share
// them read-only.
type Listing struct {
	// ID is the stable identifier, unique per source+listing.
	ID string `json:"id"`

	// Source is the collector that produced this listing
	// (e.g. "zillow", "redfin", "realtor").
	Source string `json:"source"`

	// URL is the original listing page.
	URL string `json:"url,omitempty"`

	// Address is the structured property address.
	Address Address `json:"address"`

	// Price is the asking price in whole dollars.
	Price int `json:"price"`

	// Bedrooms is the bedroom count.
	Bedrooms int `json:"bedrooms"`

	// Bathrooms is the bathroom count; half baths count 0.5.
	Bathrooms float64 `json:"bathrooms"`

	// Sqft is the interior area in square feet.
	Sqft int `json:"sqft"`

	// PropertyType is the property category
	// (e.g. "house", "condo", "townhouse").
	PropertyType string `json:"property_type"`

	// Description is the free-text listing description.
	Description string `json:"description"`

	// Images is the ordered list of image references.
	Images []string `json:"images"`

	// ListingDate is when the listing was published.
	ListingDate time.Time `json:"listing_date"`

	// DaysOnMarket is how long the listing has been active.
	DaysOnMarket int `json:"days_on_market"`
}
