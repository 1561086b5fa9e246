// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package aggregate merges candidate listings from independent
// collector sources into one deduplicated working set.
package aggregate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/models"
)

// SourceResult is the outcome of one collector source: either a list
// of listings or a failure with a reason.
type SourceResult struct {
	// Source identifies the collector.
	Source string

	// Listings is the source's contribution; nil on failure.
	Listings []models.Listing

	// Err is the failure marker; a failed source is excluded and
	// recorded as a degradation, never a fatal error.
	Err error
}

// Result is the aggregation output.
type Result struct {
	// Listings is the deduplicated working set, ordered by listing
	// ID for determinism.
	Listings []models.Listing

	// DegradedSources lists the sources that failed, with reasons.
	DegradedSources []string
}

// Aggregator deduplicates and merges collector results.
type Aggregator struct {
	priceBucket int
	maxListings int
	logger      zerolog.Logger
}

// New creates an Aggregator. priceBucket is the dollar width of the
// price bucket in the dedup key; maxListings caps the working set
// (0 = unlimited).
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(priceBucket, maxListings int, logger zerolog.Logger) *Aggregator {
	if priceBucket <= 0 {
		priceBucket = 25_000
	}
	return &Aggregator{
		priceBucket: priceBucket,
		maxListings: maxListings,
		logger:      logger.With().Str("component", "aggregate").Logger(),
	}
}

// Aggregate joins the source results into one working set.
//
// Dedup key: normalized address + price bucket, falling back to
// source+id when address normalization yields nothing. On duplicate,
// the listing with the more recent listing date wins, and
// non-conflicting fields merge (the entry with more images keeps its
// image list).
//
// Working-set IDs are qualified with the contributing source, so two
// sources reusing the same raw listing ID never collide downstream.
//
// A source failure excludes that source and records a degradation.
// An empty result set is a terminal pipeline error (ErrNoListings).
func (a *Aggregator) Aggregate(results []SourceResult) (*Result, error) {
	merged := make(map[string]models.Listing)
	var degraded []string

	for _, res := range results {
		if res.Err != nil {
			a.logger.Warn().
				Str("source", res.Source).
				Err(res.Err).
				Msg("source failed, excluding its contribution")
			degraded = append(degraded, fmt.Sprintf("source %s unavailable: %v", res.Source, res.Err))
			continue
		}

		for _, l := range res.Listings {
			if l.Source == "" {
				l.Source = res.Source
			}
			key := a.dedupKey(l)
			existing, ok := merged[key]
			if !ok {
				merged[key] = l
				continue
			}
			merged[key] = mergeDuplicate(existing, l)
		}
	}

	if len(merged) == 0 {
		return nil, models.ErrNoListings
	}

	listings := make([]models.Listing, 0, len(merged))
	for _, l := range merged {
		// Source IDs are only unique within their source, and
		// everything downstream keys sessions and reports by bare ID.
		// Qualifying here makes the working-set IDs globally unique.
		if l.Source != "" && !strings.HasPrefix(l.ID, l.Source+":") {
			l.ID = l.Source + ":" + l.ID
		}
		listings = append(listings, l)
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })

	if a.maxListings > 0 && len(listings) > a.maxListings {
		listings = listings[:a.maxListings]
	}

	a.logger.Info().
		Int("sources", len(results)).
		Int("degraded", len(degraded)).
		Int("listings", len(listings)).
		Msg("aggregation complete")

	return &Result{Listings: listings, DegradedSources: degraded}, nil
}

// dedupKey builds the deduplication key for a listing.
func (a *Aggregator) dedupKey(l models.Listing) string {
	addr := NormalizeAddress(l.Address)
	if addr == "" {
		return "id:" + l.Source + ":" + l.ID
	}
	bucket := l.Price / a.priceBucket
	return addr + "#" + strconv.Itoa(bucket)
}

// mergeDuplicate resolves two listings sharing a dedup key: the newer
// listing date wins the base record, then non-conflicting fields are
// merged from the loser.
func mergeDuplicate(a, b models.Listing) models.Listing {
	winner, loser := a, b
	if b.ListingDate.After(a.ListingDate) {
		winner, loser = b, a
	}

	if len(loser.Images) > len(winner.Images) {
		winner.Images = loser.Images
	}
	if winner.Description == "" {
		winner.Description = loser.Description
	}
	if winner.URL == "" {
		winner.URL = loser.URL
	}
	if winner.DaysOnMarket == 0 {
		winner.DaysOnMarket = loser.DaysOnMarket
	}
	return winner
}

// streetAbbreviations maps long street suffixes to their short forms
// for address normalization.
var streetAbbreviations = [][2]string{
	{"street", "st"},
	{"avenue", "ave"},
	{"boulevard", "blvd"},
	{"drive", "dr"},
	{"road", "rd"},
	{"lane", "ln"},
	{"court", "ct"},
	{"place", "pl"},
}

// NormalizeAddress canonicalizes an address for deduplication:
// lowercased, punctuation stripped, street suffixes abbreviated,
// whitespace collapsed. Returns "" when the address carries no usable
// street line, signalling the source+id fallback.
func NormalizeAddress(addr models.Address) string {
	street := strings.ToLower(strings.TrimSpace(addr.Street))
	if street == "" {
		return ""
	}

	street = strings.NewReplacer(".", "", ",", "", "#", "").Replace(street)
	for _, ab := range streetAbbreviations {
		street = strings.ReplaceAll(street, ab[0], ab[1])
	}
	street = strings.Join(strings.Fields(street), " ")

	city := strings.ToLower(strings.TrimSpace(addr.City))
	zip := strings.TrimSpace(addr.Zip)
	return street + "|" + city + "|" + zip
}
