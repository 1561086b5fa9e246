// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package evaluate scores candidate listings. The declared-preference
// match is a pure computation over the profile and the listing; the
// external quality-of-life factors (crime, school, walkability,
// affordability) come from pluggable providers wrapped in circuit
// breakers and rate limiters, and historical analogs come from the
// similarity index. Provider and index failures degrade the listing's
// sub-scores to unavailable instead of failing the evaluation.
package evaluate
