// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package models

import "github.com/go-playground/validator/v10"

// structValidator runs the struct-tag checks on inbound payloads.
// validator instances cache struct metadata, so one shared instance
// serves the whole package.
var structValidator = validator.New(validator.WithRequiredStructEnabled())
