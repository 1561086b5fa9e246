// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/nestscout/nestscout/internal/logging"
	"github.com/nestscout/nestscout/internal/models"
)

// Response is the envelope for every API payload.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	body, err := json.Marshal(&Response{Success: status < 400, Data: data})
	if err != nil {
		logging.Error().Err(err).Msg("marshal response failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("write response failed")
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	w.Header().Set("Content-Type", "application/json")

	body, merr := json.Marshal(&Response{Success: false, Error: err.Error()})
	if merr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, werr := w.Write(body); werr != nil {
		logging.Error().Err(werr).Msg("write error response failed")
	}
}

// statusForError maps the pipeline error taxonomy to HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrMalformedFeedback):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSessionNotReady):
		return http.StatusConflict
	case errors.Is(err, models.ErrQueueExhausted):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
