// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package learn

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/models"
)

// Key prefixes for BadgerDB storage.
const (
	weightsKeyPrefix  = "weights:"
	feedbackKeyPrefix = "feedback:"
)

// ErrWeightsNotFound is returned when a session has no persisted
// weights.
var ErrWeightsNotFound = errors.New("no persisted weights for session")

// Store persists learned weights and the append-only feedback log so
// a session's learning survives restarts.
type Store interface {
	SaveWeights(sessionID string, w models.WeightVector) error
	LoadWeights(sessionID string) (models.WeightVector, error)
	AppendFeedback(ev models.FeedbackEvent) error
	Feedback(sessionID string) ([]models.FeedbackEvent, error)
	Close() error
}

// BadgerStore implements Store on BadgerDB. An empty path runs
// in-memory, which is what tests and the default config use.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// NewBadgerStore opens the store at path, or in-memory when path is
// empty.
func NewBadgerStore(path string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerStore{
		db:     db,
		logger: logger.With().Str("component", "learn-store").Logger(),
	}, nil
}

// SaveWeights upserts the session's weight vector.
func (s *BadgerStore) SaveWeights(sessionID string, w models.WeightVector) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(weightsKeyPrefix+sessionID), data)
	})
}

// LoadWeights fetches the session's persisted weight vector.
func (s *BadgerStore) LoadWeights(sessionID string) (models.WeightVector, error) {
	var w models.WeightVector
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(weightsKeyPrefix + sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrWeightsNotFound
		}
		if err != nil {
			return fmt.Errorf("get weights: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &w)
		})
	})
	return w, err
}

// AppendFeedback appends one event to the session's feedback log.
// The key embeds the event timestamp so iteration order is arrival
// order.
func (s *BadgerStore) AppendFeedback(ev models.FeedbackEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	key := fmt.Sprintf("%s%s:%020d:%s", feedbackKeyPrefix, ev.SessionID, ts.UnixNano(), ev.ListingID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// Feedback returns the session's feedback log in arrival order.
func (s *BadgerStore) Feedback(sessionID string) ([]models.FeedbackEvent, error) {
	var events []models.FeedbackEvent
	prefix := []byte(feedbackKeyPrefix + sessionID + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var ev models.FeedbackEvent
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ev)
			}); err != nil {
				return fmt.Errorf("read feedback entry: %w", err)
			}
			events = append(events, ev)
		}
		return nil
	})
	return events, err
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// NopStore discards everything. Used when persistence is disabled.
type NopStore struct{}

func (NopStore) SaveWeights(string, models.WeightVector) error { return nil }
func (NopStore) LoadWeights(string) (models.WeightVector, error) {
	return models.WeightVector{}, ErrWeightsNotFound
}
func (NopStore) AppendFeedback(models.FeedbackEvent) error       { return nil }
func (NopStore) Feedback(string) ([]models.FeedbackEvent, error) { return nil, nil }
func (NopStore) Close() error                                    { return nil }
