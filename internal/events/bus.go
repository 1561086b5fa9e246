// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package events carries feedback events from the API boundary to the
// per-session learning engines over an in-process Watermill pub/sub.
// Decoupling the boundary from the learner keeps feedback handling
// asynchronous and gives every consumer (learner, persistence,
// metrics) the same stream.
package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/nestscout/nestscout/internal/models"
)

// TopicFeedback is the feedback event stream.
const TopicFeedback = "feedback.events"

// Bus is the in-process event bus.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger
}

// NewBus builds a Bus with a buffered in-process channel per
// subscriber.
func NewBus(logger zerolog.Logger) *Bus {
	log := logger.With().Str("component", "events").Logger()
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, newLoggerAdapter(log)),
		logger: log,
	}
}

// PublishFeedback emits one feedback event.
func (b *Bus) PublishFeedback(ev models.FeedbackEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal feedback event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("session_id", ev.SessionID)

	if err := b.pubsub.Publish(TopicFeedback, msg); err != nil {
		return fmt.Errorf("publish feedback event: %w", err)
	}
	return nil
}

// SubscribeFeedback returns a decoded feedback stream. Messages that
// fail to decode are acknowledged and dropped with a log line; they
// cannot become poison.
func (b *Bus) SubscribeFeedback(ctx context.Context) (<-chan models.FeedbackEvent, error) {
	msgs, err := b.pubsub.Subscribe(ctx, TopicFeedback)
	if err != nil {
		return nil, fmt.Errorf("subscribe feedback: %w", err)
	}

	out := make(chan models.FeedbackEvent, 64)
	go func() {
		defer close(out)
		for msg := range msgs {
			var ev models.FeedbackEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				b.logger.Error().Err(err).
					Str("message_id", msg.UUID).
					Msg("dropping undecodable feedback event")
				msg.Ack()
				continue
			}
			select {
			case out <- ev:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}()
	return out, nil
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
