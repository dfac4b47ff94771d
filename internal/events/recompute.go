// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/YldzBerkay/film-track-be-sub001/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub001/internal/mood"
)

// Recomputer recomputes one user's mood vector.
type Recomputer interface {
	Recompute(ctx context.Context, userID, trigger string) (mood.Vector, error)
}

// Invalidator drops cached recommendation lists for a user.
type Invalidator interface {
	InvalidateUser(userID string)
}

// RecomputeWorker consumes rating.recorded events and refreshes the user's
// mood state and recommendation cache. It implements suture.Service.
//
// Processing failures are logged and the message acked anyway: the event is
// a hint, not the source of truth, and the next on-demand mood read
// recomputes from the store regardless.
type RecomputeWorker struct {
	bus         *Bus
	moods       Recomputer
	invalidator Invalidator
	logger      zerolog.Logger
}

// NewRecomputeWorker creates the worker. The invalidator may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecomputeWorker(bus *Bus, moods Recomputer, invalidator Invalidator, logger zerolog.Logger) *RecomputeWorker {
	return &RecomputeWorker{
		bus:         bus,
		moods:       moods,
		invalidator: invalidator,
		logger:      logger.With().Str("component", "recompute-worker").Logger(),
	}
}

// Serve consumes events until the context is canceled.
func (w *RecomputeWorker) Serve(ctx context.Context) error {
	messages, err := w.bus.Subscribe(ctx, TopicRatingRecorded)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicRatingRecorded, err)
	}

	w.logger.Info().Str("topic", TopicRatingRecorded).Msg("recompute worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("subscription channel closed")
			}
			w.handle(ctx, msg)
		}
	}
}

func (w *RecomputeWorker) String() string { return "recompute-worker" }

// handle processes one event and always acks.
func (w *RecomputeWorker) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	event, err := DecodeRatingRecorded(msg)
	if err != nil {
		metrics.EventsProcessedTotal.WithLabelValues(TopicRatingRecorded, "error").Inc()
		w.logger.Error().Err(err).Str("message_id", msg.UUID).Msg("undecodable rating event dropped")
		return
	}

	if _, err := w.moods.Recompute(ctx, event.UserID, mood.TriggerRatingRecorded); err != nil {
		metrics.EventsProcessedTotal.WithLabelValues(TopicRatingRecorded, "error").Inc()
		w.logger.Error().Err(err).
			Str("user_id", event.UserID).
			Str("media_id", event.MediaID).
			Msg("background mood recompute failed")
		return
	}

	if w.invalidator != nil {
		w.invalidator.InvalidateUser(event.UserID)
	}

	metrics.EventsProcessedTotal.WithLabelValues(TopicRatingRecorded, "ok").Inc()
	w.logger.Debug().
		Str("user_id", event.UserID).
		Str("media_id", event.MediaID).
		Msg("mood recomputed from rating event")
}
