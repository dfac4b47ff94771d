// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/YldzBerkay/film-track-be-sub001/internal/metrics"
)

// Bus is the in-process pub/sub used to detach mood recomputation from the
// rating write path. Everything runs inside one process; a crash between
// the write and the recompute loses at most one recomputation, which the
// next on-demand read repairs.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger zerolog.Logger
}

// NewBus creates the in-process bus.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBus(logger zerolog.Logger) *Bus {
	busLogger := logger.With().Str("component", "events").Logger()
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, &watermillLogger{logger: busLogger})

	return &Bus{pubsub: pubsub, logger: busLogger}
}

// PublishRatingRecorded publishes a rating event. Failures are returned so
// the caller can log them; the rating itself is already persisted.
func (b *Bus) PublishRatingRecorded(event *RatingRecorded) error {
	msg, err := event.NewMessage()
	if err != nil {
		return err
	}
	if err := b.pubsub.Publish(TopicRatingRecorded, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicRatingRecorded, err)
	}
	metrics.EventsPublishedTotal.WithLabelValues(TopicRatingRecorded).Inc()
	return nil
}

// Subscribe returns the message channel for a topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts the bus down; pending deliveries are dropped.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// watermillLogger adapts zerolog to watermill's LoggerAdapter.
type watermillLogger struct {
	logger zerolog.Logger
}

func (l *watermillLogger) Error(msg string, err error, fields watermill.LogFields) {
	l.event(l.logger.Error().Err(err), msg, fields)
}

func (l *watermillLogger) Info(msg string, fields watermill.LogFields) {
	l.event(l.logger.Info(), msg, fields)
}

func (l *watermillLogger) Debug(msg string, fields watermill.LogFields) {
	l.event(l.logger.Debug(), msg, fields)
}

func (l *watermillLogger) Trace(msg string, fields watermill.LogFields) {
	l.event(l.logger.Trace(), msg, fields)
}

func (l *watermillLogger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	ctx := l.logger.With()
	for key, value := range fields {
		ctx = ctx.Interface(key, value)
	}
	return &watermillLogger{logger: ctx.Logger()}
}

func (l *watermillLogger) event(event *zerolog.Event, msg string, fields watermill.LogFields) {
	for key, value := range fields {
		event = event.Interface(key, value)
	}
	event.Msg(msg)
}
