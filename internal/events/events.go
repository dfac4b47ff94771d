// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

// Package events carries the in-process event bus. Rating writes publish a
// rating.recorded event; a background worker consumes it and recomputes the
// user's mood outside the request path.
package events

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// TopicRatingRecorded is published after a rating lands in the store.
const TopicRatingRecorded = "rating.recorded"

// RatingRecorded is the payload for TopicRatingRecorded.
type RatingRecorded struct {
	UserID     string    `json:"user_id"`
	MediaID    string    `json:"media_id"`
	MediaKind  string    `json:"media_kind"`
	Rating     *int      `json:"rating,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewMessage encodes the event as a watermill message.
func (e *RatingRecorded) NewMessage() (*message.Message, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal rating event: %w", err)
	}
	return message.NewMessage(uuid.New().String(), payload), nil
}

// DecodeRatingRecorded decodes a message payload.
func DecodeRatingRecorded(msg *message.Message) (*RatingRecorded, error) {
	var event RatingRecorded
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return nil, fmt.Errorf("unmarshal rating event: %w", err)
	}
	return &event, nil
}
