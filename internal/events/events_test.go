// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/YldzBerkay/film-track-be-sub001/internal/mood"
)

type recordingRecomputer struct {
	mu      sync.Mutex
	users   []string
	trigger string
	done    chan struct{}
}

func (r *recordingRecomputer) Recompute(_ context.Context, userID, trigger string) (mood.Vector, error) {
	r.mu.Lock()
	r.users = append(r.users, userID)
	r.trigger = trigger
	r.mu.Unlock()
	select {
	case r.done <- struct{}{}:
	default:
	}
	return mood.Neutral(), nil
}

type recordingInvalidator struct {
	mu    sync.Mutex
	users []string
}

func (r *recordingInvalidator) InvalidateUser(userID string) {
	r.mu.Lock()
	r.users = append(r.users, userID)
	r.mu.Unlock()
}

func TestRatingRecordedRoundTrip(t *testing.T) {
	rating := 8
	event := &RatingRecorded{
		UserID:     "u1",
		MediaID:    "m1",
		MediaKind:  "movie",
		Rating:     &rating,
		OccurredAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	msg, err := event.NewMessage()
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if msg.UUID == "" {
		t.Error("message must carry a UUID")
	}

	decoded, err := DecodeRatingRecorded(msg)
	if err != nil {
		t.Fatalf("DecodeRatingRecorded: %v", err)
	}
	if decoded.UserID != "u1" || decoded.MediaID != "m1" {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
	if decoded.Rating == nil || *decoded.Rating != 8 {
		t.Errorf("rating lost in transit: %+v", decoded.Rating)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	msg := message.NewMessage("id", []byte("{not json"))
	if _, err := DecodeRatingRecorded(msg); err == nil {
		t.Error("garbage payload must fail to decode")
	}
}

func TestWorkerRecomputesAndInvalidates(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	defer func() { _ = bus.Close() }()

	recomputer := &recordingRecomputer{done: make(chan struct{}, 1)}
	invalidator := &recordingInvalidator{}
	worker := NewRecomputeWorker(bus, recomputer, invalidator, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveErr := make(chan error, 1)
	go func() { serveErr <- worker.Serve(ctx) }()

	// Give the subscription a moment to register before publishing.
	time.Sleep(50 * time.Millisecond)

	rating := 9
	if err := bus.PublishRatingRecorded(&RatingRecorded{
		UserID: "u1", MediaID: "m1", MediaKind: "movie", Rating: &rating,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("PublishRatingRecorded: %v", err)
	}

	select {
	case <-recomputer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never processed the event")
	}

	recomputer.mu.Lock()
	if len(recomputer.users) != 1 || recomputer.users[0] != "u1" {
		t.Errorf("expected recompute for u1, got %v", recomputer.users)
	}
	if recomputer.trigger != mood.TriggerRatingRecorded {
		t.Errorf("expected trigger %q, got %q", mood.TriggerRatingRecorded, recomputer.trigger)
	}
	recomputer.mu.Unlock()

	// Invalidation follows the recompute.
	deadline := time.After(time.Second)
	for {
		invalidator.mu.Lock()
		n := len(invalidator.users)
		invalidator.mu.Unlock()
		if n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("recommendation cache never invalidated")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-serveErr:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}
