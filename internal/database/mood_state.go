// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/YldzBerkay/film-track-be-sub001/internal/logging"
	"github.com/YldzBerkay/film-track-be-sub001/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub001/internal/mood"
)

// GetUserMoodState returns the stored mood state, or nil when the user has
// never had one computed.
func (db *DB) GetUserMoodState(ctx context.Context, userID string) (*mood.UserMoodState, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s, last_updated, vibe_template, vibe_strength, vibe_expires_at, vibe_vector
		FROM user_mood_states
		WHERE user_id = ?`, dimensionColumnList),
		userID,
	)

	var (
		values        [mood.NumDimensions]int
		lastUpdated   time.Time
		vibeTemplate  sql.NullString
		vibeStrength  sql.NullFloat64
		vibeExpiresAt sql.NullTime
		vibeVector    sql.NullString
	)
	dest := make([]any, 0, mood.NumDimensions+5)
	for i := range values {
		dest = append(dest, &values[i])
	}
	dest = append(dest, &lastUpdated, &vibeTemplate, &vibeStrength, &vibeExpiresAt, &vibeVector)

	err := row.Scan(dest...)
	metrics.RecordDBQuery("get_user_mood_state", time.Since(start), ignoreNoRows(err))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan mood state: %w", err)
	}

	state := &mood.UserMoodState{
		UserID:      userID,
		CurrentMood: mood.FromValues(values),
		LastUpdated: lastUpdated,
	}

	if vibeTemplate.Valid {
		override := &mood.VibeOverride{
			TemplateName: vibeTemplate.String,
			Strength:     vibeStrength.Float64,
			ExpiresAt:    vibeExpiresAt.Time,
		}
		if vibeVector.Valid && vibeVector.String != "" {
			if err := json.Unmarshal([]byte(vibeVector.String), &override.Vector); err != nil {
				logging.Warn().Err(err).Str("user_id", userID).Msg("corrupt vibe vector, dropping override")
				override = nil
			}
		}
		state.TemporaryVibe = override
	}

	return state, nil
}

// UpsertUserMoodState replaces the user's stored mood state wholesale.
func (db *DB) UpsertUserMoodState(ctx context.Context, state *mood.UserMoodState) error {
	var (
		vibeTemplate  any
		vibeStrength  any
		vibeExpiresAt any
		vibeVector    any
	)
	if vibe := state.TemporaryVibe; vibe != nil {
		payload, err := json.Marshal(vibe.Vector)
		if err != nil {
			return fmt.Errorf("marshal vibe vector: %w", err)
		}
		vibeTemplate = vibe.TemplateName
		vibeStrength = vibe.Strength
		vibeExpiresAt = vibe.ExpiresAt
		vibeVector = string(payload)
	}

	args := append(append([]any{state.UserID}, vectorArgs(state.CurrentMood)...),
		state.LastUpdated, vibeTemplate, vibeStrength, vibeExpiresAt, vibeVector)

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO user_mood_states (user_id, %s, last_updated, vibe_template, vibe_strength, vibe_expires_at, vibe_vector)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			adrenaline = EXCLUDED.adrenaline,
			melancholy = EXCLUDED.melancholy,
			joy = EXCLUDED.joy,
			tension = EXCLUDED.tension,
			intellect = EXCLUDED.intellect,
			romance = EXCLUDED.romance,
			wonder = EXCLUDED.wonder,
			nostalgia = EXCLUDED.nostalgia,
			darkness = EXCLUDED.darkness,
			inspiration = EXCLUDED.inspiration,
			last_updated = EXCLUDED.last_updated,
			vibe_template = EXCLUDED.vibe_template,
			vibe_strength = EXCLUDED.vibe_strength,
			vibe_expires_at = EXCLUDED.vibe_expires_at,
			vibe_vector = EXCLUDED.vibe_vector`, dimensionColumnList),
		args...,
	)
	metrics.RecordDBQuery("upsert_user_mood_state", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert mood state: %w", err)
	}
	return nil
}

// UpsertMoodSnapshot stores the daily snapshot, overwriting the same day.
func (db *DB) UpsertMoodSnapshot(ctx context.Context, snapshot *mood.Snapshot) error {
	args := append(append([]any{snapshot.UserID, snapshot.Day}, vectorArgs(snapshot.Mood)...),
		snapshot.TriggerLabel)

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO mood_snapshots (user_id, day, %s, trigger_label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, day) DO UPDATE SET
			adrenaline = EXCLUDED.adrenaline,
			melancholy = EXCLUDED.melancholy,
			joy = EXCLUDED.joy,
			tension = EXCLUDED.tension,
			intellect = EXCLUDED.intellect,
			romance = EXCLUDED.romance,
			wonder = EXCLUDED.wonder,
			nostalgia = EXCLUDED.nostalgia,
			darkness = EXCLUDED.darkness,
			inspiration = EXCLUDED.inspiration,
			trigger_label = EXCLUDED.trigger_label`, dimensionColumnList),
		args...,
	)
	metrics.RecordDBQuery("upsert_mood_snapshot", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert mood snapshot: %w", err)
	}
	return nil
}

// GetMoodSnapshots returns the user's daily snapshots, newest day first,
// capped at limit.
func (db *DB) GetMoodSnapshots(ctx context.Context, userID string, limit int) ([]mood.Snapshot, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT user_id, day, %s, trigger_label
		FROM mood_snapshots
		WHERE user_id = ?
		ORDER BY day DESC
		LIMIT ?`, dimensionColumnList),
		userID, limit,
	)
	metrics.RecordDBQuery("get_mood_snapshots", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query mood snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []mood.Snapshot
	for rows.Next() {
		var (
			snap    mood.Snapshot
			values  [mood.NumDimensions]int
			trigger sql.NullString
		)
		dest := make([]any, 0, mood.NumDimensions+3)
		dest = append(dest, &snap.UserID, &snap.Day)
		for i := range values {
			dest = append(dest, &values[i])
		}
		dest = append(dest, &trigger)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan mood snapshot: %w", err)
		}
		snap.Mood = mood.FromValues(values)
		snap.TriggerLabel = trigger.String
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// ignoreNoRows keeps absent rows out of the error metrics.
func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
