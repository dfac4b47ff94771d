// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/YldzBerkay/film-track-be-sub001/internal/metrics"
)

// AddToBlacklist hides a media item from the user's recommendations.
// Adding an already-blacklisted item is a no-op.
func (db *DB) AddToBlacklist(ctx context.Context, userID, mediaID string) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO blacklist_items (user_id, media_id)
		VALUES (?, ?)
		ON CONFLICT (user_id, media_id) DO NOTHING`,
		userID, mediaID,
	)
	metrics.RecordDBQuery("add_to_blacklist", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("add to blacklist: %w", err)
	}
	return nil
}

// RemoveFromBlacklist lifts the block. Absent entries are a no-op.
func (db *DB) RemoveFromBlacklist(ctx context.Context, userID, mediaID string) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM blacklist_items WHERE user_id = ? AND media_id = ?`,
		userID, mediaID,
	)
	metrics.RecordDBQuery("remove_from_blacklist", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("remove from blacklist: %w", err)
	}
	return nil
}

// MarkWatched records that the user has watched a media item. Re-watching
// updates the timestamp.
func (db *DB) MarkWatched(ctx context.Context, userID, mediaID string, watchedAt time.Time) error {
	if watchedAt.IsZero() {
		watchedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO watched_records (user_id, media_id, watched_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, media_id) DO UPDATE SET
			watched_at = EXCLUDED.watched_at`,
		userID, mediaID, watchedAt,
	)
	metrics.RecordDBQuery("mark_watched", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("mark watched: %w", err)
	}
	return nil
}
