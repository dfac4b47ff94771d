// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/YldzBerkay/film-track-be-sub001/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub001/internal/mood"
)

// Activity is one row of the append-only activity log.
type Activity struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	MediaID    string    `json:"media_id"`
	MediaKind  string    `json:"media_kind"`
	Title      string    `json:"title,omitempty"`
	Rating     *int      `json:"rating,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WatchlistItem is one row of the default watch list.
type WatchlistItem struct {
	UserID    string    `json:"user_id"`
	MediaID   string    `json:"media_id"`
	MediaKind string    `json:"media_kind"`
	Title     string    `json:"title,omitempty"`
	Rating    *int      `json:"rating,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// GetMergedInteractions returns the user's rating history merged across the
// activity log and the watch list, deduplicated per media ID (the most
// recent row wins), most recent first.
func (db *DB) GetMergedInteractions(ctx context.Context, userID string) ([]mood.Interaction, error) {
	start := time.Now()

	query := `
		WITH merged AS (
			SELECT media_id, media_kind, title, rating, occurred_at
			FROM activities
			WHERE user_id = ?
			UNION ALL
			SELECT media_id, media_kind, title, rating, added_at AS occurred_at
			FROM watchlist_items
			WHERE user_id = ?
		),
		deduped AS (
			SELECT media_id, media_kind, title, rating, occurred_at,
				row_number() OVER (PARTITION BY media_id ORDER BY occurred_at DESC) AS rn
			FROM merged
		)
		SELECT media_id, media_kind, title, rating, occurred_at
		FROM deduped
		WHERE rn = 1
		ORDER BY occurred_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, userID, userID)
	metrics.RecordDBQuery("get_merged_interactions", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query merged interactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var interactions []mood.Interaction
	for rows.Next() {
		var (
			it     mood.Interaction
			title  sql.NullString
			rating sql.NullInt32
		)
		if err := rows.Scan(&it.MediaID, &it.MediaKind, &title, &rating, &it.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		it.Title = title.String
		if rating.Valid {
			r := int(rating.Int32)
			it.Rating = &r
		}
		interactions = append(interactions, it)
	}
	return interactions, rows.Err()
}

// RecordActivity appends one activity row. The ID is generated when unset.
func (db *DB) RecordActivity(ctx context.Context, activity *Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	if activity.OccurredAt.IsZero() {
		activity.OccurredAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO activities (id, user_id, media_id, media_kind, title, rating, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		activity.ID, activity.UserID, activity.MediaID, activity.MediaKind,
		activity.Title, activity.Rating, activity.OccurredAt,
	)
	metrics.RecordDBQuery("record_activity", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// UpsertWatchlistItem adds or replaces a watch list entry.
func (db *DB) UpsertWatchlistItem(ctx context.Context, item *WatchlistItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now().UTC()
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO watchlist_items (user_id, media_id, media_kind, title, rating, added_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, media_id) DO UPDATE SET
			media_kind = EXCLUDED.media_kind,
			title = EXCLUDED.title,
			rating = EXCLUDED.rating,
			added_at = EXCLUDED.added_at`,
		item.UserID, item.MediaID, item.MediaKind, item.Title, item.Rating, item.AddedAt,
	)
	metrics.RecordDBQuery("upsert_watchlist_item", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert watchlist item: %w", err)
	}
	return nil
}

// RemoveWatchlistItem deletes a watch list entry. Absent entries are a no-op.
func (db *DB) RemoveWatchlistItem(ctx context.Context, userID, mediaID string) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM watchlist_items WHERE user_id = ? AND media_id = ?`,
		userID, mediaID,
	)
	metrics.RecordDBQuery("remove_watchlist_item", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("remove watchlist item: %w", err)
	}
	return nil
}

// ListWatchlist returns the user's watch list, most recently added first.
func (db *DB) ListWatchlist(ctx context.Context, userID string) ([]WatchlistItem, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, media_id, media_kind, title, rating, added_at
		FROM watchlist_items
		WHERE user_id = ?
		ORDER BY added_at DESC`,
		userID,
	)
	metrics.RecordDBQuery("list_watchlist", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []WatchlistItem
	for rows.Next() {
		var (
			item   WatchlistItem
			title  sql.NullString
			rating sql.NullInt32
		)
		if err := rows.Scan(&item.UserID, &item.MediaID, &item.MediaKind, &title, &rating, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist item: %w", err)
		}
		item.Title = title.String
		if rating.Valid {
			r := int(rating.Int32)
			item.Rating = &r
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
