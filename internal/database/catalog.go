// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/YldzBerkay/film-track-be-sub001/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub001/internal/mood"
	"github.com/YldzBerkay/film-track-be-sub001/internal/recommend"
)

// CatalogItem is one catalog row with its precomputed mood vector.
type CatalogItem struct {
	MediaID   string      `json:"media_id"`
	MediaKind string      `json:"media_kind"`
	Title     string      `json:"title,omitempty"`
	Mood      mood.Vector `json:"mood"`
}

// scanVector reads the ten dimension columns in canonical order.
func scanVector(scan func(dest ...any) error, prefix []any) (mood.Vector, error) {
	var values [mood.NumDimensions]int
	dest := make([]any, 0, len(prefix)+mood.NumDimensions)
	dest = append(dest, prefix...)
	for i := range values {
		dest = append(dest, &values[i])
	}
	if err := scan(dest...); err != nil {
		return mood.Vector{}, err
	}
	return mood.FromValues(values), nil
}

// vectorArgs expands a vector into the ten dimension values in column order.
func vectorArgs(v mood.Vector) []any {
	values := v.Values()
	args := make([]any, 0, mood.NumDimensions)
	for _, value := range values {
		args = append(args, value)
	}
	return args
}

// GetCatalogVectors returns the precomputed vectors for a bulk set of
// media IDs. Items without a vector are absent from the result.
func (db *DB) GetCatalogVectors(ctx context.Context, mediaIDs []string) (map[string]mood.Vector, error) {
	if len(mediaIDs) == 0 {
		return map[string]mood.Vector{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(mediaIDs)), ",")
	args := make([]any, 0, len(mediaIDs))
	for _, id := range mediaIDs {
		args = append(args, id)
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT media_id, %s
		FROM catalog_vectors
		WHERE media_id IN (%s)`, dimensionColumnList, placeholders),
		args...,
	)
	metrics.RecordDBQuery("get_catalog_vectors", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query catalog vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	vectors := make(map[string]mood.Vector, len(mediaIDs))
	for rows.Next() {
		var mediaID string
		vector, err := scanVector(rows.Scan, []any{&mediaID})
		if err != nil {
			return nil, fmt.Errorf("scan catalog vector: %w", err)
		}
		vectors[mediaID] = vector
	}
	return vectors, rows.Err()
}

// UpsertCatalogVector stores or replaces one catalog item's mood vector.
func (db *DB) UpsertCatalogVector(ctx context.Context, item *CatalogItem) error {
	args := append([]any{item.MediaID, item.MediaKind, item.Title}, vectorArgs(item.Mood)...)

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO catalog_vectors (media_id, media_kind, title, %s, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, now())
		ON CONFLICT (media_id) DO UPDATE SET
			media_kind = EXCLUDED.media_kind,
			title = EXCLUDED.title,
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
			updated_at = now()`, dimensionColumnList),
		args...,
	)
	metrics.RecordDBQuery("upsert_catalog_vector", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert catalog vector: %w", err)
	}
	return nil
}

// GetCandidates returns rankable catalog items for a user. Blacklisted
// media never appear; watched media are excluded unless includeWatched.
func (db *DB) GetCandidates(ctx context.Context, userID string, includeWatched bool, limit int) ([]recommend.Candidate, error) {
	query := fmt.Sprintf(`
		SELECT cv.media_id, cv.media_kind, cv.title, %s
		FROM catalog_vectors cv
		WHERE NOT EXISTS (
			SELECT 1 FROM blacklist_items b
			WHERE b.user_id = ? AND b.media_id = cv.media_id
		)`, prefixedDimensionColumns("cv"))
	args := []any{userID}

	if !includeWatched {
		query += `
		AND NOT EXISTS (
			SELECT 1 FROM watched_records w
			WHERE w.user_id = ? AND w.media_id = cv.media_id
		)`
		args = append(args, userID)
	}

	query += `
		ORDER BY cv.media_id
		LIMIT ?`
	args = append(args, limit)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("get_candidates", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var candidates []recommend.Candidate
	for rows.Next() {
		var (
			c     recommend.Candidate
			title sql.NullString
		)
		vector, err := scanVector(rows.Scan, []any{&c.MediaID, &c.MediaKind, &title})
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.Title = title.String
		c.Mood = vector
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// prefixedDimensionColumns qualifies the dimension columns with an alias.
func prefixedDimensionColumns(alias string) string {
	parts := strings.Split(dimensionColumnList, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
