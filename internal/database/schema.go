// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

/*
schema.go - Database Schema Management

Tables:
  - activities: append-only log of rated media encounters
  - watchlist_items: the default watch list, one row per (user, media)
  - catalog_vectors: precomputed per-item mood vectors, one column per dimension
  - user_mood_states: current mood vector and vibe override per user
  - mood_snapshots: one mood row per user per service-local day
  - shift_rules: priority-ordered rules steering "shift" mode recommendations
  - blacklist_items: media a user never wants recommended
  - watched_records: media a user has already watched

All columns are defined in the initial CREATE TABLE statements; versioned
migrations in migrations.go take over once real databases exist.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// moodDimensionColumns are the vector columns shared by catalog_vectors,
// user_mood_states, and mood_snapshots, in canonical dimension order.
const moodDimensionColumns = `
	adrenaline INTEGER NOT NULL,
	melancholy INTEGER NOT NULL,
	joy INTEGER NOT NULL,
	tension INTEGER NOT NULL,
	intellect INTEGER NOT NULL,
	romance INTEGER NOT NULL,
	wonder INTEGER NOT NULL,
	nostalgia INTEGER NOT NULL,
	darkness INTEGER NOT NULL,
	inspiration INTEGER NOT NULL`

// dimensionColumnList is the comma-separated column list for SELECTs and
// INSERTs over the ten dimension columns.
const dimensionColumnList = `adrenaline, melancholy, joy, tension, intellect, romance, wonder, nostalgia, darkness, inspiration`

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables and indexes.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range db.getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements.
func (db *DB) getTableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS activities (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			media_id TEXT NOT NULL,
			media_kind TEXT NOT NULL,
			title TEXT,
			rating INTEGER,
			occurred_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS watchlist_items (
			user_id TEXT NOT NULL,
			media_id TEXT NOT NULL,
			media_kind TEXT NOT NULL,
			title TEXT,
			rating INTEGER,
			added_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, media_id)
		)`,

		`CREATE TABLE IF NOT EXISTS catalog_vectors (
			media_id TEXT PRIMARY KEY,
			media_kind TEXT NOT NULL,
			title TEXT,` + moodDimensionColumns + `,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS user_mood_states (
			user_id TEXT PRIMARY KEY,` + moodDimensionColumns + `,
			last_updated TIMESTAMP NOT NULL,
			vibe_template TEXT,
			vibe_strength DOUBLE,
			vibe_expires_at TIMESTAMP,
			vibe_vector TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS mood_snapshots (
			user_id TEXT NOT NULL,
			day TEXT NOT NULL,` + moodDimensionColumns + `,
			trigger_label TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, day)
		)`,

		`CREATE SEQUENCE IF NOT EXISTS shift_rules_seq START 1`,

		`CREATE TABLE IF NOT EXISTS shift_rules (
			name TEXT PRIMARY KEY,
			sequence BIGINT NOT NULL DEFAULT nextval('shift_rules_seq'),
			priority INTEGER NOT NULL,
			conditions TEXT NOT NULL,
			target_effects TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS blacklist_items (
			user_id TEXT NOT NULL,
			media_id TEXT NOT NULL,
			added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, media_id)
		)`,

		`CREATE TABLE IF NOT EXISTS watched_records (
			user_id TEXT NOT NULL,
			media_id TEXT NOT NULL,
			watched_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, media_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_user_occurred
			ON activities (user_id, occurred_at DESC)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_user_media
			ON activities (user_id, media_id)`,

		`CREATE INDEX IF NOT EXISTS idx_watchlist_user
			ON watchlist_items (user_id)`,

		`CREATE INDEX IF NOT EXISTS idx_shift_rules_active
			ON shift_rules (is_active, priority)`,
	}
}
