// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/YldzBerkay/film-track-be-sub001/internal/metrics"
	"github.com/YldzBerkay/film-track-be-sub001/internal/mood"
)

// GetActiveShiftRules returns all active shift rules ordered by priority
// descending, creation order breaking ties.
func (db *DB) GetActiveShiftRules(ctx context.Context) ([]mood.ShiftRule, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, sequence, priority, conditions, target_effects, is_active
		FROM shift_rules
		WHERE is_active
		ORDER BY priority DESC, sequence ASC`,
	)
	metrics.RecordDBQuery("get_active_shift_rules", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query shift rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []mood.ShiftRule
	for rows.Next() {
		var (
			rule          mood.ShiftRule
			conditions    string
			targetEffects string
		)
		if err := rows.Scan(&rule.Name, &rule.Sequence, &rule.Priority, &conditions, &targetEffects, &rule.IsActive); err != nil {
			return nil, fmt.Errorf("scan shift rule: %w", err)
		}
		if err := json.Unmarshal([]byte(conditions), &rule.Conditions); err != nil {
			return nil, fmt.Errorf("decode conditions for rule %s: %w", rule.Name, err)
		}
		if err := json.Unmarshal([]byte(targetEffects), &rule.TargetEffects); err != nil {
			return nil, fmt.Errorf("decode target effects for rule %s: %w", rule.Name, err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// CreateShiftRule inserts a rule. The creation sequence is assigned by the
// database; the rule name must be unique.
func (db *DB) CreateShiftRule(ctx context.Context, rule *mood.ShiftRule) error {
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("encode conditions: %w", err)
	}
	targetEffects, err := json.Marshal(rule.TargetEffects)
	if err != nil {
		return fmt.Errorf("encode target effects: %w", err)
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO shift_rules (name, priority, conditions, target_effects, is_active)
		VALUES (?, ?, ?, ?, ?)`,
		rule.Name, rule.Priority, string(conditions), string(targetEffects), rule.IsActive,
	)
	metrics.RecordDBQuery("create_shift_rule", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("insert shift rule %s: %w", rule.Name, err)
	}
	return nil
}

// SetShiftRuleActive toggles a rule without deleting it.
func (db *DB) SetShiftRuleActive(ctx context.Context, name string, active bool) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`UPDATE shift_rules SET is_active = ? WHERE name = ?`,
		active, name,
	)
	metrics.RecordDBQuery("set_shift_rule_active", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("toggle shift rule %s: %w", name, err)
	}
	return nil
}

// SeedDefaultShiftRules inserts the built-in rule set on first start.
// Existing rules are left untouched.
func (db *DB) SeedDefaultShiftRules(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM shift_rules`).Scan(&count); err != nil {
		return fmt.Errorf("count shift rules: %w", err)
	}
	if count > 0 {
		return nil
	}

	atLeast := func(v int) mood.DimensionRange { return mood.DimensionRange{Min: &v} }
	atMost := func(v int) mood.DimensionRange { return mood.DimensionRange{Max: &v} }

	defaults := []mood.ShiftRule{
		{
			Name:     "gloom_to_light",
			Priority: 10,
			Conditions: map[string]mood.DimensionRange{
				"melancholy": atLeast(70),
				"joy":        atMost(35),
			},
			TargetEffects: map[string]int{"joy": 85, "inspiration": 75, "melancholy": 20},
			IsActive:      true,
		},
		{
			Name:     "wired_to_calm",
			Priority: 8,
			Conditions: map[string]mood.DimensionRange{
				"adrenaline": atLeast(75),
				"tension":    atLeast(65),
			},
			TargetEffects: map[string]int{"adrenaline": 20, "tension": 15, "wonder": 70},
			IsActive:      true,
		},
		{
			Name:     "dark_spiral_break",
			Priority: 8,
			Conditions: map[string]mood.DimensionRange{
				"darkness": atLeast(75),
			},
			TargetEffects: map[string]int{"darkness": 15, "joy": 70, "romance": 60},
			IsActive:      true,
		},
		{
			Name:     "comfort_rut",
			Priority: 5,
			Conditions: map[string]mood.DimensionRange{
				"nostalgia":  atLeast(70),
				"adrenaline": atMost(30),
			},
			TargetEffects: map[string]int{"adrenaline": 70, "wonder": 75, "nostalgia": 30},
			IsActive:      true,
		},
		{
			Name:     "flatline_spark",
			Priority: 1,
			Conditions: map[string]mood.DimensionRange{
				"adrenaline": atMost(60),
				"melancholy": atMost(60),
				"joy":        atMost(60),
				"tension":    atMost(60),
			},
			TargetEffects: map[string]int{"wonder": 80, "intellect": 70},
			IsActive:      true,
		},
	}

	for i := range defaults {
		if err := db.CreateShiftRule(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}
