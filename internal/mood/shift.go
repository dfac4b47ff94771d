// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package mood

import (
	"context"
	"fmt"
	"sort"

	"github.com/YldzBerkay/film-track-be-sub001/internal/metrics"
)

// ResolveShiftTarget evaluates the active shift rules against the current
// mood and returns the target vector for "shift" mode recommendations.
//
// Rules are scanned in descending priority (creation order breaks ties);
// the first rule whose conditions all pass wins, and its target effects
// are overlaid onto the neutral baseline. When no rule matches the
// neutral baseline is returned unchanged — deliberately steering an
// unclassified mood toward the middle of the space.
//
// The returned rule is nil when no rule matched.
func (e *Engine) ResolveShiftTarget(ctx context.Context, current Vector) (Vector, *ShiftRule, error) {
	rules, err := e.deps.Rules.GetActiveShiftRules(ctx)
	if err != nil {
		return Neutral(), nil, fmt.Errorf("get shift rules: %w", err)
	}

	SortShiftRules(rules)

	for i := range rules {
		rule := &rules[i]
		if !rule.IsActive {
			continue
		}
		if !rule.Matches(current) {
			continue
		}

		metrics.ShiftRuleMatchesTotal.WithLabelValues(rule.Name).Inc()
		e.logger.Debug().
			Str("rule", rule.Name).
			Int("priority", rule.Priority).
			Msg("shift rule matched")

		return rule.ApplyTargetEffects(), rule, nil
	}

	return Neutral(), nil, nil
}

// Matches reports whether the vector satisfies every condition of the
// rule. Dimensions combine with AND; a condition naming an unknown
// dimension can never pass.
func (r *ShiftRule) Matches(v Vector) bool {
	for dim, bounds := range r.Conditions {
		value, ok := v.Get(dim)
		if !ok {
			return false
		}
		if bounds.Min != nil && value < *bounds.Min {
			return false
		}
		if bounds.Max != nil && value > *bounds.Max {
			return false
		}
	}
	return true
}

// ApplyTargetEffects overlays the rule's target values onto the neutral
// baseline: named dimensions take the target value (clamped into range),
// everything else stays at the midpoint.
func (r *ShiftRule) ApplyTargetEffects() Vector {
	target := Neutral()
	for dim, value := range r.TargetEffects {
		target, _ = target.Set(dim, clampDimension(float64(value)))
	}
	return target
}

// SortShiftRules orders rules for evaluation: priority descending, then
// creation sequence ascending. The ordering is deterministic regardless
// of insertion order.
func SortShiftRules(rules []ShiftRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Priority != rules[j].Priority {
			return rules[i].Priority > rules[j].Priority
		}
		return rules[i].Sequence < rules[j].Sequence
	})
}
