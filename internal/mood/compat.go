// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

package mood

import (
	"context"
	"fmt"
	"math"
)

// StrengthThreshold is the dimension value at or above which a dimension
// counts as a "strength" for compatibility purposes.
const StrengthThreshold = 65

// Compare computes the taste match between two mood vectors. Pure and
// symmetric: swapping the inputs swaps only the unique-strength sides.
func Compare(a, b Vector) CompatibilityResult {
	result := CompatibilityResult{
		Similarity:       int(math.Round(CosineSimilarity(a, b) * 100)),
		Differences:      make(map[string]int, NumDimensions),
		SharedStrengths:  []string{},
		UniqueStrengthsA: []string{},
		UniqueStrengthsB: []string{},
	}

	valuesA := a.Values()
	valuesB := b.Values()
	for i, dim := range DimensionNames {
		diff := valuesA[i] - valuesB[i]
		if diff < 0 {
			diff = -diff
		}
		result.Differences[dim] = diff

		strongA := valuesA[i] >= StrengthThreshold
		strongB := valuesB[i] >= StrengthThreshold
		switch {
		case strongA && strongB:
			result.SharedStrengths = append(result.SharedStrengths, dim)
		case strongA:
			result.UniqueStrengthsA = append(result.UniqueStrengthsA, dim)
		case strongB:
			result.UniqueStrengthsB = append(result.UniqueStrengthsB, dim)
		}
	}

	return result
}

// GetCompatibility compares two users' stored mood vectors. Neither side
// triggers a recomputation; users without a stored state compare as the
// neutral default vector. Nothing is persisted.
func (e *Engine) GetCompatibility(ctx context.Context, userA, userB string) (CompatibilityResult, error) {
	vectorA, err := e.storedMood(ctx, userA)
	if err != nil {
		return CompatibilityResult{}, err
	}
	vectorB, err := e.storedMood(ctx, userB)
	if err != nil {
		return CompatibilityResult{}, err
	}

	return Compare(vectorA, vectorB), nil
}

// storedMood reads a user's persisted mood without recomputing.
func (e *Engine) storedMood(ctx context.Context, userID string) (Vector, error) {
	state, err := e.deps.State.GetUserMoodState(ctx, userID)
	if err != nil {
		return Neutral(), fmt.Errorf("get mood state for %s: %w", userID, err)
	}
	if state == nil {
		return Neutral(), nil
	}
	return state.CurrentMood, nil
}
