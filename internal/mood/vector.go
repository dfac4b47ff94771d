// Film Track - Mood-Vector Media Recommendation Service
// Copyright 2026 Berkay Yildiz (YldzBerkay)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/YldzBerkay/film-track-be-sub001

// Package mood models user taste as a point in a fixed ten-dimensional
// mood space and implements the engines that compute, override, shift,
// and compare mood vectors.
package mood

import "math"

// NumDimensions is the size of the mood space.
const NumDimensions = 10

// Dimension bounds and midpoint. Every dimension is an integer in
// [DimensionMin, DimensionMax]; DimensionNeutral is the no-signal value.
const (
	DimensionMin     = 0
	DimensionMax     = 100
	DimensionNeutral = 50
)

// DimensionNames lists the mood dimensions in canonical order. The order
// is load-bearing: float conversions, per-dimension results, and stored
// columns all follow it.
var DimensionNames = [NumDimensions]string{
	"adrenaline",
	"melancholy",
	"joy",
	"tension",
	"intellect",
	"romance",
	"wonder",
	"nostalgia",
	"darkness",
	"inspiration",
}

// Vector is a ten-dimensional taste profile. Every dimension is always
// present; the zero value is a valid (all-zero) vector, but most callers
// want Neutral().
type Vector struct {
	Adrenaline  int `json:"adrenaline"`
	Melancholy  int `json:"melancholy"`
	Joy         int `json:"joy"`
	Tension     int `json:"tension"`
	Intellect   int `json:"intellect"`
	Romance     int `json:"romance"`
	Wonder      int `json:"wonder"`
	Nostalgia   int `json:"nostalgia"`
	Darkness    int `json:"darkness"`
	Inspiration int `json:"inspiration"`
}

// Neutral returns the default vector: every dimension at the midpoint.
func Neutral() Vector {
	return FromValues([NumDimensions]int{
		DimensionNeutral, DimensionNeutral, DimensionNeutral, DimensionNeutral,
		DimensionNeutral, DimensionNeutral, DimensionNeutral, DimensionNeutral,
		DimensionNeutral, DimensionNeutral,
	})
}

// Values returns the dimensions in canonical order.
func (v Vector) Values() [NumDimensions]int {
	return [NumDimensions]int{
		v.Adrenaline, v.Melancholy, v.Joy, v.Tension, v.Intellect,
		v.Romance, v.Wonder, v.Nostalgia, v.Darkness, v.Inspiration,
	}
}

// FromValues builds a Vector from dimensions in canonical order.
func FromValues(values [NumDimensions]int) Vector {
	return Vector{
		Adrenaline:  values[0],
		Melancholy:  values[1],
		Joy:         values[2],
		Tension:     values[3],
		Intellect:   values[4],
		Romance:     values[5],
		Wonder:      values[6],
		Nostalgia:   values[7],
		Darkness:    values[8],
		Inspiration: values[9],
	}
}

// Get returns the named dimension's value. The second return is false
// for unknown dimension names.
func (v Vector) Get(name string) (int, bool) {
	values := v.Values()
	for i, dim := range DimensionNames {
		if dim == name {
			return values[i], true
		}
	}
	return 0, false
}

// Set returns a copy of the vector with the named dimension set. Unknown
// names return the vector unchanged and false.
func (v Vector) Set(name string, value int) (Vector, bool) {
	values := v.Values()
	for i, dim := range DimensionNames {
		if dim == name {
			values[i] = value
			return FromValues(values), true
		}
	}
	return v, false
}

// Anti returns the opposite vector: DimensionMax minus each dimension.
// Disliking an item pulls the profile toward the item's anti-vector.
func (v Vector) Anti() Vector {
	values := v.Values()
	for i := range values {
		values[i] = DimensionMax - values[i]
	}
	return FromValues(values)
}

// IsZero reports whether every dimension is zero.
func (v Vector) IsZero() bool {
	for _, value := range v.Values() {
		if value != 0 {
			return false
		}
	}
	return true
}

// floats returns the dimensions as float64 in canonical order.
func (v Vector) floats() [NumDimensions]float64 {
	var out [NumDimensions]float64
	for i, value := range v.Values() {
		out[i] = float64(value)
	}
	return out
}

// CosineSimilarity computes the cosine similarity of two vectors over the
// full mood space. Defined as 0 when either vector is all zeros.
func CosineSimilarity(a, b Vector) float64 {
	return cosineFloats(a.floats(), b.floats())
}

// cosineFloats is the float-space cosine similarity used both for ranking
// and for the saturation window, with the same zero-vector guard.
func cosineFloats(a, b [NumDimensions]float64) float64 {
	var dot, normA, normB float64
	for i := 0; i < NumDimensions; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Blend mixes an overlay into a base vector. strength 0 returns the base,
// strength 1 returns the overlay; values are rounded per dimension.
func Blend(base, overlay Vector, strength float64) Vector {
	baseF := base.floats()
	overlayF := overlay.floats()

	var values [NumDimensions]int
	for i := 0; i < NumDimensions; i++ {
		values[i] = clampDimension(baseF[i]*(1-strength) + overlayF[i]*strength)
	}
	return FromValues(values)
}

// ContrastStretch amplifies deviation from the neutral midpoint by the
// given factor, clamping each dimension back into range.
func ContrastStretch(v Vector, factor float64) Vector {
	var values [NumDimensions]int
	for i, value := range v.Values() {
		deviation := float64(value - DimensionNeutral)
		values[i] = clampDimension(DimensionNeutral + deviation*factor)
	}
	return FromValues(values)
}

// clampDimension rounds and clamps a float into the dimension range.
func clampDimension(x float64) int {
	rounded := int(math.Round(x))
	if rounded < DimensionMin {
		return DimensionMin
	}
	if rounded > DimensionMax {
		return DimensionMax
	}
	return rounded
}
