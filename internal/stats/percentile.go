// Package stats provides population-relative percentile utilities.
//
// All thresholds are derived from the concrete population passed in, never
// from fixed global cutoffs: the same raw score can clear the bar in one
// analysis and miss it in the next.
package stats

import (
	"math"
	"sort"
)

// TopCount returns how many members of a population of size n fall inside
// the top frac share (at least 1 for a non-empty population).
func TopCount(n int, frac float64) int {
	if n <= 0 || frac <= 0 {
		return 0
	}
	k := int(math.Ceil(frac * float64(n)))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// TopThreshold returns the inclusive cutoff for the top frac share of
// values. Membership test: v >= cutoff. Returns false for an empty
// population.
func TopThreshold(values []float64, frac float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	k := TopCount(len(sorted), frac)
	return sorted[k-1], true
}

// BottomThreshold returns the inclusive cutoff for the bottom frac share
// of values. Membership test: v <= cutoff. Returns false for an empty
// population.
func BottomThreshold(values []float64, frac float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	k := TopCount(len(sorted), frac)
	return sorted[k-1], true
}

// InTop reports whether v sits in the top frac share of values
func InTop(values []float64, frac, v float64) bool {
	cutoff, ok := TopThreshold(values, frac)
	return ok && v >= cutoff
}

// InBottom reports whether v sits in the bottom frac share of values
func InBottom(values []float64, frac, v float64) bool {
	cutoff, ok := BottomThreshold(values, frac)
	return ok && v <= cutoff
}

// CountAtLeast returns how many values meet or exceed the cutoff
func CountAtLeast(values []float64, cutoff float64) int {
	count := 0
	for _, v := range values {
		if v >= cutoff {
			count++
		}
	}
	return count
}

// Mean returns the arithmetic mean, or 0 for an empty population
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
