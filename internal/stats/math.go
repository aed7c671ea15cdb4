package stats

import (
	"math"
	"slices"
)

// sortedFinite returns an ascending copy of the finite values; the input is never mutated.
func sortedFinite(values []float64) []float64 {
	temp := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			temp = append(temp, v)
		}
	}
	slices.Sort(temp)
	return temp
}

// NearestRank returns sorted[floor(q*n)], clamped to the last element. sorted must be
// ascending and non-empty.
func NearestRank(sorted []float64, q float64) float64 {
	idx := int(math.Floor(q * float64(len(sorted))))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// Quantile computes the nearest-rank quantile over the finite values.
// ok is false when no finite value is present.
func Quantile(values []float64, q float64) (v float64, ok bool) {
	sorted := sortedFinite(values)
	if len(sorted) == 0 {
		return 0, false
	}
	return NearestRank(sorted, q), true
}

// Mean of the finite values; ok is false when none are present.
func Mean(values []float64) (float64, bool) {
	sum, n := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
