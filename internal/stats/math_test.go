package stats

import (
	"math"
	"testing"
)

func TestNearestRank(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	tests := []struct {
		name     string
		q        float64
		expected float64
	}{
		{"Zero", 0, 1},
		{"P10", 0.10, 2},
		{"P50", 0.50, 6},
		{"P85", 0.85, 9},
		{"P90", 0.90, 10},
		{"OneClampsToMax", 1.0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearestRank(sorted, tt.q); got != tt.expected {
				t.Errorf("NearestRank(%v) = %v, want %v", tt.q, got, tt.expected)
			}
		})
	}
}

func TestQuantile_FiltersNonFinite(t *testing.T) {
	values := []float64{math.NaN(), 4, math.Inf(1), 1, 3, 2, math.Inf(-1)}
	got, ok := Quantile(values, 0.5)
	if !ok {
		t.Fatal("expected a quantile over finite values")
	}
	if got != 3 {
		t.Errorf("Quantile() = %v, want 3", got)
	}
	if !math.IsNaN(values[0]) || values[1] != 4 {
		t.Error("Quantile must not reorder its input")
	}

	if _, ok := Quantile([]float64{math.NaN()}, 0.5); ok {
		t.Error("expected no quantile for an all-NaN series")
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
		ok       bool
	}{
		{"Empty", nil, 0, false},
		{"Single", []float64{5.5}, 5.5, true},
		{"SkipsNaN", []float64{1, math.NaN(), 3}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Mean(tt.values)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("Mean() = (%v, %v), want (%v, %v)", got, ok, tt.expected, tt.ok)
			}
		})
	}
}
