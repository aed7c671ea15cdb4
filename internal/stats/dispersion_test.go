package stats

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	// 8 values: floor(q*8) -> q1 idx 2, median idx 4, q3 idx 6
	sample := []float64{8, 1, 7, 2, 6, 3, 5, 4}
	d := Summarize(sample)

	if d.Status != StatusOK || d.Box == nil {
		t.Fatalf("expected box stats, got status %s", d.Status)
	}
	want := BoxStats{Min: 1, Q1: 3, Median: 5, Q3: 7, Max: 8, IQR: 4, Mean: 4.5}
	if *d.Box != want {
		t.Errorf("Summarize() = %+v, want %+v", *d.Box, want)
	}
	if d.Count != 8 {
		t.Errorf("Count = %d, want 8", d.Count)
	}
	if sample[0] != 8 {
		t.Error("Summarize must not reorder its input")
	}
}

func TestSummarize_Ordering(t *testing.T) {
	samples := [][]float64{
		{1, 2, 3, 4},
		{0.1, 0.5, 0.5, 0.9, 12},
		{-5, -1, 0, 3, 3, 3, 8, 100},
		{2, 1, 4, 3, 6, 5, 8, 7, 10, 9, 11},
	}

	for _, s := range samples {
		d := Summarize(s)
		if d.Status != StatusOK {
			t.Fatalf("expected StatusOK for %v", s)
		}
		b := d.Box
		if !(b.Min <= b.Q1 && b.Q1 <= b.Median && b.Median <= b.Q3 && b.Q3 <= b.Max) {
			t.Errorf("ordering violated for %v: %+v", s, *b)
		}
	}
}

func TestSummarize_InsufficientData(t *testing.T) {
	tests := []struct {
		name   string
		sample []float64
		count  int
	}{
		{"Empty", nil, 0},
		{"Single", []float64{3}, 1},
		{"Constant", []float64{2, 2, 2}, 3},
		{"ConstantWithNaN", []float64{2, math.NaN(), 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Summarize(tt.sample)
			if d.Status != StatusInsufficientData {
				t.Errorf("Status = %s, want %s", d.Status, StatusInsufficientData)
			}
			if d.Box != nil {
				t.Error("expected no box for insufficient data")
			}
			if d.Count != tt.count {
				t.Errorf("Count = %d, want %d", d.Count, tt.count)
			}
		})
	}
}
