package stats

import "math"

// DefaultBinCount is used when a caller asks for zero or fewer bins.
const DefaultBinCount = 20

// HistogramBin covers [Lower, Upper); the last bin of a histogram also includes Upper.
// Breach is set when the whole bin sits at or above the threshold.
type HistogramBin struct {
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	Count  int     `json:"count"`
	Breach bool    `json:"breach"`
}

// Histogram is the threshold-aware distribution of a sample. Only StatusOK carries
// bins; StatusConstant carries Value instead. BreachProbability is absent without data.
type Histogram struct {
	Status            Status         `json:"status"`
	SampleSize        int            `json:"sample_size"`
	Dropped           int            `json:"dropped,omitempty"`
	Threshold         float64        `json:"threshold"`
	BreachProbability *float64       `json:"breach_probability,omitempty"`
	Value             *float64       `json:"value,omitempty"`
	Bins              []HistogramBin `json:"bins,omitempty"`
}

// BuildHistogram bins the finite values of sample into binCount contiguous bins spanning
// [min, max] and flags the bins at or above threshold.
//
// Degenerate samples do not produce bins: an empty sample is StatusNoData, an all-zero
// sample is StatusEquityOnly (zero leverage asserts zero risk), and any other constant
// sample is StatusConstant carrying the value.
func BuildHistogram(sample []float64, binCount int, threshold float64) Histogram {
	if binCount <= 0 {
		binCount = DefaultBinCount
	}

	values := sortedFinite(sample)
	h := Histogram{
		Status:     StatusNoData,
		SampleSize: len(values),
		Dropped:    len(sample) - len(values),
		Threshold:  threshold,
	}
	if len(values) == 0 {
		return h
	}

	breached := 0
	for _, v := range values {
		if v >= threshold {
			breached++
		}
	}
	prob := float64(breached) / float64(len(values))
	h.BreachProbability = &prob

	lo, hi := values[0], values[len(values)-1]
	if lo == hi {
		if lo == 0 {
			h.Status = StatusEquityOnly
			return h
		}
		v := lo
		h.Status = StatusConstant
		h.Value = &v
		return h
	}

	// Dividing first keeps the width finite across the whole float64 range.
	width := hi/float64(binCount) - lo/float64(binCount)
	lower := func(i int) float64 {
		if i == 0 {
			return lo
		}
		return lo + float64(i)*width
	}

	bins := make([]HistogramBin, binCount)
	for i := range bins {
		bins[i].Lower = lower(i)
		if i == binCount-1 {
			bins[i].Upper = hi
		} else {
			bins[i].Upper = lower(i + 1)
		}
		bins[i].Breach = bins[i].Lower >= threshold
	}

	for _, v := range values {
		idx := binIndex(v, lo, width, binCount)
		// Align with the reported bounds so floating-point error never moves a value
		// across an edge.
		for idx > 0 && v < bins[idx].Lower {
			idx--
		}
		for idx < binCount-1 && v >= bins[idx+1].Lower {
			idx++
		}
		bins[idx].Count++
	}

	h.Status = StatusOK
	h.Bins = bins
	return h
}

// binIndex estimates the bin of v, clamped to [0, binCount). A zero width (a range too
// narrow to split) yields NaN or +Inf, which clamp to the ends.
func binIndex(v, lo, width float64, binCount int) int {
	f := math.Floor((v - lo) / width)
	switch {
	case math.IsNaN(f) || f < 0:
		return 0
	case f >= float64(binCount-1):
		return binCount - 1
	}
	return int(f)
}
