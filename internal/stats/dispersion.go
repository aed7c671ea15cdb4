package stats

// BoxStats is the five-number summary behind a box plot.
type BoxStats struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	IQR    float64 `json:"iqr"`
	Mean   float64 `json:"mean"`
}

// Dispersion wraps BoxStats with its availability. Box is nil unless Status is StatusOK.
type Dispersion struct {
	Status Status    `json:"status"`
	Count  int       `json:"count"`
	Box    *BoxStats `json:"box,omitempty"`
}

// Summarize computes box statistics over the finite values of sample. Quartiles use the
// same nearest-rank rule as the fan charts; min and max are the literal extremes.
// Fewer than two distinct values yield StatusInsufficientData.
func Summarize(sample []float64) Dispersion {
	sorted := sortedFinite(sample)
	d := Dispersion{Status: StatusInsufficientData, Count: len(sorted)}
	if len(sorted) == 0 || sorted[0] == sorted[len(sorted)-1] {
		return d
	}

	mean, _ := Mean(sorted)
	box := BoxStats{
		Min:    sorted[0],
		Q1:     NearestRank(sorted, 0.25),
		Median: NearestRank(sorted, 0.50),
		Q3:     NearestRank(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
		Mean:   mean,
	}
	box.IQR = box.Q3 - box.Q1

	d.Status = StatusOK
	d.Box = &box
	return d
}
