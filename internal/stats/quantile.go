package stats

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"scenario-mcp/internal/scenario"
)

// ErrInvalidQuantile is returned for requested quantiles outside [0, 1].
var ErrInvalidQuantile = errors.New("stats: quantile outside [0, 1]")

// DefaultQuantiles are the fan-chart bands: p05, p25, p50, p75, p95.
func DefaultQuantiles() []float64 {
	return []float64{0.05, 0.25, 0.50, 0.75, 0.95}
}

// QuantileLabel names a quantile the way bands are keyed, e.g. 0.05 -> "p05".
func QuantileLabel(q float64) string {
	pct := q * 100
	if r := math.Round(pct); math.Abs(pct-r) < 1e-9 {
		return fmt.Sprintf("p%02d", int(r))
	}
	return "p" + strconv.FormatFloat(math.Round(pct*1e6)/1e6, 'f', -1, 64)
}

// Band holds the requested quantiles at one step. Count is the number of finite
// values the step contributed; a step with Count 0 carries no values.
type Band struct {
	Step   int                `json:"step"`
	Count  int                `json:"count"`
	Values map[string]float64 `json:"values,omitempty"`
}

// Value looks up the band value for q.
func (b Band) Value(q float64) (float64, bool) {
	v, ok := b.Values[QuantileLabel(q)]
	return v, ok
}

// QuantileSeries is one quantile line of a fan chart. Steps and Values are parallel;
// steps without finite data are skipped.
type QuantileSeries struct {
	Quantile float64   `json:"quantile"`
	Label    string    `json:"label"`
	Steps    []int     `json:"steps"`
	Values   []float64 `json:"values"`
}

// FanChart is the quantile summary of a metric. Temporal is false when the input was a
// flat series and the chart collapsed to a single band.
type FanChart struct {
	Status    Status           `json:"status"`
	Temporal  bool             `json:"temporal"`
	Quantiles []float64        `json:"quantiles"`
	Bands     []Band           `json:"bands,omitempty"`
	Series    []QuantileSeries `json:"series,omitempty"`
}

func validateQuantiles(qs []float64) ([]float64, error) {
	if len(qs) == 0 {
		return DefaultQuantiles(), nil
	}
	for _, q := range qs {
		if math.IsNaN(q) || q < 0 || q > 1 {
			return nil, fmt.Errorf("%w: %v", ErrInvalidQuantile, q)
		}
	}
	return slices.Clone(qs), nil
}

// BuildFanChart summarizes paths per step when they form a matrix, and as a single
// bucket when they are a flat series.
func BuildFanChart(p scenario.Paths, qs []float64) (FanChart, error) {
	if p.IsMatrix() {
		return QuantilesOverSteps(p.Matrix, qs)
	}
	return SummarizeSeries(p.Series, qs)
}

// QuantilesOverSteps computes, for every step of an N x T matrix, the nearest-rank
// quantiles across the N paths. Ragged matrices are rejected.
func QuantilesOverSteps(m scenario.PathMatrix, qs []float64) (FanChart, error) {
	qs, err := validateQuantiles(qs)
	if err != nil {
		return FanChart{}, err
	}
	n, steps, err := m.Dims()
	if err != nil {
		return FanChart{}, err
	}

	chart := FanChart{Status: StatusNoData, Temporal: true, Quantiles: qs}
	if n == 0 || steps == 0 {
		return chart, nil
	}

	chart.Bands = make([]Band, steps)
	chart.Series = newSeries(qs)
	column := make([]float64, 0, n)
	for t := 0; t < steps; t++ {
		column = column[:0]
		for _, row := range m {
			if isFinite(row[t]) {
				column = append(column, row[t])
			}
		}
		slices.Sort(column)
		chart.Bands[t] = band(t, column, qs, chart.Series)
	}

	if !hasValues(chart.Bands) {
		chart.Bands, chart.Series = nil, nil
		return chart, nil
	}
	chart.Status = StatusOK
	return chart, nil
}

// SummarizeSeries collapses a flat series into one band.
func SummarizeSeries(s scenario.SampleSeries, qs []float64) (FanChart, error) {
	qs, err := validateQuantiles(qs)
	if err != nil {
		return FanChart{}, err
	}
	chart := FanChart{Status: StatusNoData, Quantiles: qs}

	sorted := sortedFinite(s)
	if len(sorted) == 0 {
		return chart, nil
	}
	chart.Series = newSeries(qs)
	chart.Bands = []Band{band(0, sorted, qs, chart.Series)}
	chart.Status = StatusOK
	return chart, nil
}

func newSeries(qs []float64) []QuantileSeries {
	series := make([]QuantileSeries, len(qs))
	for i, q := range qs {
		series[i] = QuantileSeries{Quantile: q, Label: QuantileLabel(q)}
	}
	return series
}

// band fills a Band from an ascending slice and appends the values to the series lines.
func band(step int, sorted []float64, qs []float64, series []QuantileSeries) Band {
	b := Band{Step: step, Count: len(sorted)}
	if len(sorted) == 0 {
		return b
	}
	b.Values = make(map[string]float64, len(qs))
	for i, q := range qs {
		v := NearestRank(sorted, q)
		b.Values[series[i].Label] = v
		series[i].Steps = append(series[i].Steps, step)
		series[i].Values = append(series[i].Values, v)
	}
	return b
}

func hasValues(bands []Band) bool {
	for _, b := range bands {
		if b.Count > 0 {
			return true
		}
	}
	return false
}
