// Package compare reports how a chosen candidate moves the headline metrics relative to
// the baseline ("as-is") scenario.
package compare

import (
	"errors"

	"scenario-mcp/internal/scenario"
)

// ErrUnknownCandidate is returned when a pick does not name a candidate of the run.
var ErrUnknownCandidate = errors.New("compare: unknown candidate")

// Deltas are signed percentage changes. A dilution reduction is reported as a positive
// delta. A zero baseline yields exactly 0: there is nothing to improve on.
type Deltas struct {
	NAV      float64 `json:"nav_delta"`
	Dilution float64 `json:"dilution_delta"`
	ROE      float64 `json:"roe_delta"`
}

// Changes are absolute differences with the same sign convention as Deltas. LTV breach
// and runway are only reported when both sides carry the figure.
type Changes struct {
	NAV       float64  `json:"nav_change"`
	Dilution  float64  `json:"dilution_change"`
	ROE       float64  `json:"roe_change"`
	LTVBreach *float64 `json:"ltv_breach_change,omitempty"`
	Runway    *float64 `json:"runway_change,omitempty"`
}

// Comparison is the record behind a comparison view.
type Comparison struct {
	Label         string  `json:"label"`
	OriginalIndex *int    `json:"original_index,omitempty"`
	Relative      Deltas  `json:"relative"`
	Absolute      Changes `json:"absolute"`
}

// RelativeDelta returns (candidate-baseline)/baseline*100, or 0 when baseline is 0.
func RelativeDelta(baseline, candidate float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (candidate - baseline) / baseline * 100
}

// reductionDelta is RelativeDelta with the sign flipped: less is better.
func reductionDelta(baseline, candidate float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (baseline - candidate) / baseline * 100
}

// Compute returns the relative deltas of candidate against baseline. Missing figures
// count as 0, so a missing baseline never claims an improvement.
func Compute(baseline, candidate scenario.Metrics) Deltas {
	baseNAV, _ := baseline.NAVValue()
	candNAV, _ := candidate.NAVValue()
	baseDil, _ := baseline.DilutionValue()
	candDil, _ := candidate.DilutionValue()
	baseROE, _ := baseline.ROEValue()
	candROE, _ := candidate.ROEValue()

	return Deltas{
		NAV:      RelativeDelta(baseNAV, candNAV),
		Dilution: reductionDelta(baseDil, candDil),
		ROE:      RelativeDelta(baseROE, candROE),
	}
}

// Absolute returns the absolute changes of candidate against baseline.
func Absolute(baseline, candidate scenario.Metrics) Changes {
	baseNAV, _ := baseline.NAVValue()
	candNAV, _ := candidate.NAVValue()
	baseDil, _ := baseline.DilutionValue()
	candDil, _ := candidate.DilutionValue()
	baseROE, _ := baseline.ROEValue()
	candROE, _ := candidate.ROEValue()

	c := Changes{
		NAV:      candNAV - baseNAV,
		Dilution: baseDil - candDil,
		ROE:      candROE - baseROE,
	}
	if b, ok := baseline.LTVExceedProb(); ok {
		if v, ok := candidate.LTVExceedProb(); ok {
			d := b - v
			c.LTVBreach = &d
		}
	}
	if b, ok := baseline.RunwayMean(); ok {
		if v, ok := candidate.RunwayMean(); ok {
			d := v - b
			c.Runway = &d
		}
	}
	return c
}

// Candidate compares a single candidate against the baseline.
func Candidate(baseline scenario.Metrics, c scenario.Candidate) Comparison {
	idx := c.OriginalIndex
	return Comparison{
		Label:         c.Structure(),
		OriginalIndex: &idx,
		Relative:      Compute(baseline, c.Metrics),
		Absolute:      Absolute(baseline, c.Metrics),
	}
}

// Aggregate compares the optimized aggregate result against the baseline.
func Aggregate(baseline, optimized scenario.Metrics) Comparison {
	return Comparison{
		Label:    "optimized",
		Relative: Compute(baseline, optimized),
		Absolute: Absolute(baseline, optimized),
	}
}

// Lookup returns the candidate with the given original index.
func Lookup(cands []scenario.Candidate, originalIndex int) (scenario.Candidate, error) {
	for _, c := range cands {
		if c.OriginalIndex == originalIndex {
			return c, nil
		}
	}
	return scenario.Candidate{}, ErrUnknownCandidate
}
