package scenario

import "strings"

// NAVMetrics holds the net-asset-value figures of a scenario.
type NAVMetrics struct {
	AvgNAV      *float64 `json:"avg_nav,omitempty"`
	ErosionProb *float64 `json:"erosion_prob,omitempty"`
	CVaR        *float64 `json:"cvar,omitempty"`
	Paths       *Paths   `json:"nav_paths,omitempty"`
}

// LTVMetrics holds loan-to-value figures. ExceedProb is the upstream breach estimate.
type LTVMetrics struct {
	ExceedProb *float64 `json:"exceed_prob,omitempty"`
	Paths      *Paths   `json:"ltv_paths,omitempty"`
}

type DilutionMetrics struct {
	AvgDilution  *float64 `json:"avg_dilution,omitempty"`
	BaseDilution *float64 `json:"base_dilution,omitempty"`
	Paths        *Paths   `json:"dilution_paths,omitempty"`
}

type ROEMetrics struct {
	AvgROE *float64 `json:"avg_roe,omitempty"`
	Sharpe *float64 `json:"sharpe,omitempty"`
}

// RunwayMetrics is expressed in months.
type RunwayMetrics struct {
	DistMean *float64 `json:"dist_mean,omitempty"`
	P95      *float64 `json:"p95,omitempty"`
}

// Metrics is the bundle shared by scenario results and candidates. Every scalar is
// optional so that a missing figure stays distinguishable from a zero.
type Metrics struct {
	NAV      *NAVMetrics      `json:"nav,omitempty"`
	LTV      *LTVMetrics      `json:"ltv,omitempty"`
	Dilution *DilutionMetrics `json:"dilution,omitempty"`
	ROE      *ROEMetrics      `json:"roe,omitempty"`
	Runway   *RunwayMetrics   `json:"runway,omitempty"`

	// Pass-through sections, not interpreted by the engine.
	TermSheet           map[string]any `json:"term_sheet,omitempty"`
	ScenarioMetrics     map[string]any `json:"scenario_metrics,omitempty"`
	DistributionMetrics map[string]any `json:"distribution_metrics,omitempty"`
	BusinessImpact      map[string]any `json:"business_impact,omitempty"`
}

// Params are the terms of a proposed funding structure.
type Params struct {
	Structure string   `json:"structure"`
	Amount    *float64 `json:"amount,omitempty"`
	Rate      *float64 `json:"rate,omitempty"`
	Discount  *float64 `json:"discount,omitempty"`
	LTVCap    *float64 `json:"ltv_cap,omitempty"`
	Premium   *float64 `json:"premium,omitempty"`
}

// Candidate is one financing structure evaluated by the upstream optimizer.
type Candidate struct {
	Type    string  `json:"type,omitempty"`
	Params  Params  `json:"params"`
	Metrics Metrics `json:"metrics"`

	// OriginalIndex is the position in the optimized result's candidate list.
	OriginalIndex int `json:"original_index"`
}

// ScenarioResult is a baseline ("as-is") or optimized result.
type ScenarioResult struct {
	Metrics
	Candidates []Candidate `json:"candidates,omitempty"`
}

// Structure returns the structure label used for diversification. The params label wins;
// the candidate type is the fallback for documents that only carry the latter.
func (c Candidate) Structure() string {
	if c.Params.Structure != "" {
		return c.Params.Structure
	}
	return c.Type
}

// IsHybrid reports whether the structure combines several mechanisms (e.g. "Loan+PIPE").
func (c Candidate) IsHybrid() bool {
	return strings.Contains(c.Structure(), "+")
}

// Mechanisms splits a hybrid label into its base mechanisms.
func (c Candidate) Mechanisms() []string {
	label := c.Structure()
	if label == "" {
		return nil
	}
	parts := strings.Split(label, "+")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func value(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// NAVValue returns the average NAV, if present.
func (m Metrics) NAVValue() (float64, bool) {
	if m.NAV == nil {
		return 0, false
	}
	return value(m.NAV.AvgNAV)
}

// DilutionValue returns the average dilution, if present.
func (m Metrics) DilutionValue() (float64, bool) {
	if m.Dilution == nil {
		return 0, false
	}
	return value(m.Dilution.AvgDilution)
}

// ROEValue returns the average ROE, if present.
func (m Metrics) ROEValue() (float64, bool) {
	if m.ROE == nil {
		return 0, false
	}
	return value(m.ROE.AvgROE)
}

// LTVExceedProb returns the upstream LTV breach probability, if present.
func (m Metrics) LTVExceedProb() (float64, bool) {
	if m.LTV == nil {
		return 0, false
	}
	return value(m.LTV.ExceedProb)
}

// RunwayMean returns the mean runway in months, if present.
func (m Metrics) RunwayMean() (float64, bool) {
	if m.Runway == nil {
		return 0, false
	}
	return value(m.Runway.DistMean)
}

func (m Metrics) NAVPaths() Paths {
	if m.NAV == nil || m.NAV.Paths == nil {
		return Paths{}
	}
	return *m.NAV.Paths
}

func (m Metrics) LTVPaths() Paths {
	if m.LTV == nil || m.LTV.Paths == nil {
		return Paths{}
	}
	return *m.LTV.Paths
}

func (m Metrics) DilutionPaths() Paths {
	if m.Dilution == nil || m.Dilution.Paths == nil {
		return Paths{}
	}
	return *m.Dilution.Paths
}

// Float is a convenience for building optional metric values.
func Float(v float64) *float64 {
	return &v
}
