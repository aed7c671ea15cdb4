// Package report assembles the analytics of a baseline and an optimized run into the
// record behind the scenario dashboard.
package report

import (
	"context"
	"errors"
	"fmt"

	"scenario-mcp/internal/compare"
	"scenario-mcp/internal/scenario"
	"scenario-mcp/internal/selection"
	"scenario-mcp/internal/stats"

	"golang.org/x/sync/errgroup"
)

// DefaultLTVCap is the breach threshold used when neither the picked candidate nor the
// caller names one.
const DefaultLTVCap = 0.5

// ErrNoBaseline is returned when Build is called without a baseline result.
var ErrNoBaseline = errors.New("report: baseline result is required")

// Options tune a dashboard build. Zero values fall back to the engine defaults.
type Options struct {
	Quantiles []float64
	BinCount  int
	LTVCap    float64
	Policy    selection.Policy

	// Pick names a candidate by original index. When nil the default shortlist pick is
	// used, and the optimized aggregate when there are no candidates.
	Pick *int
}

// Panel metrics, as used in PathsFrom.
const (
	MetricNAV      = "nav"
	MetricLTV      = "ltv"
	MetricDilution = "dilution"
)

// PathsOptimized marks a panel chart drawn from the optimized aggregate's paths.
const PathsOptimized = "optimized"

// Panel holds the distribution charts of one side of the comparison. PathsFrom names,
// per metric, the result whose paths a chart was drawn from when the panel's own
// result carried none.
type Panel struct {
	Label     string            `json:"label"`
	NAV       stats.FanChart    `json:"nav_fan"`
	LTV       stats.Histogram   `json:"ltv_histogram"`
	Dilution  stats.Dispersion  `json:"dilution_box"`
	PathsFrom map[string]string `json:"paths_from,omitempty"`
}

// Borrowed reports whether the metric's chart shows paths from another result.
func (p Panel) Borrowed(metric string) bool {
	return p.PathsFrom[metric] != ""
}

// Runway pairs the runway figures of both sides, in months.
type Runway struct {
	Baseline *scenario.RunwayMetrics `json:"baseline,omitempty"`
	Subject  *scenario.RunwayMetrics `json:"subject,omitempty"`
}

// Dashboard is everything a scenario report shows.
type Dashboard struct {
	LTVCap     float64                   `json:"ltv_cap"`
	Baseline   Panel                     `json:"baseline"`
	Subject    Panel                     `json:"subject"`
	Runway     Runway                    `json:"runway"`
	Ranking    []selection.Scored        `json:"ranking"`
	Shortlist  selection.SelectionResult `json:"shortlist"`
	Pareto     []selection.Scored        `json:"pareto"`
	Comparison compare.Comparison        `json:"comparison"`
}

// subject is the side of the comparison opposite the baseline.
type subject struct {
	label     string
	metrics   scenario.Metrics
	candidate *scenario.Candidate
}

// Build computes the dashboard. The charts of both sides are computed concurrently; a
// ragged path matrix on either side fails the build.
func Build(ctx context.Context, baseline, optimized *scenario.ScenarioResult, opts Options) (*Dashboard, error) {
	if baseline == nil {
		return nil, ErrNoBaseline
	}
	if optimized == nil {
		optimized = &scenario.ScenarioResult{}
	}

	weights := opts.Policy.Weights
	if weights == (selection.Weights{}) {
		weights = selection.DefaultWeights()
	}

	d := &Dashboard{
		Ranking:   selection.Rank(optimized.Candidates, weights),
		Shortlist: selection.Select(optimized.Candidates, opts.Policy),
	}

	subj, err := resolveSubject(optimized, d.Shortlist, opts.Pick)
	if err != nil {
		return nil, err
	}
	d.LTVCap = ltvCap(subj.candidate, opts.LTVCap)

	d.Comparison = subj.compare(baseline.Metrics, optimized.Metrics)
	d.Runway = Runway{Baseline: baseline.Runway, Subject: subj.metrics.Runway}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := buildPanel(ctx, "baseline", baseline.Metrics, d.LTVCap, opts)
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		d.Baseline = p
		return nil
	})
	g.Go(func() error {
		m, borrowed := withPaths(subj.metrics, optimized.Metrics)
		p, err := buildPanel(ctx, subj.label, m, d.LTVCap, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", subj.label, err)
		}
		for _, metric := range borrowed {
			if p.PathsFrom == nil {
				p.PathsFrom = make(map[string]string, len(borrowed))
			}
			p.PathsFrom[metric] = PathsOptimized
		}
		d.Subject = p
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.Pareto = selection.ParetoFrontier(optimized.Candidates, weights)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// Compare resolves the pick the way Build does and compares it against the baseline.
func Compare(baseline, optimized *scenario.ScenarioResult, policy selection.Policy, pick *int) (compare.Comparison, error) {
	if baseline == nil {
		return compare.Comparison{}, ErrNoBaseline
	}
	if optimized == nil {
		optimized = &scenario.ScenarioResult{}
	}
	subj, err := resolveSubject(optimized, selection.Select(optimized.Candidates, policy), pick)
	if err != nil {
		return compare.Comparison{}, err
	}
	return subj.compare(baseline.Metrics, optimized.Metrics), nil
}

func (s subject) compare(baseline, optimized scenario.Metrics) compare.Comparison {
	if s.candidate != nil {
		return compare.Candidate(baseline, *s.candidate)
	}
	return compare.Aggregate(baseline, optimized)
}

func resolveSubject(optimized *scenario.ScenarioResult, shortlist selection.SelectionResult, pick *int) (subject, error) {
	if pick != nil {
		c, err := compare.Lookup(optimized.Candidates, *pick)
		if err != nil {
			return subject{}, fmt.Errorf("%w: original_index %d", err, *pick)
		}
		return candidateSubject(c), nil
	}
	if def, ok := shortlist.Default(); ok {
		return candidateSubject(def.Candidate), nil
	}
	return subject{label: "optimized", metrics: optimized.Metrics}, nil
}

func candidateSubject(c scenario.Candidate) subject {
	return subject{
		label:     fmt.Sprintf("#%d %s", c.OriginalIndex, c.Structure()),
		metrics:   c.Metrics,
		candidate: &c,
	}
}

func ltvCap(c *scenario.Candidate, fallback float64) float64 {
	if c != nil && c.Params.LTVCap != nil && *c.Params.LTVCap > 0 {
		return *c.Params.LTVCap
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultLTVCap
}

// withPaths fills the path fields m lacks from fallback and returns the metrics it
// filled. Scalars are left alone.
func withPaths(m, fallback scenario.Metrics) (scenario.Metrics, []string) {
	var borrowed []string
	if m.NAVPaths().Empty() && !fallback.NAVPaths().Empty() {
		nav := scenario.NAVMetrics{}
		if m.NAV != nil {
			nav = *m.NAV
		}
		p := fallback.NAVPaths()
		nav.Paths = &p
		m.NAV = &nav
		borrowed = append(borrowed, MetricNAV)
	}
	if m.LTVPaths().Empty() && !fallback.LTVPaths().Empty() {
		ltv := scenario.LTVMetrics{}
		if m.LTV != nil {
			ltv = *m.LTV
		}
		p := fallback.LTVPaths()
		ltv.Paths = &p
		m.LTV = &ltv
		borrowed = append(borrowed, MetricLTV)
	}
	if m.DilutionPaths().Empty() && !fallback.DilutionPaths().Empty() {
		dil := scenario.DilutionMetrics{}
		if m.Dilution != nil {
			dil = *m.Dilution
		}
		p := fallback.DilutionPaths()
		dil.Paths = &p
		m.Dilution = &dil
		borrowed = append(borrowed, MetricDilution)
	}
	return m, borrowed
}

func buildPanel(ctx context.Context, label string, m scenario.Metrics, threshold float64, opts Options) (Panel, error) {
	if err := ctx.Err(); err != nil {
		return Panel{}, err
	}
	p := Panel{Label: label}

	fan, err := stats.BuildFanChart(m.NAVPaths(), opts.Quantiles)
	if err != nil {
		return Panel{}, fmt.Errorf("nav fan chart: %w", err)
	}
	p.NAV = fan

	ltv, err := scenario.Terminal(m.LTVPaths())
	if err != nil {
		return Panel{}, fmt.Errorf("ltv histogram: %w", err)
	}
	p.LTV = stats.BuildHistogram(ltv, opts.BinCount, threshold)

	dil, err := scenario.Terminal(m.DilutionPaths())
	if err != nil {
		return Panel{}, fmt.Errorf("dilution box: %w", err)
	}
	p.Dilution = stats.Summarize(dil)

	return p, nil
}
