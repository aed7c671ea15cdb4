package mcp

import (
	"context"
	"time"

	"scenario-mcp/internal/htmlreport"
	"scenario-mcp/internal/report"
	"scenario-mcp/internal/scenario"
	"scenario-mcp/internal/selection"
	"scenario-mcp/internal/stats"
	"scenario-mcp/internal/visuals"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

type FanChartInput struct {
	File      string      `json:"file,omitempty" jsonschema:"Scenario JSON file, relative to DATA_PATH"`
	Candidate *int        `json:"candidate,omitempty" jsonschema:"original_index of the candidate whose paths to use"`
	Metric    string      `json:"metric,omitempty" jsonschema:"nav (default), ltv or dilution"`
	Matrix    [][]float64 `json:"matrix,omitempty" jsonschema:"Inline path matrix, one row per simulated path"`
	Series    []float64   `json:"series,omitempty" jsonschema:"Inline flat series of terminal values"`
	Quantiles []float64   `json:"quantiles,omitempty" jsonschema:"Quantiles in [0, 1]; defaults to the configured bands"`
}

type HistogramInput struct {
	File      string    `json:"file,omitempty" jsonschema:"Scenario JSON file, relative to DATA_PATH"`
	Candidate *int      `json:"candidate,omitempty" jsonschema:"original_index of the candidate whose paths to use"`
	Metric    string    `json:"metric,omitempty" jsonschema:"ltv (default), nav or dilution"`
	Values    []float64 `json:"values,omitempty" jsonschema:"Inline sample of terminal values"`
	Threshold *float64  `json:"threshold,omitempty" jsonschema:"Breach threshold; defaults to the candidate ltv_cap or the configured cap"`
	Bins      int       `json:"bins,omitempty" jsonschema:"Number of bins"`
}

type BoxStatsInput struct {
	File      string    `json:"file,omitempty" jsonschema:"Scenario JSON file, relative to DATA_PATH"`
	Candidate *int      `json:"candidate,omitempty" jsonschema:"original_index of the candidate whose paths to use"`
	Metric    string    `json:"metric,omitempty" jsonschema:"dilution (default), nav or ltv"`
	Values    []float64 `json:"values,omitempty" jsonschema:"Inline sample of terminal values"`
}

type SelectInput struct {
	File     string   `json:"file" jsonschema:"Optimized scenario JSON file, relative to DATA_PATH"`
	Size     int      `json:"size,omitempty" jsonschema:"Short-list size (default 3)"`
	PoolSize int      `json:"pool_size,omitempty" jsonschema:"Number of top-ranked candidates considered (default 5)"`
	Priority []string `json:"priority,omitempty" jsonschema:"Structure priority tokens"`
}

type CompareInput struct {
	Baseline  string `json:"baseline" jsonschema:"Baseline scenario JSON file"`
	Optimized string `json:"optimized" jsonschema:"Optimized scenario JSON file"`
	Candidate *int   `json:"candidate,omitempty" jsonschema:"original_index of the candidate to compare; defaults to the short-list pick"`
}

type ReportInput struct {
	Baseline  string `json:"baseline" jsonschema:"Baseline scenario JSON file"`
	Optimized string `json:"optimized" jsonschema:"Optimized scenario JSON file"`
	Candidate *int   `json:"candidate,omitempty" jsonschema:"original_index of the candidate to feature; defaults to the short-list pick"`
	WriteHTML bool   `json:"write_html,omitempty" jsonschema:"Also write an HTML export to REPORT_DIR"`
}

func (s *Server) handleFanChart(_ context.Context, _ *mcp.CallToolRequest, in FanChartInput) (*mcp.CallToolResult, any, error) {
	metric := orDefault(in.Metric, "nav")

	var paths scenario.Paths
	switch {
	case in.Matrix != nil:
		paths = scenario.Paths{Matrix: in.Matrix}
	case in.Series != nil:
		paths = scenario.Paths{Series: in.Series}
	default:
		var err error
		if paths, _, err = s.metricPaths(in.File, in.Candidate, metric); err != nil {
			return nil, nil, err
		}
	}

	qs := in.Quantiles
	if len(qs) == 0 {
		qs = s.cfg.Analytics.Quantiles
	}
	chart, err := stats.BuildFanChart(paths, qs)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().Str("metric", metric).Str("status", string(chart.Status)).Int("bands", len(chart.Bands)).Msg("Fan chart computed")

	res := map[string]interface{}{
		"fan_chart": chart,
		"_guidance": []string{
			"Each band holds nearest-rank quantiles across all paths at one step. Steps without finite values have count 0 and no values.",
			"'temporal: false' means the input was a flat series and the chart collapsed to a single band.",
		},
	}
	if s.cfg.EnableMermaidCharts {
		res["visual_fan_chart"] = visuals.GenerateFanChart(metricTitle(metric), chart)
	}
	return nil, res, nil
}

func (s *Server) handleHistogram(_ context.Context, _ *mcp.CallToolRequest, in HistogramInput) (*mcp.CallToolResult, any, error) {
	metric := orDefault(in.Metric, "ltv")

	sample, picked, err := s.sample(in.File, in.Candidate, metric, in.Values)
	if err != nil {
		return nil, nil, err
	}
	bins := in.Bins
	if bins <= 0 {
		bins = s.cfg.Analytics.BinCount
	}
	h := stats.BuildHistogram(sample, bins, s.threshold(in.Threshold, picked))

	res := map[string]interface{}{
		"histogram": h,
		"_guidance": []string{
			"Bins flagged 'breach' lie entirely at or above the threshold; breach_probability counts every value >= threshold.",
			"'equity_only' means every path has zero leverage: there is no LTV risk to chart.",
		},
	}
	if s.cfg.EnableMermaidCharts {
		res["visual_histogram"] = visuals.GenerateHistogramChart("Terminal "+metricTitle(metric), h)
	}
	return nil, res, nil
}

func (s *Server) handleBoxStats(_ context.Context, _ *mcp.CallToolRequest, in BoxStatsInput) (*mcp.CallToolResult, any, error) {
	metric := orDefault(in.Metric, "dilution")

	sample, _, err := s.sample(in.File, in.Candidate, metric, in.Values)
	if err != nil {
		return nil, nil, err
	}
	d := stats.Summarize(sample)

	res := map[string]interface{}{
		"box_stats": d,
	}
	if s.cfg.EnableMermaidCharts {
		res["visual_box_stats"] = visuals.GenerateBoxChart(metricTitle(metric), d)
	}
	return nil, res, nil
}

func (s *Server) handleSelect(_ context.Context, _ *mcp.CallToolRequest, in SelectInput) (*mcp.CallToolResult, any, error) {
	optimized, err := s.loadScenario(in.File)
	if err != nil {
		return nil, nil, err
	}

	policy := s.cfg.Analytics.Policy()
	if in.Size > 0 {
		policy.Size = in.Size
	}
	if in.PoolSize > 0 {
		policy.PoolSize = in.PoolSize
	}
	if len(in.Priority) > 0 {
		policy.Priority = in.Priority
	}

	shortlist := selection.Select(optimized.Candidates, policy)
	log.Info().Int("candidates", len(optimized.Candidates)).Int("selected", len(shortlist.Candidates)).Msg("Candidates short-listed")

	res := map[string]interface{}{
		"shortlist": shortlist,
		"ranking":   selection.Rank(optimized.Candidates, policy.Weights),
		"pareto":    selection.ParetoFrontier(optimized.Candidates, policy.Weights),
		"_guidance": []string{
			"The short-list favours mechanism diversity over raw score: 'reason' tells whether an entry won a priority slot or filled by score.",
			"Use original_index to refer to a candidate in compare_scenarios or build_report.",
		},
	}
	if s.cfg.EnableMermaidCharts {
		res["visual_shortlist"] = visuals.GenerateCandidateChart("Shortlist scores", shortlist.Candidates)
	}
	return nil, res, nil
}

func (s *Server) handleCompare(_ context.Context, _ *mcp.CallToolRequest, in CompareInput) (*mcp.CallToolResult, any, error) {
	baseline, optimized, err := s.loadPair(in.Baseline, in.Optimized)
	if err != nil {
		return nil, nil, err
	}
	c, err := report.Compare(baseline, optimized, s.cfg.Analytics.Policy(), in.Candidate)
	if err != nil {
		return nil, nil, err
	}

	res := map[string]interface{}{
		"comparison": c,
		"_guidance": []string{
			"Deltas are percentages of the baseline. A dilution reduction is positive. A zero baseline yields a delta of 0.",
		},
	}
	if s.cfg.EnableMermaidCharts {
		res["visual_comparison"] = visuals.GenerateDeltaChart(c)
	}
	return nil, res, nil
}

func (s *Server) handleBuildReport(ctx context.Context, _ *mcp.CallToolRequest, in ReportInput) (*mcp.CallToolResult, any, error) {
	baseline, optimized, err := s.loadPair(in.Baseline, in.Optimized)
	if err != nil {
		return nil, nil, err
	}
	opts := s.cfg.Analytics.ReportOptions()
	opts.Pick = in.Candidate

	d, err := report.Build(ctx, baseline, optimized, opts)
	if err != nil {
		return nil, nil, err
	}

	res := map[string]interface{}{
		"dashboard": d,
	}
	if s.cfg.EnableMermaidCharts {
		res["visuals"] = d.Charts()
	}
	if in.WriteHTML {
		path, err := htmlreport.Write(s.cfg.ReportDir, d, time.Now())
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", path).Msg("HTML report written")
		res["html_path"] = path
	}
	return nil, res, nil
}

func (s *Server) loadPair(baselineFile, optimizedFile string) (*scenario.ScenarioResult, *scenario.ScenarioResult, error) {
	baseline, err := s.loadScenario(baselineFile)
	if err != nil {
		return nil, nil, err
	}
	optimized, err := s.loadScenario(optimizedFile)
	if err != nil {
		return nil, nil, err
	}
	return baseline, optimized, nil
}

// sample returns inline values when given, otherwise the terminal values of the metric.
func (s *Server) sample(file string, candidate *int, metric string, inline []float64) ([]float64, *scenario.Candidate, error) {
	if inline != nil {
		return inline, nil, nil
	}
	paths, picked, err := s.metricPaths(file, candidate, metric)
	if err != nil {
		return nil, nil, err
	}
	terminal, err := scenario.Terminal(paths)
	if err != nil {
		return nil, nil, err
	}
	return terminal, picked, nil
}

func metricTitle(metric string) string {
	switch metric {
	case "nav":
		return "NAV"
	case "ltv":
		return "LTV"
	case "dilution":
		return "Dilution"
	}
	return metric
}
