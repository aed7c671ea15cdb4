package mcp

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"scenario-mcp/internal/compare"
	"scenario-mcp/internal/report"
	"scenario-mcp/internal/scenario"
)

// ErrNoInput is returned when a tool call names neither a scenario file nor inline values.
var ErrNoInput = errors.New("provide a scenario 'file' or inline values")

// resolvePath anchors relative scenario paths at DATA_PATH.
func (s *Server) resolvePath(name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(s.cfg.DataPath, name)
}

func (s *Server) loadScenario(name string) (*scenario.ScenarioResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrNoInput
	}
	return scenario.LoadFile(s.resolvePath(name))
}

// metricPaths returns the paths of metric from the scenario file, or from one of its
// candidates when candidate is set.
func (s *Server) metricPaths(file string, candidate *int, metric string) (scenario.Paths, *scenario.Candidate, error) {
	res, err := s.loadScenario(file)
	if err != nil {
		return scenario.Paths{}, nil, err
	}

	m := res.Metrics
	var picked *scenario.Candidate
	if candidate != nil {
		c, err := compare.Lookup(res.Candidates, *candidate)
		if err != nil {
			return scenario.Paths{}, nil, fmt.Errorf("%w: original_index %d", err, *candidate)
		}
		m, picked = c.Metrics, &c
	}

	switch metric {
	case "nav":
		return m.NAVPaths(), picked, nil
	case "ltv":
		return m.LTVPaths(), picked, nil
	case "dilution":
		return m.DilutionPaths(), picked, nil
	default:
		return scenario.Paths{}, nil, fmt.Errorf("unknown metric %q: use nav, ltv or dilution", metric)
	}
}

// threshold picks the breach threshold: explicit, then the candidate's ltv_cap, then the
// configured cap.
func (s *Server) threshold(explicit *float64, c *scenario.Candidate) float64 {
	if explicit != nil {
		return *explicit
	}
	if c != nil && c.Params.LTVCap != nil && *c.Params.LTVCap > 0 {
		return *c.Params.LTVCap
	}
	if s.cfg.Analytics.LTVCap > 0 {
		return s.cfg.Analytics.LTVCap
	}
	return report.DefaultLTVCap
}

func orDefault(metric, fallback string) string {
	if metric == "" {
		return fallback
	}
	return strings.ToLower(metric)
}
