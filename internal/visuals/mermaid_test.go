package visuals

import (
	"strings"
	"testing"

	"scenario-mcp/internal/compare"
	"scenario-mcp/internal/scenario"
	"scenario-mcp/internal/selection"
	"scenario-mcp/internal/stats"
)

func TestGenerateFanChart(t *testing.T) {
	m := scenario.PathMatrix{
		{100, 110, 120},
		{100, 90, 80},
		{100, 105, 115},
	}
	chart, err := stats.QuantilesOverSteps(m, []float64{0.05, 0.5, 0.95})
	if err != nil {
		t.Fatalf("QuantilesOverSteps: %v", err)
	}

	out := GenerateFanChart("NAV", chart)
	if !strings.HasPrefix(out, "```mermaid\nxychart-beta\n") {
		t.Fatalf("expected a mermaid xychart, got:\n%s", out)
	}
	if got := strings.Count(out, "    line ["); got != 3 {
		t.Errorf("expected one line per quantile (3), got %d", got)
	}
	if !strings.Contains(out, `x-axis "Step" ["0", "1", "2"]`) {
		t.Errorf("missing step axis:\n%s", out)
	}
	if !strings.Contains(out, "p05/p50/p95") {
		t.Errorf("missing quantile names in title:\n%s", out)
	}
}

func TestGenerateFanChart_Subsamples(t *testing.T) {
	row := make([]float64, 200)
	for i := range row {
		row[i] = float64(i)
	}
	chart, err := stats.QuantilesOverSteps(scenario.PathMatrix{row}, []float64{0.5})
	if err != nil {
		t.Fatalf("QuantilesOverSteps: %v", err)
	}

	out := GenerateFanChart("NAV", chart)
	if !strings.Contains(out, `"199"]`) {
		t.Errorf("final step must always be plotted:\n%s", out)
	}
	axis := out[strings.Index(out, "x-axis"):]
	axis = axis[:strings.Index(axis, "\n")]
	if n := strings.Count(axis, ","); n+1 > maxPoints+1 {
		t.Errorf("expected at most %d points, got %d", maxPoints+1, n+1)
	}
}

func TestGenerateFanChart_Placeholder(t *testing.T) {
	chart, _ := stats.QuantilesOverSteps(nil, nil)
	out := GenerateFanChart("NAV", chart)
	if strings.Contains(out, "```mermaid") {
		t.Fatalf("no-data chart must not render a diagram:\n%s", out)
	}
	if !strings.Contains(out, stats.StatusNoData.Message()) {
		t.Errorf("placeholder must explain the status, got %q", out)
	}
}

func TestGenerateHistogramChart(t *testing.T) {
	h := stats.BuildHistogram([]float64{1, 2, 3, 4, 5, 6, 7, 9}, 4, 5)
	out := GenerateHistogramChart("Terminal LTV", h)

	if got := strings.Count(out, "    bar ["); got != 2 {
		t.Fatalf("expected safe and breach bar series, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "breach 50.0%") {
		t.Errorf("title must carry the breach probability:\n%s", out)
	}
	if !strings.Contains(out, `x-axis ["1", "3", "5", "7"]`) {
		t.Errorf("unexpected bin labels:\n%s", out)
	}
	if !strings.Contains(out, "bar [2, 2, 0, 0]") || !strings.Contains(out, "bar [0, 0, 2, 2]") {
		t.Errorf("unexpected bar split:\n%s", out)
	}
}

func TestGenerateHistogramChart_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		sample []float64
		want   string
	}{
		{"EquityOnly", []float64{0, 0, 0}, stats.StatusEquityOnly.Message()},
		{"Constant", []float64{0.4, 0.4}, "(value 0.4)"},
		{"Empty", nil, stats.StatusNoData.Message()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := GenerateHistogramChart("LTV", stats.BuildHistogram(tt.sample, 0, 0.5))
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in %q", tt.want, out)
			}
		})
	}
}

func TestGenerateBoxChart(t *testing.T) {
	out := GenerateBoxChart("Dilution", stats.Summarize([]float64{0.08, 0.09, 0.10, 0.11, 0.12}))
	if !strings.Contains(out, "bar [0.08, 0.09, 0.1, 0.11, 0.12]") {
		t.Errorf("unexpected box bars:\n%s", out)
	}

	out = GenerateBoxChart("Dilution", stats.Summarize([]float64{0.1}))
	if !strings.Contains(out, stats.StatusInsufficientData.Message()) {
		t.Errorf("expected insufficient data placeholder, got %q", out)
	}
}

func TestGenerateCandidateChart(t *testing.T) {
	scored := []selection.Scored{
		{Candidate: scenario.Candidate{OriginalIndex: 2, Params: scenario.Params{Structure: "Loan + PIPE"}}, Score: 9.5},
		{Candidate: scenario.Candidate{OriginalIndex: 0, Type: "ATM"}, Score: -1},
	}
	out := GenerateCandidateChart("Shortlist", scored)
	if !strings.Contains(out, `x-axis ["#2 Loan_+_PIPE", "#0 ATM"]`) {
		t.Errorf("unexpected labels:\n%s", out)
	}
	if !strings.Contains(out, "bar [9.5, -1]") {
		t.Errorf("unexpected scores:\n%s", out)
	}

	if out := GenerateCandidateChart("Shortlist", nil); strings.Contains(out, "mermaid") {
		t.Errorf("empty shortlist must render a placeholder, got %q", out)
	}
}

func TestGenerateDeltaChart(t *testing.T) {
	c := compare.Comparison{Label: "Loan", Relative: compare.Deltas{NAV: 50, Dilution: -25, ROE: 0}}
	out := GenerateDeltaChart(c)
	if !strings.Contains(out, "bar [50, -25, 0]") {
		t.Errorf("unexpected deltas:\n%s", out)
	}
	if !strings.Contains(out, `title "Loan vs baseline (%)"`) {
		t.Errorf("unexpected title:\n%s", out)
	}
}

func TestFormatValue(t *testing.T) {
	tests := map[float64]string{
		1500000:    "1500000",
		0.08123456: "0.0812",
		-0.00001:   "0",
		2.5:        "2.5",
	}
	for in, want := range tests {
		if got := formatValue(in); got != want {
			t.Errorf("formatValue(%v) = %q, want %q", in, got, want)
		}
	}
}
