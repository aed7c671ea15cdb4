package report

import (
	"fmt"
	"strings"

	"scenario-mcp/internal/visuals"
)

// Chart is one rendered Mermaid block (or placeholder line) of a dashboard.
type Chart struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Mermaid string `json:"mermaid"`
}

// Charts renders the dashboard panels in display order.
func (d *Dashboard) Charts() []Chart {
	var charts []Chart
	sides := []struct {
		prefix string
		panel  Panel
	}{{"baseline", d.Baseline}, {"subject", d.Subject}}
	for _, side := range sides {
		prefix, p := side.prefix, side.panel
		charts = append(charts,
			Chart{ID: prefix + "_nav", Title: panelTitle(p, MetricNAV, "NAV"), Mermaid: visuals.GenerateFanChart("NAV", p.NAV)},
			Chart{ID: prefix + "_ltv", Title: panelTitle(p, MetricLTV, "terminal LTV"), Mermaid: visuals.GenerateHistogramChart("Terminal LTV", p.LTV)},
			Chart{ID: prefix + "_dilution", Title: panelTitle(p, MetricDilution, "dilution"), Mermaid: visuals.GenerateBoxChart("Dilution", p.Dilution)},
		)
	}
	charts = append(charts,
		Chart{ID: "shortlist", Title: "Shortlist", Mermaid: visuals.GenerateCandidateChart("Shortlist scores", d.Shortlist.Candidates)},
		Chart{ID: "comparison", Title: "Comparison", Mermaid: visuals.GenerateDeltaChart(d.Comparison)},
	)
	return charts
}

func panelTitle(p Panel, metric, name string) string {
	title := p.Label + " " + name
	if src := p.PathsFrom[metric]; src != "" {
		title += " (" + src + " paths)"
	}
	return title
}

// Markdown renders the dashboard as a Markdown document with embedded Mermaid charts.
func Markdown(d *Dashboard) string {
	var sb strings.Builder
	sb.WriteString("# Scenario Report\n\n")

	c := d.Comparison
	fmt.Fprintf(&sb, "## %s vs baseline\n\n", c.Label)
	sb.WriteString("| Metric | Relative | Absolute |\n|---|---|---|\n")
	fmt.Fprintf(&sb, "| NAV | %+.2f%% | %+.2f |\n", c.Relative.NAV, c.Absolute.NAV)
	fmt.Fprintf(&sb, "| Dilution reduction | %+.2f%% | %+.4f |\n", c.Relative.Dilution, c.Absolute.Dilution)
	fmt.Fprintf(&sb, "| ROE | %+.2f%% | %+.4f |\n", c.Relative.ROE, c.Absolute.ROE)
	if c.Absolute.LTVBreach != nil {
		fmt.Fprintf(&sb, "| LTV breach reduction | | %+.4f |\n", *c.Absolute.LTVBreach)
	}
	if c.Absolute.Runway != nil {
		fmt.Fprintf(&sb, "| Runway (months) | | %+.1f |\n", *c.Absolute.Runway)
	}
	fmt.Fprintf(&sb, "\nLTV cap: %.2f\n", d.LTVCap)

	if len(d.Shortlist.Candidates) > 0 {
		sb.WriteString("\n## Shortlist\n\n| # | Structure | Score | Rank | Reason |\n|---|---|---|---|---|\n")
		for _, s := range d.Shortlist.Candidates {
			fmt.Fprintf(&sb, "| %d | %s | %.3f | %d | %s |\n", s.OriginalIndex, s.Structure(), s.Score, s.Rank, s.Reason)
		}
	}

	for _, ch := range d.Charts() {
		fmt.Fprintf(&sb, "\n## %s\n\n%s\n", ch.Title, ch.Mermaid)
	}
	return sb.String()
}
