package commands

import (
	"fmt"
	"io"
	"strings"

	"scenario-mcp/internal/compare"
	"scenario-mcp/internal/report"
	"scenario-mcp/internal/selection"
	"scenario-mcp/internal/stats"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	headerStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Width(22)
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

func signed(v float64, unit string) string {
	s := fmt.Sprintf("%+.2f%s", v, unit)
	switch {
	case v > 0:
		return goodStyle.Render(s)
	case v < 0:
		return badStyle.Render(s)
	}
	return s
}

func printShortlist(w io.Writer, r selection.SelectionResult) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Shortlist (top %d considered)", r.PoolSize)))
	if len(r.Candidates) == 0 {
		fmt.Fprintln(w, faintStyle.Render("  no candidates"))
		return
	}
	for _, c := range r.Candidates {
		fmt.Fprintf(w, "  #%-3d %s score %8.3f  rank %-3d %s\n",
			c.OriginalIndex, labelStyle.Render(c.Structure()), c.Score, c.Rank, faintStyle.Render(c.Reason))
	}
}

func printComparison(w io.Writer, c compare.Comparison) {
	fmt.Fprintln(w, headerStyle.Render(c.Label+" vs baseline"))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("NAV"), signed(c.Relative.NAV, "%"))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Dilution reduction"), signed(c.Relative.Dilution, "%"))
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("ROE"), signed(c.Relative.ROE, "%"))
	if c.Absolute.LTVBreach != nil {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("LTV breach reduction"), signed(*c.Absolute.LTVBreach*100, "pp"))
	}
	if c.Absolute.Runway != nil {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Runway"), signed(*c.Absolute.Runway, " months"))
	}
}

func printPanel(w io.Writer, p report.Panel) {
	fmt.Fprintln(w, headerStyle.Render(p.Label))

	nav := p.NAV.Status.Message()
	if p.NAV.Status.Available() {
		last := p.NAV.Bands[len(p.NAV.Bands)-1]
		var parts []string
		for _, q := range p.NAV.Quantiles {
			if v, ok := last.Value(q); ok {
				parts = append(parts, fmt.Sprintf("%s %.4g", stats.QuantileLabel(q), v))
			}
		}
		nav = fmt.Sprintf("step %d: %s", last.Step, strings.Join(parts, ", "))
	}
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("NAV"), nav)

	ltv := p.LTV.Status.Message()
	if p.LTV.BreachProbability != nil {
		ltv = fmt.Sprintf("breach %.1f%% at cap %.2f (%s)", *p.LTV.BreachProbability*100, p.LTV.Threshold, p.LTV.Status)
	}
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Terminal LTV"), ltv)

	dil := p.Dilution.Status.Message()
	if b := p.Dilution.Box; b != nil {
		dil = fmt.Sprintf("median %.4f, IQR %.4f [%.4f, %.4f]", b.Median, b.IQR, b.Min, b.Max)
	}
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Dilution"), dil)

	if len(p.PathsFrom) > 0 {
		var notes []string
		for _, metric := range []string{report.MetricNAV, report.MetricLTV, report.MetricDilution} {
			if src, ok := p.PathsFrom[metric]; ok {
				notes = append(notes, metric+" from "+src)
			}
		}
		fmt.Fprintf(w, "  %s\n", faintStyle.Render("paths: "+strings.Join(notes, ", ")))
	}
}

func printDashboard(w io.Writer, d *report.Dashboard) {
	fmt.Fprintln(w, titleStyle.Render("Scenario Report"))
	fmt.Fprintln(w)
	printComparison(w, d.Comparison)
	fmt.Fprintln(w)
	printShortlist(w, d.Shortlist)
	fmt.Fprintln(w)
	printPanel(w, d.Baseline)
	fmt.Fprintln(w)
	printPanel(w, d.Subject)
	if d.Runway.Baseline != nil && d.Runway.Baseline.DistMean != nil {
		fmt.Fprintln(w)
		runway := fmt.Sprintf("baseline %.1f months", *d.Runway.Baseline.DistMean)
		if d.Runway.Subject != nil && d.Runway.Subject.DistMean != nil {
			runway += fmt.Sprintf(", %s %.1f months", d.Subject.Label, *d.Runway.Subject.DistMean)
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Runway"), runway)
	}
	if len(d.Pareto) > 0 {
		var front []string
		for _, c := range d.Pareto {
			front = append(front, fmt.Sprintf("#%d %s", c.OriginalIndex, c.Structure()))
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Pareto frontier"), strings.Join(front, ", "))
	}
}
