package visuals

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"scenario-mcp/internal/compare"
	"scenario-mcp/internal/selection"
	"scenario-mcp/internal/stats"
)

// maxPoints is roughly where Mermaid's xychart starts overlapping axis labels.
const maxPoints = 60

// Placeholder is the line shown instead of a chart for an unavailable summary.
func Placeholder(title string, status stats.Status) string {
	return fmt.Sprintf("> **%s**: %s", title, status.Message())
}

// GenerateFanChart creates a Mermaid xychart-beta with one line per quantile over the
// simulation steps.
func GenerateFanChart(title string, chart stats.FanChart) string {
	if !chart.Status.Available() {
		return Placeholder(title, chart.Status)
	}

	var bands []stats.Band
	for _, b := range chart.Bands {
		if b.Count > 0 {
			bands = append(bands, b)
		}
	}

	// Subsample long horizons, always keeping the final step
	rate := 1
	if len(bands) > maxPoints {
		rate = int(math.Ceil(float64(len(bands)) / maxPoints))
	}

	var labels []string
	lines := make([][]string, len(chart.Quantiles))
	var all []float64
	for i, b := range bands {
		if i%rate != 0 && i != len(bands)-1 {
			continue
		}
		labels = append(labels, fmt.Sprintf("\"%d\"", b.Step))
		for qi, q := range chart.Quantiles {
			v, _ := b.Value(q)
			lines[qi] = append(lines[qi], formatValue(v))
			all = append(all, v)
		}
	}

	lo, hi := axisRange(all, false)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	fmt.Fprintf(&sb, "    title \"%s (%s)\"\n", title, quantileNames(chart.Quantiles))
	fmt.Fprintf(&sb, "    x-axis \"Step\" [%s]\n", strings.Join(labels, ", "))
	fmt.Fprintf(&sb, "    y-axis \"%s\" %s --> %s\n", title, formatValue(lo), formatValue(hi))
	for _, line := range lines {
		fmt.Fprintf(&sb, "    line [%s]\n", strings.Join(line, ", "))
	}
	sb.WriteString("```")
	return sb.String()
}

// GenerateHistogramChart creates a Mermaid bar chart of a histogram. Bins at or above the
// threshold are drawn as a second bar series.
func GenerateHistogramChart(title string, h stats.Histogram) string {
	if !h.Status.Available() {
		line := Placeholder(title, h.Status)
		if h.Value != nil {
			line += fmt.Sprintf(" (value %s)", formatValue(*h.Value))
		}
		return line
	}

	var labels, safe, breach []string
	maxCount := 0
	for _, b := range h.Bins {
		labels = append(labels, fmt.Sprintf("\"%s\"", formatValue(b.Lower)))
		if b.Breach {
			safe = append(safe, "0")
			breach = append(breach, strconv.Itoa(b.Count))
		} else {
			safe = append(safe, strconv.Itoa(b.Count))
			breach = append(breach, "0")
		}
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	prob := 0.0
	if h.BreachProbability != nil {
		prob = *h.BreachProbability
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	fmt.Fprintf(&sb, "    title \"%s (threshold %s, breach %.1f%%)\"\n", title, formatValue(h.Threshold), prob*100)
	fmt.Fprintf(&sb, "    x-axis [%s]\n", strings.Join(labels, ", "))
	fmt.Fprintf(&sb, "    y-axis \"Paths\" 0 --> %d\n", maxCount+int(math.Max(1, float64(maxCount)*0.2)))
	fmt.Fprintf(&sb, "    bar [%s]\n", strings.Join(safe, ", "))
	fmt.Fprintf(&sb, "    bar [%s]\n", strings.Join(breach, ", "))
	sb.WriteString("```")
	return sb.String()
}

// GenerateBoxChart creates a Mermaid bar chart of the five-number summary.
func GenerateBoxChart(title string, d stats.Dispersion) string {
	if !d.Status.Available() || d.Box == nil {
		return Placeholder(title, d.Status)
	}
	b := d.Box
	values := []float64{b.Min, b.Q1, b.Median, b.Q3, b.Max}
	formatted := make([]string, len(values))
	for i, v := range values {
		formatted[i] = formatValue(v)
	}
	lo, hi := axisRange(values, true)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	fmt.Fprintf(&sb, "    title \"%s (IQR %s, mean %s)\"\n", title, formatValue(b.IQR), formatValue(b.Mean))
	sb.WriteString("    x-axis [\"Min\", \"Q1\", \"Median\", \"Q3\", \"Max\"]\n")
	fmt.Fprintf(&sb, "    y-axis \"%s\" %s --> %s\n", title, formatValue(lo), formatValue(hi))
	fmt.Fprintf(&sb, "    bar [%s]\n", strings.Join(formatted, ", "))
	sb.WriteString("```")
	return sb.String()
}

// GenerateCandidateChart creates a Mermaid bar chart of candidate scores in the given order.
func GenerateCandidateChart(title string, scored []selection.Scored) string {
	if len(scored) == 0 {
		return Placeholder(title, stats.StatusNoData)
	}

	var labels, values []string
	scores := make([]float64, 0, len(scored))
	for _, s := range scored {
		// Spaces confuse the axis parser
		name := strings.ReplaceAll(s.Structure(), " ", "_")
		labels = append(labels, fmt.Sprintf("\"#%d %s\"", s.OriginalIndex, name))
		values = append(values, formatValue(s.Score))
		scores = append(scores, s.Score)
	}
	lo, hi := axisRange(scores, true)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	fmt.Fprintf(&sb, "    title \"%s\"\n", title)
	fmt.Fprintf(&sb, "    x-axis [%s]\n", strings.Join(labels, ", "))
	fmt.Fprintf(&sb, "    y-axis \"Score\" %s --> %s\n", formatValue(lo), formatValue(hi))
	fmt.Fprintf(&sb, "    bar [%s]\n", strings.Join(values, ", "))
	sb.WriteString("```")
	return sb.String()
}

// GenerateDeltaChart creates a Mermaid bar chart of the relative deltas of a comparison.
func GenerateDeltaChart(c compare.Comparison) string {
	values := []float64{c.Relative.NAV, c.Relative.Dilution, c.Relative.ROE}
	lo, hi := axisRange(values, true)

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	fmt.Fprintf(&sb, "    title \"%s vs baseline (%%)\"\n", c.Label)
	sb.WriteString("    x-axis [\"NAV\", \"Dilution reduction\", \"ROE\"]\n")
	fmt.Fprintf(&sb, "    y-axis \"Delta (%%)\" %s --> %s\n", formatValue(lo), formatValue(hi))
	fmt.Fprintf(&sb, "    bar [%s, %s, %s]\n", formatValue(values[0]), formatValue(values[1]), formatValue(values[2]))
	sb.WriteString("```")
	return sb.String()
}

// axisRange pads the value range by 10%. With includeZero the range always spans 0 so
// bars grow from the axis.
func axisRange(values []float64, includeZero bool) (float64, float64) {
	if len(values) == 0 {
		return 0, 1
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if includeZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = math.Max(math.Abs(hi)*0.1, 1)
	}
	if lo != 0 || !includeZero {
		lo -= pad
	}
	return lo, hi + pad
}

func quantileNames(qs []float64) string {
	names := make([]string, len(qs))
	for i, q := range qs {
		names[i] = stats.QuantileLabel(q)
	}
	return strings.Join(names, "/")
}

// formatValue rounds to four decimals and drops trailing zeros.
func formatValue(v float64) string {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		r = 0 // no "-0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
