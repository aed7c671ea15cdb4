package mcp

import "github.com/modelcontextprotocol/go-sdk/mcp"

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "analyze_fan_chart",
		Description: "Quantile fan chart of a simulated metric across the horizon. " +
			"Reads 'nav' (default), 'ltv' or 'dilution' paths from a scenario file, optionally from one candidate, " +
			"or takes an inline matrix (paths x steps) or series. A flat series collapses to a single band.",
	}, s.handleFanChart)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "analyze_histogram",
		Description: "Threshold-aware histogram of terminal values (LTV by default). " +
			"Bins at or above the threshold are flagged as breaches and the breach probability is reported. " +
			"The threshold defaults to the candidate's ltv_cap, then the configured LTV cap. " +
			"All-zero samples report 'equity_only' (no leverage) and constant samples report 'constant_value'.",
	}, s.handleHistogram)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "analyze_box_stats",
		Description: "Five-number summary (min, q1, median, q3, max, iqr, mean) of terminal values, " +
			"dilution by default. Fewer than two distinct values report 'insufficient_data'.",
	}, s.handleBoxStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "select_candidates",
		Description: "Score and short-list the candidates of an optimized result. " +
			"The short-list walks a structure-priority list (Loan, Convertible, PIPE, ATM, Hybrid) over the top-ranked pool " +
			"so that different financing mechanisms are represented, then fills by score. " +
			"Also returns the full ranking and the Pareto frontier on NAV, ROE and dilution.",
	}, s.handleSelect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "compare_scenarios",
		Description: "Percentage deltas of NAV, dilution (reduction is positive) and ROE between the baseline and a candidate. " +
			"Without a candidate the default short-list pick is used, or the optimized aggregate when there are no candidates.",
	}, s.handleCompare)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "build_report",
		Description: "Assemble the full scenario dashboard (fan chart, LTV histogram, dilution box, runway, " +
			"ranking, short-list, Pareto frontier and comparison). Optionally writes an HTML export to REPORT_DIR.",
	}, s.handleBuildReport)
}
