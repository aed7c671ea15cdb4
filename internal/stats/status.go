package stats

// Status tells a caller whether a summary is available and, when it is not, why.
// Anything but StatusOK is a recoverable outcome to be shown as a placeholder.
type Status string

const (
	StatusOK               Status = "ok"
	StatusNoData           Status = "no_data"
	StatusEquityOnly       Status = "equity_only"
	StatusConstant         Status = "constant_value"
	StatusInsufficientData Status = "insufficient_data"
)

// Available reports whether the summary carries computed values.
func (s Status) Available() bool {
	return s == StatusOK
}

// Message is the explanatory placeholder a renderer shows instead of a chart.
func (s Status) Message() string {
	switch s {
	case StatusOK:
		return ""
	case StatusNoData:
		return "No data available for this metric."
	case StatusEquityOnly:
		return "Equity-only structure: no leverage, so there is no loan-to-value risk."
	case StatusConstant:
		return "Every simulated path produced the same value."
	case StatusInsufficientData:
		return "Not enough distinct values to summarize the distribution."
	default:
		return string(s)
	}
}
