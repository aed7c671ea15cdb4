package htmlreport

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scenario-mcp/internal/report"
	"scenario-mcp/internal/scenario"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboard(t *testing.T) *report.Dashboard {
	t.Helper()
	baseline, err := scenario.LoadFile(filepath.Join("..", "testdata", "baseline.json"))
	require.NoError(t, err)
	optimized, err := scenario.LoadFile(filepath.Join("..", "testdata", "optimized.json"))
	require.NoError(t, err)

	d, err := report.Build(context.Background(), baseline, optimized, report.Options{})
	require.NoError(t, err)
	return d
}

func TestMinify(t *testing.T) {
	out, err := Minify(bootstrapScript)
	require.NoError(t, err)
	assert.Less(t, len(out), len(bootstrapScript))
	assert.Contains(t, out, "DOMContentLoaded")
	assert.Contains(t, out, "pre.mermaid")
}

func TestMinify_SyntaxError(t *testing.T) {
	_, err := Minify("function (")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	generated := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	data, err := Render(dashboard(t), "Scenario Report", generated)
	require.NoError(t, err)

	html := string(data)
	assert.Contains(t, html, "<title>Scenario Report</title>")
	assert.Contains(t, html, `<pre class="mermaid">xychart-beta`)
	assert.Contains(t, html, `<section id="baseline_nav">`)
	assert.Contains(t, html, `<p class="placeholder">`, "the subject has no NAV paths")
	assert.Contains(t, html, "2026-10-19T09:30:00Z")
	assert.Contains(t, html, MermaidURL)
}

func TestRender_NilDashboard(t *testing.T) {
	_, err := Render(nil, "x", time.Now())
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	generated := time.Date(2026, 10, 19, 9, 30, 5, 0, time.UTC)

	path, err := Write(dir, dashboard(t), generated)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scenario-report-20261019-093005.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
}

func TestDiagramBody(t *testing.T) {
	body, ok := diagramBody("```mermaid\nxychart-beta\n```")
	require.True(t, ok)
	assert.Equal(t, "xychart-beta\n", body)

	_, ok = diagramBody("> **NAV**: No data available for this metric.")
	assert.False(t, ok)
}
