package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_PATH", filepath.Join("..", "..", "..", "internal", "testdata"))
	t.Setenv("LOGS_FOLDER", filepath.Join(dir, "logs"))
	t.Setenv("REPORT_DIR", filepath.Join(dir, "reports"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		dump, markdown, writeHTML, openHTML = false, false, false, false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "object", schema["type"])
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", "baseline.json", "optimized.json")
	require.NoError(t, err)
	assert.Contains(t, out, "optimized.json (5 candidates)")

	_, err = run(t, "validate", "missing.json")
	assert.Error(t, err)
}

func TestSelectCommand(t *testing.T) {
	out, err := run(t, "select", "optimized.json")
	require.NoError(t, err)

	assert.Contains(t, out, "priority:Loan")
	assert.Contains(t, out, "priority:PIPE")
	assert.Equal(t, 3, strings.Count(out, "priority:"))
}

func TestReportCommand_Markdown(t *testing.T) {
	out, err := run(t, "report", "baseline.json", "optimized.json", "--markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Scenario Report"))
	assert.Contains(t, out, "```mermaid")
}

func TestCompareCommand_UnknownPick(t *testing.T) {
	_, err := run(t, "compare", "baseline.json", "optimized.json", "--pick", "99")
	assert.Error(t, err)
}
