package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"scenario-mcp/internal/report"
	"scenario-mcp/internal/selection"
	"scenario-mcp/internal/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetForTest clears keys for the duration of the test and restores them afterwards.
func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeDotEnv(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0644))
}

func TestLoadDotEnv_ExecutableDirWins(t *testing.T) {
	unsetForTest(t, "DATA_PATH", "LOGS_FOLDER", "REPORT_DIR")

	exeDir, cwd := t.TempDir(), t.TempDir()
	writeDotEnv(t, exeDir, "DATA_PATH=/from/exe\nREPORT_DIR='reports with \"quotes\"'\n")
	writeDotEnv(t, cwd, "DATA_PATH=/from/cwd\nLOGS_FOLDER=/from/cwd/logs\n")

	loadDotEnv(exeDir, "", cwd)

	assert.Equal(t, "/from/exe", os.Getenv("DATA_PATH"))
	assert.Equal(t, `reports with "quotes"`, os.Getenv("REPORT_DIR"))
	assert.Equal(t, "/from/cwd/logs", os.Getenv("LOGS_FOLDER"), "the working directory fills what the executable's .env leaves unset")
}

func TestLoadDotEnv_EnvironmentWins(t *testing.T) {
	t.Setenv("DATA_PATH", "/from/env")
	dir := t.TempDir()
	writeDotEnv(t, dir, "DATA_PATH=/from/file\n")

	loadDotEnv(dir)
	assert.Equal(t, "/from/env", os.Getenv("DATA_PATH"))
}

func TestLoad_WorkingDirectoryDotEnv(t *testing.T) {
	unsetForTest(t, "DATA_PATH", "LOGS_FOLDER", "REPORT_DIR", "ANALYTICS_CONFIG", "ENABLE_MERMAID_CHARTS")

	cwd := t.TempDir()
	data := filepath.Join(cwd, "data")
	writeDotEnv(t, cwd, "DATA_PATH="+data+"\nENABLE_MERMAID_CHARTS=false\n")
	t.Chdir(cwd)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, data, cfg.DataPath)
	assert.Equal(t, filepath.Join(data, "logs"), cfg.LogDir)
	assert.False(t, cfg.EnableMermaidCharts)
}

func TestLoadAnalytics_Defaults(t *testing.T) {
	cfg, err := LoadAnalytics(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, stats.DefaultBinCount, cfg.BinCount)
	assert.Equal(t, stats.DefaultQuantiles(), cfg.Quantiles)
	assert.Equal(t, report.DefaultLTVCap, cfg.LTVCap)
	assert.Equal(t, selection.DefaultPolicy(), cfg.Policy())

	opts := cfg.ReportOptions()
	assert.Nil(t, opts.Pick)
	assert.Equal(t, stats.DefaultBinCount, opts.BinCount)
}

func TestLoadAnalytics_MissingRequiredFile(t *testing.T) {
	_, err := LoadAnalytics(filepath.Join(t.TempDir(), "missing.yaml"), true)
	assert.Error(t, err)
}

func TestLoadAnalytics_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.yaml")
	content := `bin_count: 10
quantiles: [0.1, 0.5, 0.9]
ltv_cap: 0.65
selection_size: 2
structure_priority: [PIPE, ATM]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadAnalytics(path, true)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.BinCount)
	assert.Equal(t, []float64{0.1, 0.5, 0.9}, cfg.Quantiles)
	assert.Equal(t, 0.65, cfg.LTVCap)

	p := cfg.Policy()
	assert.Equal(t, 2, p.Size)
	assert.Equal(t, selection.DefaultPoolSize, p.PoolSize)
	assert.Equal(t, []string{"PIPE", "ATM"}, p.Priority)
}

func TestLoadAnalytics_EnvOverride(t *testing.T) {
	t.Setenv("ANALYTICS_BIN_COUNT", "7")
	t.Setenv("ANALYTICS_LTV_CAP", "0.4")

	cfg, err := LoadAnalytics("", false)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.BinCount)
	assert.Equal(t, 0.4, cfg.LTVCap)
}

func TestAnalyticsConfig_ValidateRejectsNaNQuantile(t *testing.T) {
	cfg := AnalyticsConfig{Quantiles: []float64{0.5, math.NaN()}}
	assert.ErrorIs(t, cfg.Validate(), stats.ErrInvalidQuantile)
}

func TestLoadAnalytics_RejectsNaNQuantileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quantiles: [0.5, .nan]\n"), 0644))

	_, err := LoadAnalytics(path, true)
	assert.ErrorIs(t, err, stats.ErrInvalidQuantile)
}

func TestLoadAnalytics_RejectsBadQuantile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quantiles: [0.5, 1.5]\n"), 0644))

	_, err := LoadAnalytics(path, true)
	assert.ErrorIs(t, err, stats.ErrInvalidQuantile)
}

func TestLoad_Directories(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("REPORT_DIR", filepath.Join(dir, "out"))
	t.Setenv("ENABLE_MERMAID_CHARTS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataPath)
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogDir)
	assert.DirExists(t, cfg.ReportDir)
	assert.False(t, cfg.EnableMermaidCharts)
	assert.Equal(t, stats.DefaultBinCount, cfg.Analytics.BinCount)
}
