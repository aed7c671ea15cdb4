package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"scenario-mcp/internal/report"
	"scenario-mcp/internal/selection"
	"scenario-mcp/internal/stats"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// AnalyticsConfig holds the engine knobs. Zero values fall back to the engine defaults.
type AnalyticsConfig struct {
	BinCount          int       `mapstructure:"bin_count"`
	Quantiles         []float64 `mapstructure:"quantiles"`
	LTVCap            float64   `mapstructure:"ltv_cap"`
	SelectionSize     int       `mapstructure:"selection_size"`
	PoolSize          int       `mapstructure:"pool_size"`
	StructurePriority []string  `mapstructure:"structure_priority"`
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string
	LogDir              string
	ReportDir           string
	EnableMermaidCharts bool
	Analytics           AnalyticsConfig
}

// Policy returns the selection policy described by the configuration.
func (a AnalyticsConfig) Policy() selection.Policy {
	p := selection.DefaultPolicy()
	if a.SelectionSize > 0 {
		p.Size = a.SelectionSize
	}
	if a.PoolSize > 0 {
		p.PoolSize = a.PoolSize
	}
	if len(a.StructurePriority) > 0 {
		p.Priority = append([]string(nil), a.StructurePriority...)
	}
	return p
}

// ReportOptions returns dashboard options for the configuration, picking the default
// candidate.
func (a AnalyticsConfig) ReportOptions() report.Options {
	return report.Options{
		Quantiles: a.Quantiles,
		BinCount:  a.BinCount,
		LTVCap:    a.LTVCap,
		Policy:    a.Policy(),
	}
}

// Validate rejects settings the engine cannot honour.
func (a AnalyticsConfig) Validate() error {
	if a.BinCount < 0 {
		return fmt.Errorf("bin_count must be >= 0, got %d", a.BinCount)
	}
	if a.LTVCap < 0 {
		return fmt.Errorf("ltv_cap must be >= 0, got %v", a.LTVCap)
	}
	for _, q := range a.Quantiles {
		if math.IsNaN(q) || q < 0 || q > 1 {
			return fmt.Errorf("quantiles: %w: %v", stats.ErrInvalidQuantile, q)
		}
	}
	return nil
}

// Load loads the configuration from .env files, environment variables and the optional
// analytics YAML file.
func Load() (*AppConfig, error) {
	// 1. .env next to the binary, then in the working directory
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
	}
	cwd, _ := os.Getwd()
	loadDotEnv(exeDir, cwd)

	// 2. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := getEnv("LOGS_FOLDER", filepath.Join(dataPath, "logs"))
	reportDir := getEnv("REPORT_DIR", filepath.Join(dataPath, "reports"))

	if err := os.MkdirAll(reportDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", reportDir).Msg("Failed to create report directory")
	}

	// 3. Analytics knobs
	analyticsPath, explicit := os.LookupEnv("ANALYTICS_CONFIG")
	if !explicit {
		analyticsPath = filepath.Join(dataPath, "analytics.yaml")
	}
	analytics, err := LoadAnalytics(analyticsPath, explicit)
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		ReportDir:           reportDir,
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", true),
		Analytics:           analytics,
	}, nil
}

// loadDotEnv loads the .env file of each directory in order. godotenv never overrides a
// variable that is already set, so earlier directories take precedence.
func loadDotEnv(dirs ...string) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		envPath := filepath.Join(dir, ".env")
		if err := godotenv.Load(envPath); err != nil {
			log.Debug().Str("path", envPath).Msg("No .env file loaded")
			continue
		}
		log.Debug().Str("path", envPath).Msg("Loaded configuration from .env")
	}
}

// LoadAnalytics reads the analytics YAML file at path, applying ANALYTICS_* environment
// overrides. A missing file is only an error when required is set.
func LoadAnalytics(path string, required bool) (AnalyticsConfig, error) {
	v := viper.New()
	v.SetDefault("bin_count", stats.DefaultBinCount)
	v.SetDefault("quantiles", stats.DefaultQuantiles())
	v.SetDefault("ltv_cap", report.DefaultLTVCap)
	v.SetDefault("selection_size", selection.DefaultSize)
	v.SetDefault("pool_size", selection.DefaultPoolSize)
	v.SetDefault("structure_priority", selection.DefaultPriority())
	v.SetEnvPrefix("ANALYTICS")
	v.AutomaticEnv()

	if path != "" {
		_, statErr := os.Stat(path)
		switch {
		case statErr == nil:
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return AnalyticsConfig{}, fmt.Errorf("error reading analytics config %s: %w", path, err)
			}
			log.Debug().Str("path", path).Msg("Loaded analytics configuration")
		case errors.Is(statErr, fs.ErrNotExist) && !required:
			log.Debug().Str("path", path).Msg("No analytics configuration file, using defaults")
		default:
			return AnalyticsConfig{}, fmt.Errorf("analytics config %s: %w", path, statErr)
		}
	}

	var cfg AnalyticsConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AnalyticsConfig{}, fmt.Errorf("unable to decode analytics config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return AnalyticsConfig{}, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
