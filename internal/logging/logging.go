package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the rotating log file written inside the log directory.
const FileName = "scenario-mcp.log"

// Init installs the global logger with two sinks: stderr and a rotating file.
// Stdout is left alone because the MCP stdio transport owns it.
func Init(verbose bool) {
	// Init runs before config.Load, so LOGS_FOLDER may only be known from the binary's .env.
	exePath, exeErr := os.Executable()
	if exeErr == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		if exeErr == nil {
			logDir = filepath.Join(filepath.Dir(exePath), "logs")
		} else {
			logDir = "logs"
		}
	}

	fileWriter, err := NewFileWriter(logDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Logger = New(consoleWriter(os.Stderr), fileWriter)
}

// New builds a timestamped logger fanning out to every writer.
func New(writers ...io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()
}

// NewFileWriter returns a rotating writer for FileName inside logDir, creating the
// directory and checking it accepts writes.
func NewFileWriter(logDir string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}

	probe := filepath.Join(logDir, ".write-test")
	if err := os.WriteFile(probe, []byte("test"), 0644); err != nil {
		return nil, fmt.Errorf("log directory %q is not writable: %w", logDir, err)
	}
	_ = os.Remove(probe)

	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, FileName),
		MaxSize:    16, // megabytes
		MaxBackups: 32,
		MaxAge:     365, // days
		Compress:   true,
	}, nil
}

func consoleWriter(out *os.File) zerolog.ConsoleWriter {
	isTerminal := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}
}
