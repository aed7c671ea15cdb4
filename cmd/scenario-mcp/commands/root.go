package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"scenario-mcp/internal/config"
	"scenario-mcp/internal/logging"
	"scenario-mcp/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "scenario-mcp",
	Short: "Scenario analytics and candidate selection over simulation results",
	Long: `An MCP Server and CLI that turn baseline and optimized financing simulation results into
fan charts, threshold-aware histograms, box statistics, a diversified candidate short-list and
baseline comparisons.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("command", cmd.Name()).
			Msg("scenario-mcp starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := mcp.NewServer(cfg, Version)
		if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		log.Info().Msg("MCP Server stopped")
		return nil
	},
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
