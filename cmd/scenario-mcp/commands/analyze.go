package commands

import (
	"path/filepath"
	"time"

	"scenario-mcp/internal/htmlreport"
	"scenario-mcp/internal/report"
	"scenario-mcp/internal/scenario"
	"scenario-mcp/internal/selection"

	"github.com/k0kubun/pp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	pick       int
	dump       bool
	writeHTML  bool
	openHTML   bool
	markdown   bool
	selectSize int
)

// pickFlag returns the --pick value when the flag was given.
func pickFlag(cmd *cobra.Command) *int {
	if !cmd.Flags().Changed("pick") {
		return nil
	}
	p := pick
	return &p
}

// loadArg resolves a relative scenario path against DATA_PATH when it is not found as given.
func loadArg(path string) (*scenario.ScenarioResult, error) {
	res, err := scenario.LoadFile(path)
	if err == nil || filepath.IsAbs(path) {
		return res, err
	}
	if alt, altErr := scenario.LoadFile(filepath.Join(cfg.DataPath, path)); altErr == nil {
		return alt, nil
	}
	return nil, err
}

var reportCmd = &cobra.Command{
	Use:   "report <baseline.json> <optimized.json>",
	Short: "Build the scenario dashboard",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseline, err := loadArg(args[0])
		if err != nil {
			return err
		}
		optimized, err := loadArg(args[1])
		if err != nil {
			return err
		}

		opts := cfg.Analytics.ReportOptions()
		opts.Pick = pickFlag(cmd)
		d, err := report.Build(cmd.Context(), baseline, optimized, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case dump:
			pp.Fprintln(out, d)
		case markdown:
			_, _ = out.Write([]byte(report.Markdown(d)))
		default:
			printDashboard(out, d)
		}

		if writeHTML || openHTML {
			path, err := htmlreport.Write(cfg.ReportDir, d, time.Now())
			if err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("HTML report written")
			if openHTML {
				if err := htmlreport.Open(path); err != nil {
					log.Warn().Err(err).Msg("Failed to open browser")
				}
			}
		}
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <optimized.json>",
	Short: "Score and short-list the candidates of an optimized result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		optimized, err := loadArg(args[0])
		if err != nil {
			return err
		}
		policy := cfg.Analytics.Policy()
		if selectSize > 0 {
			policy.Size = selectSize
		}
		r := selection.Select(optimized.Candidates, policy)
		if dump {
			pp.Fprintln(cmd.OutOrStdout(), r)
			return nil
		}
		printShortlist(cmd.OutOrStdout(), r)
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare <baseline.json> <optimized.json>",
	Short: "Compare a candidate, or the default pick, against the baseline",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseline, err := loadArg(args[0])
		if err != nil {
			return err
		}
		optimized, err := loadArg(args[1])
		if err != nil {
			return err
		}
		c, err := report.Compare(baseline, optimized, cfg.Analytics.Policy(), pickFlag(cmd))
		if err != nil {
			return err
		}
		if dump {
			pp.Fprintln(cmd.OutOrStdout(), c)
			return nil
		}
		printComparison(cmd.OutOrStdout(), c)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{reportCmd, selectCmd, compareCmd} {
		c.Flags().BoolVar(&dump, "dump", false, "pretty-print the raw result records")
	}
	reportCmd.Flags().IntVar(&pick, "pick", 0, "original_index of the candidate to feature")
	compareCmd.Flags().IntVar(&pick, "pick", 0, "original_index of the candidate to compare")
	reportCmd.Flags().BoolVar(&markdown, "markdown", false, "print Markdown with Mermaid charts")
	reportCmd.Flags().BoolVar(&writeHTML, "html", false, "write an HTML export to REPORT_DIR")
	reportCmd.Flags().BoolVar(&openHTML, "open", false, "write the HTML export and open it in a browser")
	selectCmd.Flags().IntVar(&selectSize, "size", 0, "short-list size")

	rootCmd.AddCommand(reportCmd, selectCmd, compareCmd)
}
