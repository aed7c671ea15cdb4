package commands

import (
	"encoding/json"
	"fmt"

	"scenario-mcp/internal/scenario"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of scenario documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(scenario.Schema(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <scenario.json>...",
	Short: "Validate scenario documents against the schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			res, err := loadArg(path)
			if err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", badStyle.Render("✗"), path, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d candidates)\n", goodStyle.Render("✓"), path, len(res.Candidates))
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d documents are invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd, validateCmd)
}
