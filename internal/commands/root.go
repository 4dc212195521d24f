package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankflow/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "bankflow",
		Short:   "Bank statement import, categorization and IIF export",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("log-level", "", "log level (overrides bankflow.yaml)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json (overrides bankflow.yaml)")

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(),
		newCheckCommand(),
		newInsightsCommand(),
		newRulesCommand(),
	)

	return rootCmd
}
