package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// shutdownTimeout bounds graceful telemetry shutdown on exit.
const shutdownTimeout = 5 * time.Second

var (
	// Global flags
	dbPath     string
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "openmfg",
		Short: "OpenMFG - Manufacturing Operations Engine",
		Long: `OpenMFG models manufacturing facilities and validates production
jobs against the resources available on the shop floor.

Features:
  - Typed facility definitions via YAML
  - Requirement checking against location snapshots
  - Job and action lifecycle management
  - Per-job resource allocation ledger
  - SQLite-backed job persistence
  - Live reload of facility definitions`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "openmfg.db", "job database path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newJobsCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}
