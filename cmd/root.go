package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/datbolt/dbmigrate/logger"
)

var (
	// Default values may be set at compile time.
	version          = "0.3.0"
	buildDate        = "2025-11-04T10:12+0000"
	logLevel         string
	stackDumpOnPanic bool
)

var rootCmd = &cobra.Command{
	Use: "dbmigrate",
	Long: `dbmigrate moves DAT-Bolt data from the hosted source backend into the
managed Postgres target. It synthesizes the users table from profile and
audit-report rows, copies each table in a fixed dependency order using
batched conflict-skip inserts, verifies row counts and writes a JSON run
report. Re-running against a partially populated target is safe: existing
rows are skipped, never updated.`,
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info",
		"Log level: \"error | warn | info | debug | trace\"")
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump on errors")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Execute() prints the error.
		os.Exit(1)
	}
}

func newLogger() logger.Logger {
	return logger.NewLogger("dbmigrate", logLevel, stackDumpOnPanic)
}
