package main

import (
	"fmt"
	"os"

	"godeviate/domain/core"
	"godeviate/internal"
	"godeviate/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorPrefix(err), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "godeviate",
		Short: "Score KPI spreadsheets and flag employees far from their group",
		Long: `godeviate reads a KPI spreadsheet (CSV or XLSX), computes a weighted final
score per employee, position and company, and classifies each score by its
z-score within the chosen group.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newServeCmd(),
		newGenerateCmd(),
	)
	return rootCmd
}

// loadConfig reads configuration and builds the logger it asks for
func loadConfig() (*config.Config, *internal.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level)), nil
}

// errorPrefix tells a bad file apart from a failure of the tool itself
func errorPrefix(err error) string {
	switch {
	case core.IsSchemaError(err):
		return "schema error:"
	case core.IsInputError(err):
		return "input error:"
	default:
		return "error:"
	}
}
