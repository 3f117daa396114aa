package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"godeviate/internal/testkit"

	"github.com/spf13/cobra"
)

type generateOptions struct {
	out    string
	format string
	config testkit.KPIGeneratorConfig
}

func newGenerateCmd() *cobra.Command {
	opts := generateOptions{config: testkit.DefaultKPIConfig()}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic KPI spreadsheet with planted outliers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.out, "out", "kpi_sample.xlsx", "output path")
	f.StringVar(&opts.format, "format", "", "csv or xlsx (default: from --out extension)")
	f.IntVar(&opts.config.Employees, "employees", opts.config.Employees, "number of employees")
	f.IntVar(&opts.config.Companies, "companies", opts.config.Companies, "number of companies")
	f.IntVar(&opts.config.Positions, "positions", opts.config.Positions, "number of positions")
	f.IntVar(&opts.config.KPIsPerEmployee, "kpis", opts.config.KPIsPerEmployee, "KPI rows per employee")
	f.Float64Var(&opts.config.OutlierRate, "outlier-rate", opts.config.OutlierRate, "share of outlier employees")
	f.Float64Var(&opts.config.BlankRate, "blank-rate", opts.config.BlankRate, "share of blank realization cells")
	f.Int64Var(&opts.config.Seed, "seed", opts.config.Seed, "random seed")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOptions) error {
	format := strings.ToLower(opts.format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.out)), ".")
	}

	table, err := testkit.NewKPIGenerator(opts.config).Generate()
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		err = testkit.WriteCSV(opts.out, table)
	case "xlsx":
		err = testkit.WriteXLSX(opts.out, table)
	default:
		return fmt.Errorf("unsupported format %q (use csv or xlsx)", format)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows for %d employees to %s\n",
		len(table.Rows), opts.config.Employees, opts.out)
	return nil
}
