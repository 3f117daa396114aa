package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"godeviate/adapters/chart"
	"godeviate/adapters/datareadiness/coercer"
	"godeviate/adapters/excel"
	"godeviate/adapters/export"
	"godeviate/domain/kpi"
	"godeviate/internal"
	"godeviate/internal/errors"
	"godeviate/internal/pipeline"

	"github.com/spf13/cobra"
)

// Output formats of the analyze command
const (
	formatTable    = "table"
	formatCSV      = "csv"
	formatJSON     = "json"
	formatMarkdown = "markdown"
)

type analyzeOptions struct {
	Level     string
	Out       string
	XLSX      string
	Plot      string
	Format    string
	Threshold float64
	Lenient   bool
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyse one KPI file and write the deviation table",
		Long: `Analyse one KPI file (.csv or .xlsx, first worksheet) and print the
deviation table. The CSV export is always written, next to the input unless
--out says otherwise.

Example: godeviate analyze kpi_q3.xlsx --level position --plot q3.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			flags := cmd.Flags()
			if !flags.Changed("level") {
				opts.Level = cfg.Analysis.Level
			}
			if !flags.Changed("threshold") {
				opts.Threshold = cfg.Analysis.Threshold
			}
			if !flags.Changed("lenient") {
				opts.Lenient = cfg.Analysis.LenientNumbers
			}
			return runAnalyze(cmd.OutOrStdout(), logger, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Level, "level", string(kpi.LevelCompany), "Grouping level: company or position")
	cmd.Flags().StringVar(&opts.Out, "out", "", "CSV export path (default: <input>_deviasi.csv)")
	cmd.Flags().StringVar(&opts.XLSX, "xlsx", "", "Also write an XLSX export with the group report")
	cmd.Flags().StringVar(&opts.Plot, "plot", "", "Also write the scatter chart as PNG")
	cmd.Flags().StringVar(&opts.Format, "format", formatTable, "Stdout format: table, csv, json or markdown")
	cmd.Flags().Float64Var(&opts.Threshold, "threshold", kpi.DefaultThreshold, "Absolute z-score beyond which a score is flagged")
	cmd.Flags().BoolVar(&opts.Lenient, "lenient", false, "Accept thousands separators, currency symbols and (negatives)")

	return cmd
}

func runAnalyze(w io.Writer, logger *internal.Logger, path string, opts analyzeOptions) error {
	level, err := kpi.ParseLevel(opts.Level)
	if err != nil {
		return errors.InvalidInput("unknown grouping level", err)
	}
	format := strings.ToLower(opts.Format)
	switch format {
	case formatTable, formatCSV, formatJSON, formatMarkdown:
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown format %q", opts.Format), nil)
	}

	reader := excel.NewDataReader(excel.DefaultReaderConfig(), logger)
	table, err := reader.ReadFile(path)
	if err != nil {
		return errors.InvalidInput(fmt.Sprintf("cannot read %s", path), err)
	}

	analyzer := pipeline.NewAnalyzer(coercer.CoercionConfig{Lenient: opts.Lenient}, logger, nil)
	result, err := analyzer.Run(table, level, opts.Threshold)
	if err != nil {
		return err
	}

	out := opts.Out
	if out == "" {
		out = defaultExportPath(path)
	}
	if err := export.WriteCSVFile(out, result.Rows); err != nil {
		return errors.Wrapf(err, "failed to write %s", out)
	}
	logger.Info("wrote %d rows to %s", len(result.Rows), out)

	if opts.XLSX != "" {
		if err := export.WriteXLSXFile(opts.XLSX, result); err != nil {
			return errors.Wrapf(err, "failed to write %s", opts.XLSX)
		}
		logger.Info("wrote workbook %s", opts.XLSX)
	}
	if opts.Plot != "" {
		if err := chart.SavePNG(opts.Plot, result.Rows, chart.DefaultOptions()); err != nil {
			return errors.Wrapf(err, "failed to write %s", opts.Plot)
		}
		logger.Info("wrote chart %s", opts.Plot)
	}

	return printResult(w, result, format)
}

func printResult(w io.Writer, result *pipeline.Result, format string) error {
	switch format {
	case formatCSV:
		return export.WriteCSV(w, result.Rows)
	case formatJSON:
		return export.WriteJSON(w, result)
	case formatMarkdown:
		_, err := w.Write(export.Markdown(result))
		return err
	default:
		fmt.Fprintln(w, renderTable(result.Rows))
		fmt.Fprintln(w, renderCounts(result))
		return nil
	}
}

// defaultExportPath puts the export next to the input: kpi.xlsx -> kpi_deviasi.csv
func defaultExportPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_deviasi.csv"
}
