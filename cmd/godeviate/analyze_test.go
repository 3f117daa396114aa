package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"godeviate/adapters/export"
	"godeviate/domain/core"
	"godeviate/domain/kpi"
	"godeviate/internal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `NIPP PEKERJA,POSISI PEKERJA,PERUSAHAAN,BOBOT,REALISASI TW TERKAIT,TARGET TW TERKAIT,POLARITAS
E1,Analyst,PT A,60,110,100,positive
E1,Analyst,PT A,40,90,100,negative
E2,Analyst,PT A,100,80,100,positif
E3,Manager,PT B,100,95,100,positif
`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kpi.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func defaultOptions() analyzeOptions {
	return analyzeOptions{Level: "company", Format: formatTable, Threshold: kpi.DefaultThreshold}
}

func TestAnalyzeWritesExports(t *testing.T) {
	input := writeInput(t, sampleCSV)
	dir := filepath.Dir(input)
	opts := defaultOptions()
	opts.XLSX = filepath.Join(dir, "out.xlsx")
	opts.Plot = filepath.Join(dir, "out.png")

	var out bytes.Buffer
	require.NoError(t, runAnalyze(&out, internal.NewNopLogger(), input, opts))

	csvPath := filepath.Join(dir, "kpi_deviasi.csv")
	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := export.ReadCSV(f)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "E1", rows[0].EmployeeID)
	assert.InDelta(t, 110.444444, rows[0].FinalScore, 1e-5)
	assert.Equal(t, kpi.ClassUndefined, rows[2].Classification)

	assert.FileExists(t, opts.XLSX)
	assert.FileExists(t, opts.Plot)

	text := out.String()
	assert.Contains(t, text, "NIPP PEKERJA")
	assert.Contains(t, text, "110.44")
	assert.Contains(t, text, "3 employees grouped by company")
}

func TestAnalyzeFormats(t *testing.T) {
	input := writeInput(t, sampleCSV)

	opts := defaultOptions()
	opts.Out = filepath.Join(t.TempDir(), "x.csv")
	opts.Format = "json"
	var out bytes.Buffer
	require.NoError(t, runAnalyze(&out, internal.NewNopLogger(), input, opts))
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, "company", payload["level"])

	opts.Format = "csv"
	out.Reset()
	require.NoError(t, runAnalyze(&out, internal.NewNopLogger(), input, opts))
	assert.True(t, strings.HasPrefix(out.String(), strings.Join(kpi.OutputColumns, ",")))

	opts.Format = "markdown"
	opts.Level = "position"
	out.Reset()
	require.NoError(t, runAnalyze(&out, internal.NewNopLogger(), input, opts))
	assert.Contains(t, out.String(), "- Grouped by: position (POSISI PEKERJA)")
}

func TestAnalyzeErrors(t *testing.T) {
	input := writeInput(t, sampleCSV)

	opts := defaultOptions()
	opts.Level = "division"
	err := runAnalyze(&bytes.Buffer{}, internal.NewNopLogger(), input, opts)
	assert.ErrorIs(t, err, core.ErrInvalidLevel)

	opts = defaultOptions()
	opts.Format = "yaml"
	assert.Error(t, runAnalyze(&bytes.Buffer{}, internal.NewNopLogger(), input, opts))

	broken := writeInput(t, "NIPP PEKERJA,BOBOT\nE1,10\n")
	err = runAnalyze(&bytes.Buffer{}, internal.NewNopLogger(), broken, defaultOptions())
	require.Error(t, err)
	assert.True(t, core.IsSchemaError(err))
	assert.Contains(t, err.Error(), "POSISI PEKERJA")
	assert.NoFileExists(t, filepath.Join(filepath.Dir(broken), "kpi_deviasi.csv"))

	err = runAnalyze(&bytes.Buffer{}, internal.NewNopLogger(), "missing.csv", defaultOptions())
	assert.Error(t, err)
}

func TestDefaultExportPath(t *testing.T) {
	assert.Equal(t, "data/kpi_deviasi.csv", defaultExportPath("data/kpi.xlsx"))
	assert.Equal(t, "kpi_deviasi.csv", defaultExportPath("kpi"))
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"analyze", "serve", "generate"}, names)
}

func TestGenerateThenAnalyze(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sample.xlsx")

	root := newRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetArgs([]string{"generate", "--out", input, "--employees", "12", "--seed", "3"})
	require.NoError(t, root.Execute())
	assert.Contains(t, stdout.String(), "for 12 employees")

	opts := defaultOptions()
	opts.Out = filepath.Join(dir, "result.csv")
	var out bytes.Buffer
	require.NoError(t, runAnalyze(&out, internal.NewNopLogger(), input, opts))

	f, err := os.Open(opts.Out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := export.ReadCSV(f)
	require.NoError(t, err)
	assert.Len(t, rows, 12)
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"generate", "--out", filepath.Join(t.TempDir(), "sample.txt")})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestErrorPrefix(t *testing.T) {
	missing := writeInput(t, "NIPP PEKERJA,BOBOT\nE1,10\n")
	err := runAnalyze(&bytes.Buffer{}, internal.NewNopLogger(), missing, defaultOptions())
	require.Error(t, err)
	assert.Equal(t, "schema error:", errorPrefix(err))

	empty := writeInput(t, "")
	err = runAnalyze(&bytes.Buffer{}, internal.NewNopLogger(), empty, defaultOptions())
	require.Error(t, err)
	assert.Equal(t, "input error:", errorPrefix(err))

	err = runAnalyze(&bytes.Buffer{}, internal.NewNopLogger(), filepath.Join(t.TempDir(), "kpi.json"), defaultOptions())
	require.Error(t, err)
	assert.Equal(t, "input error:", errorPrefix(err))

	assert.Equal(t, "error:", errorPrefix(os.ErrPermission))
}
