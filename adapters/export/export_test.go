package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"godeviate/adapters/datareadiness/coercer"
	"godeviate/domain/dataset"
	"godeviate/domain/kpi"
	"godeviate/internal"
	"godeviate/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// sampleResult has one outlier group and one single-member group
func sampleResult(t *testing.T) *pipeline.Result {
	t.Helper()
	table := &dataset.Table{Source: "kpi.csv", Headers: kpi.RequiredColumns}
	add := func(id, position, company, weight, realized, target, polarity string) {
		table.Rows = append(table.Rows, dataset.RawRow{
			kpi.ColEmployeeID: id,
			kpi.ColPosition:   position,
			kpi.ColCompany:    company,
			kpi.ColWeight:     weight,
			kpi.ColRealized:   realized,
			kpi.ColTarget:     target,
			kpi.ColPolarity:   polarity,
		})
	}
	for i := 1; i <= 9; i++ {
		add("E"+strconv.Itoa(i), "Analyst", "PT A", "100", "100", "100", "positive")
	}
	add("E10", "Analyst", "PT A", "100", "200", "100", "positive")
	add("E11", "Manager, \"Ops\"", "PT B", "60", "110", "100", "positive")
	add("E11", "Manager, \"Ops\"", "PT B", "40", "90", "100", "negatif")

	analyzer := pipeline.NewAnalyzer(coercer.DefaultCoercionConfig(), internal.NewNopLogger(), nil)
	res, err := analyzer.Run(table, kpi.LevelCompany, kpi.DefaultThreshold)
	require.NoError(t, err)
	require.Len(t, res.Rows, 11)
	return res
}

func TestCSVRoundTrip(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res.Rows))

	got, err := ReadCSV(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, Rows(res.Rows), got)

	// undefined std and z survive as undefined, not zero
	last := got[len(got)-1]
	assert.Equal(t, "E11", last.EmployeeID)
	assert.False(t, last.GroupStdDev.IsDefined())
	assert.False(t, last.ZScore.IsDefined())
	assert.Equal(t, kpi.ClassUndefined, last.Classification)
}

func TestCSVLayout(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res.Rows))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")

	require.Len(t, lines, 12)
	assert.Equal(t, "NIPP PEKERJA,POSISI PEKERJA,PERUSAHAAN,SKOR AKHIR,DEV_GROUP,STD_GROUP,Z_SCORE,ANOMALI", lines[0])
	assert.Equal(t, "E1,Analyst,PT A,100,110,31.622776601683793,-0.31622776601683794,Normal", lines[1])
	assert.True(t, strings.HasPrefix(lines[11], `E11,"Manager, ""Ops""",PT B,110.44444444444446,110.44444444444446,,,Undefined`), lines[11])
}

func TestWriteCSVFile(t *testing.T) {
	res := sampleResult(t)
	path := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, WriteCSVFile(path, res.Rows))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, res.Rows))
	got, err := ReadCSV(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, got, 11)
}

func TestReadCSVRejectsForeignFiles(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "A,B,C,D,E,F,G,H\n"},
		{"short header", "NIPP PEKERJA,POSISI PEKERJA\n"},
		{"bad score", "NIPP PEKERJA,POSISI PEKERJA,PERUSAHAAN,SKOR AKHIR,DEV_GROUP,STD_GROUP,Z_SCORE,ANOMALI\nE1,A,B,x,,,,Undefined\n"},
		{"bad label", "NIPP PEKERJA,POSISI PEKERJA,PERUSAHAAN,SKOR AKHIR,DEV_GROUP,STD_GROUP,Z_SCORE,ANOMALI\nE1,A,B,1,,,,Outlier\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestWriteXLSX(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetDeviations, SheetGroups}, f.GetSheetList())

	rows, err := f.GetRows(SheetDeviations, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 12)
	assert.Equal(t, kpi.OutputColumns, rows[0])
	assert.Equal(t, []string{"E10", "Analyst", "PT A", "200", "110", "31.622776601683793", "2.8460498941515415", "Above Normal"}, rows[10])
	assert.Equal(t, "", rows[11][5])
	assert.Equal(t, "Undefined", rows[11][7])

	groups, err := f.GetRows(SheetGroups, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "GRUP", groups[0][0])
	assert.Equal(t, "Undefined", groups[0][len(groups[0])-1])
	assert.Equal(t, []string{"PT A", "10"}, groups[1][:2])
	assert.Equal(t, "PT B", groups[2][0])
}

func TestWriteXLSXFile(t *testing.T) {
	res := sampleResult(t)
	path := filepath.Join(t.TempDir(), "out.xlsx")

	require.NoError(t, WriteXLSXFile(path, res))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), SheetGroups)
}

func TestMarkdown(t *testing.T) {
	res := sampleResult(t)
	md := string(Markdown(res))

	assert.Contains(t, md, "# Deviation report: kpi.csv")
	assert.Contains(t, md, "- Grouped by: company (PERUSAHAAN)")
	assert.Contains(t, md, "| Above Normal | 1 |")
	assert.Contains(t, md, "| PT A | 10 | 110.00 | 31.62 | 100.00 | 100.00 | 200.00 | 0 | 1 | 0 |")
	assert.Contains(t, md, "| PT B | 1 | 110.44 | - |")
	assert.Contains(t, md, "| E10 | Analyst | PT A | 200.00 | 2.85 | Above Normal |")
}

func TestMarkdownWithoutOutliers(t *testing.T) {
	res := sampleResult(t)
	res.Rows = res.Rows[:9]
	md := string(Markdown(res))
	assert.Contains(t, md, "No employee is outside the threshold.")
}

func TestJSONPayload(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, res))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "company", decoded["level"])
	assert.Equal(t, res.RunID.String(), decoded["run_id"])

	rows := decoded["rows"].([]interface{})
	last := rows[len(rows)-1].(map[string]interface{})
	assert.Nil(t, last["z_score"])
	assert.Equal(t, "Undefined", last["classification"])

	groups := decoded["groups"].([]interface{})
	first := groups[0].(map[string]interface{})
	assert.Equal(t, "PT A", first["key"])
	assert.InDelta(t, 110, first["mean"], 1e-9)
	assert.Equal(t, 11, len(decoded["points"].([]interface{})))
}

func TestScatterPointsSkipUndefinedMean(t *testing.T) {
	rows := []kpi.Deviation{
		{Summary: kpi.Summary{Key: kpi.Key{EmployeeID: "E1"}, FinalScore: 90}, GroupMean: kpi.NewValue(100)},
		{Summary: kpi.Summary{Key: kpi.Key{EmployeeID: "E2"}, FinalScore: 80}},
	}
	points := ScatterPoints(rows)
	require.Len(t, points, 1)
	assert.Equal(t, Point{X: 100, Y: 90, EmployeeID: "E1"}, points[0])
}
