// Package testkit generates synthetic KPI spreadsheets for demos and tests.
package testkit

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"

	"godeviate/domain/dataset"
	"godeviate/domain/kpi"

	"github.com/xuri/excelize/v2"
)

// KPIGeneratorConfig configures the KPI data generator
type KPIGeneratorConfig struct {
	Employees       int     `json:"employees"`
	Companies       int     `json:"companies"`
	Positions       int     `json:"positions"`
	KPIsPerEmployee int     `json:"kpis_per_employee"`
	OutlierRate     float64 `json:"outlier_rate"`   // share of employees far above or below their peers
	BlankRate       float64 `json:"blank_rate"`     // share of realization cells left empty
	NegativeShare   float64 `json:"negative_share"` // share of lower-is-better KPIs
	Seed            int64   `json:"seed"`
}

// DefaultKPIConfig returns a small data set with a few planted outliers
func DefaultKPIConfig() KPIGeneratorConfig {
	return KPIGeneratorConfig{
		Employees:       60,
		Companies:       3,
		Positions:       4,
		KPIsPerEmployee: 4,
		OutlierRate:     0.08,
		BlankRate:       0.02,
		NegativeShare:   0.3,
		Seed:            42,
	}
}

// KPIGenerator produces deterministic KPI rows for a seed
type KPIGenerator struct {
	config KPIGeneratorConfig
	rng    *rand.Rand
}

// NewKPIGenerator creates a new KPI data generator
func NewKPIGenerator(config KPIGeneratorConfig) *KPIGenerator {
	return &KPIGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds a table with the required KPI columns, one row per KPI
func (g *KPIGenerator) Generate() (*dataset.Table, error) {
	cfg := g.config
	if cfg.Employees <= 0 || cfg.Companies <= 0 || cfg.Positions <= 0 || cfg.KPIsPerEmployee <= 0 {
		return nil, fmt.Errorf("employees, companies, positions and KPIs per employee must be > 0")
	}

	table := &dataset.Table{
		Source:  fmt.Sprintf("synthetic-%d", cfg.Seed),
		Headers: append([]string(nil), kpi.RequiredColumns...),
	}

	for e := 0; e < cfg.Employees; e++ {
		id := fmt.Sprintf("%08d", 10000000+e*7)
		position := fmt.Sprintf("Staf %c", 'A'+rune(e%cfg.Positions))
		company := fmt.Sprintf("PT Anak Usaha %d", e%cfg.Companies+1)
		factor := g.performanceFactor()

		for i, weight := range g.splitWeights(cfg.KPIsPerEmployee) {
			target := math.Round(50 + g.rng.Float64()*950)
			negative := g.rng.Float64() < cfg.NegativeShare

			score := factor * (1 + g.rng.NormFloat64()*0.03)
			realized := target * score
			if negative {
				realized = target / score
			}

			realizedCell := fToStr(realized, 2)
			if g.rng.Float64() < cfg.BlankRate {
				realizedCell = ""
			}

			table.Rows = append(table.Rows, dataset.RawRow{
				kpi.ColEmployeeID: id,
				kpi.ColPosition:   position,
				kpi.ColCompany:    company,
				kpi.ColWeight:     fToStr(weight, 2),
				kpi.ColRealized:   realizedCell,
				kpi.ColTarget:     fToStr(target, 0),
				kpi.ColPolarity:   polarityToken(negative, i),
			})
		}
	}
	return table, nil
}

// performanceFactor is the employee's achievement level around 1.0
func (g *KPIGenerator) performanceFactor() float64 {
	if g.rng.Float64() < g.config.OutlierRate {
		if g.rng.Intn(2) == 0 {
			return 0.55 + g.rng.Float64()*0.1
		}
		return 1.45 + g.rng.Float64()*0.1
	}
	return 1 + g.rng.NormFloat64()*0.06
}

// splitWeights returns n positive weights summing to 100
func (g *KPIGenerator) splitWeights(n int) []float64 {
	raw := make([]float64, n)
	total := 0.0
	for i := range raw {
		raw[i] = 1 + g.rng.Float64()
		total += raw[i]
	}
	weights := make([]float64, n)
	assigned := 0.0
	for i := 0; i < n-1; i++ {
		weights[i] = math.Round(raw[i]/total*100*100) / 100
		assigned += weights[i]
	}
	weights[n-1] = math.Round((100-assigned)*100) / 100
	return weights
}

// polarityToken mixes spellings and casing the way real exports do
func polarityToken(negative bool, i int) string {
	tokens := []string{"Positif", "positive", "POSITIF"}
	if negative {
		tokens = []string{"Negatif", "negative", " negatif "}
	}
	return tokens[i%len(tokens)]
}

// WriteCSV writes table in header order
func WriteCSV(path string, table *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Headers); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := w.Write(record(table.Headers, row)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteXLSX writes table to the first sheet of a new workbook
func WriteXLSX(path string, table *dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	if err := f.SetSheetRow(sheet, "A1", &table.Headers); err != nil {
		return err
	}
	for r, row := range table.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		values := make([]interface{}, len(table.Headers))
		for c, h := range table.Headers {
			// numbers go in as numbers so readers see real numeric cells
			if v, err := strconv.ParseFloat(row[h], 64); err == nil && h != kpi.ColEmployeeID {
				values[c] = v
			} else {
				values[c] = row[h]
			}
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func record(headers []string, row dataset.RawRow) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = row[h]
	}
	return out
}

func fToStr(x float64, decimals int) string {
	p := math.Pow10(decimals)
	x = math.Round(x*p) / p
	return strconv.FormatFloat(x, 'f', decimals, 64)
}
