// Package chart draws the final score against the group mean.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"godeviate/domain/kpi"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options controls the rendered image
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	Labels bool // draw employee IDs next to each point
}

// DefaultOptions returns a 10x7 inch chart with labels
func DefaultOptions() Options {
	return Options{
		Title:  "Final score vs group mean",
		Width:  10 * vg.Inch,
		Height: 7 * vg.Inch,
		Labels: true,
	}
}

var classColors = map[kpi.Classification]color.Color{
	kpi.ClassBelowNormal: color.RGBA{R: 200, G: 30, B: 30, A: 255},
	kpi.ClassNormal:      color.RGBA{R: 40, G: 110, B: 200, A: 255},
	kpi.ClassAboveNormal: color.RGBA{R: 20, G: 150, B: 60, A: 255},
	kpi.ClassUndefined:   color.RGBA{R: 150, G: 150, B: 150, A: 255},
}

var classShapes = map[kpi.Classification]draw.GlyphDrawer{
	kpi.ClassBelowNormal: draw.TriangleGlyph{},
	kpi.ClassNormal:      draw.CircleGlyph{},
	kpi.ClassAboveNormal: draw.TriangleGlyph{},
	kpi.ClassUndefined:   draw.RingGlyph{},
}

// Series groups plotted points by classification. Rows without a defined
// group mean are skipped.
func Series(rows []kpi.Deviation) map[kpi.Classification]plotter.XYLabels {
	series := make(map[kpi.Classification]plotter.XYLabels)
	for _, r := range rows {
		x, ok := r.GroupMean.Get()
		if !ok {
			continue
		}
		s := series[r.Classification]
		s.XYs = append(s.XYs, plotter.XY{X: x, Y: r.FinalScore})
		s.Labels = append(s.Labels, r.EmployeeID)
		series[r.Classification] = s
	}
	return series
}

// New builds the scatter plot
func New(rows []kpi.Deviation, opts Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = kpi.ColGroupMean
	p.Y.Label.Text = kpi.ColFinalScore
	p.Add(plotter.NewGrid())

	series := Series(rows)
	for _, class := range kpi.Classifications {
		s, ok := series[class]
		if !ok {
			continue
		}
		scatter, err := plotter.NewScatter(s.XYs)
		if err != nil {
			return nil, fmt.Errorf("scatter %s: %w", class, err)
		}
		scatter.GlyphStyle.Color = classColors[class]
		scatter.GlyphStyle.Shape = classShapes[class]
		scatter.GlyphStyle.Radius = vg.Points(4)
		p.Add(scatter)
		p.Legend.Add(fmt.Sprintf("%s (%d)", class, len(s.XYs)), scatter)

		if opts.Labels {
			labels, err := plotter.NewLabels(s)
			if err != nil {
				return nil, fmt.Errorf("labels %s: %w", class, err)
			}
			labels.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(3)}
			p.Add(labels)
		}
	}

	if len(series) > 0 {
		// points on this line score exactly their group mean
		diagonal := plotter.NewFunction(func(x float64) float64 { return x })
		diagonal.Color = color.Gray{Y: 120}
		diagonal.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(diagonal)
	}
	p.Legend.Top = true
	return p, nil
}

// WritePNG renders the scatter plot as PNG
func WritePNG(w io.Writer, rows []kpi.Deviation, opts Options) error {
	p, err := New(rows, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePNG renders the scatter plot to path
func SavePNG(path string, rows []kpi.Deviation, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, rows, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
