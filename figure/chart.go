package figure

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/de1tools/shotplot/shot"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot/vg"
)

var ErrEmptyChart = errors.New("no series to render")

// ChartFigure accumulates the series of every shot for go-chart, which
// renders straight to PNG or SVG.
type ChartFigure struct {
	Options Options

	series  []chart.Series
	ymax    float64
	bounded bool
}

var _ shot.Sink = &ChartFigure{}
var _ Imager = &ChartFigure{}
var _ Writer = &ChartFigure{}

func NewChart(opts Options) *ChartFigure {
	return &ChartFigure{
		Options: opts,
	}
}

func chartColor(d shot.Descriptor) drawing.Color {
	return drawing.Color{R: d.Color.R, G: d.Color.G, B: d.Color.B, A: d.Color.A}
}

func (c *ChartFigure) AddSeries(shotName string, d shot.Descriptor, xs, ys []float64) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("mismatched series lengths: %d times, %d values", len(xs), len(ys))
	}
	name := ""
	if c.Options.ShowLegend {
		name = seriesLabel(shotName, d)
	}
	c.series = append(c.series, chart.ContinuousSeries{
		Name:    name,
		XValues: append([]float64{}, xs...),
		YValues: append([]float64{}, ys...),
		Style: chart.Style{
			StrokeColor: chartColor(d),
			StrokeWidth: 1.5,
		},
	})
	return nil
}

func (c *ChartFigure) ClampY(max float64) {
	if c.Options.YBound == LastBound || !c.bounded {
		c.ymax = max
	} else {
		c.ymax = math.Max(c.ymax, max)
	}
	c.bounded = true
}

func (c *ChartFigure) Len() int {
	return len(c.series)
}

// Build assembles the decorated chart at the given pixel size.
func (c *ChartFigure) Build(width, height int) (*chart.Chart, error) {
	if len(c.series) == 0 {
		return nil, ErrEmptyChart
	}
	grid := chart.Style{
		StrokeColor: drawing.Color{R: 0xD0, G: 0xD0, B: 0xD0, A: 255},
		StrokeWidth: 1,
	}
	ch := &chart.Chart{
		Title:  Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:           XLabel,
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           YLabel,
			GridMajorStyle: grid,
		},
		Series: c.series,
	}
	if c.bounded && c.ymax > 0 {
		ch.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: c.ymax}
	}
	if c.Options.ShowLegend {
		ch.Elements = []chart.Renderable{chart.Legend(ch)}
	}
	return ch, nil
}

func (c *ChartFigure) render(output io.Writer, width, height int, format string) error {
	ch, err := c.Build(width, height)
	if err != nil {
		return err
	}
	switch format {
	case "png":
		return ch.Render(chart.PNG, output)
	case "svg":
		return ch.Render(chart.SVG, output)
	default:
		return fmt.Errorf("unsupported format for chart backend: %q", format)
	}
}

// Render treats width and height as pixels, matching go-chart's own units.
func (c *ChartFigure) Render(output io.Writer, width, height vg.Length, format string) error {
	return c.render(output, int(width), int(height), format)
}

func (c *ChartFigure) Image(w, h vg.Length, dpi int) (image.Image, error) {
	px := func(l vg.Length) int {
		return int(float64(l) * float64(dpi) / vg.Inch.Points())
	}
	var buf bytes.Buffer
	if err := c.render(&buf, px(w), px(h), "png"); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}
