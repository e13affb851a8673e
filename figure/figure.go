package figure

import (
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/de1tools/shotplot/shot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	Title  = "DE1 Shot Plot"
	XLabel = "elapsed time (sec)"
	YLabel = "pressure, flow"
)

type YBound int

const (
	// GlobalBound keeps the largest bound proposed by any shot.
	GlobalBound YBound = iota
	// LastBound keeps whichever bound was proposed most recently.
	LastBound
)

func ParseYBound(s string) (YBound, error) {
	switch s {
	case "global", "":
		return GlobalBound, nil
	case "last":
		return LastBound, nil
	default:
		return 0, fmt.Errorf("invalid y bound policy %q (expected global or last)", s)
	}
}

type Options struct {
	ShowLegend bool
	YBound     YBound
}

// Imager renders a finished chart into a raster of the given size.
type Imager interface {
	Image(w, h vg.Length, dpi int) (image.Image, error)
}

// Figure accumulates the series of every shot on one gonum plot.
type Figure struct {
	Plot    *plot.Plot
	Options Options

	ymax      float64
	bounded   bool
	series    int
	finalized bool
}

var _ shot.Sink = &Figure{}
var _ Imager = &Figure{}

func New(opts Options) *Figure {
	return &Figure{
		Plot:    plot.New(),
		Options: opts,
	}
}

func seriesLabel(shotName string, d shot.Descriptor) string {
	if shotName == "" {
		return d.Label
	}
	return fmt.Sprintf("%s [%s]", d.Label, filepath.Base(shotName))
}

func (f *Figure) AddSeries(shotName string, d shot.Descriptor, xs, ys []float64) error {
	if f.finalized {
		return fmt.Errorf("figure already finalized")
	}
	if len(xs) != len(ys) {
		return fmt.Errorf("mismatched series lengths: %d times, %d values", len(xs), len(ys))
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = d.Color
	f.Plot.Add(line)
	if f.Options.ShowLegend {
		f.Plot.Legend.Add(seriesLabel(shotName, d), line)
	}
	f.series++
	return nil
}

func (f *Figure) ClampY(max float64) {
	if f.Options.YBound == LastBound || !f.bounded {
		f.ymax = max
	} else {
		f.ymax = math.Max(f.ymax, max)
	}
	f.bounded = true
}

// YMax returns the current y axis bound and whether any shot proposed one.
func (f *Figure) YMax() (float64, bool) {
	return f.ymax, f.bounded
}

func (f *Figure) Len() int {
	return f.series
}

// Finalize applies the decorations and axis bounds. Later calls are no-ops.
func (f *Figure) Finalize() {
	if f.finalized {
		return
	}
	f.finalized = true
	f.Plot.Add(plotter.NewGrid())
	f.Plot.Title.Text = Title
	f.Plot.X.Label.Text = XLabel
	f.Plot.Y.Label.Text = YLabel
	f.Plot.Legend.Top = true
	if f.bounded {
		f.Plot.Y.Min = 0
		f.Plot.Y.Max = f.ymax
	}
}

func (f *Figure) Image(w, h vg.Length, dpi int) (image.Image, error) {
	f.Finalize()
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	f.Plot.Draw(draw.New(c))
	return c.Image(), nil
}
