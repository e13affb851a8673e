package figure

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gonum.org/v1/plot/vg"
)

type PlotWidget struct {
	Imager    Imager
	DPI       int
	ExportDir string
	AdjWidth  vg.Length
	AdjHeight vg.Length

	Busy  bool
	Ready chan image.Image
	Image image.Image
}

func (p *PlotWidget) GenImage(w, h vg.Length) image.Image {
	img, err := p.Imager.Image(w, h, p.DPI)
	if err != nil {
		log.Printf("Error rendering plot: %v", err)
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return img
}

func (p *PlotWidget) OnReady(ready image.Image) {
	if !p.Busy {
		panic("should be busy")
	}
	p.Image = ready
	p.Busy = false
}

func (p *PlotWidget) GetImage(size image.Point) image.Image {
	wAdjusted := vg.Points(float64(size.X) * vg.Inch.Points() / float64(p.DPI))
	hAdjusted := vg.Points(float64(size.Y) * vg.Inch.Points() / float64(p.DPI))
	if p.Image == nil {
		p.Image = p.GenImage(wAdjusted, hAdjusted)
		p.AdjWidth = wAdjusted
		p.AdjHeight = hAdjusted
	} else if p.AdjWidth != wAdjusted || p.AdjHeight != hAdjusted {
		if !p.Busy {
			p.Busy = true
			go func() {
				p.Ready <- p.GenImage(wAdjusted, hAdjusted)
			}()
			p.AdjWidth = wAdjusted
			p.AdjHeight = hAdjusted
		}
	}

	return p.Image
}

func (p *PlotWidget) Layout(gtx layout.Context) layout.Dimensions {
	defer op.Save(gtx.Ops).Load()

	clip.Rect{
		Max: gtx.Constraints.Max,
	}.Add(gtx.Ops)
	paint.NewImageOp(p.GetImage(gtx.Constraints.Max)).Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	return layout.Dimensions{Size: gtx.Constraints.Max}
}

func (p *PlotWidget) Export() error {
	if p.ExportDir == "" || p.Image == nil {
		return nil
	}
	filepath := path.Join(p.ExportDir, "shotplot.png")
	f, err := os.Create(filepath)
	if err != nil {
		return err
	}
	if err := png.Encode(f, p.Image); err != nil {
		return combineErrors(err, f.Close())
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("Image exported to %s", filepath)
	return nil
}

// Display opens a window showing the figure and blocks until it is closed,
// at which point the process exits with exitCode.
func Display(img Imager, exportDir string, exitCode int) error {
	if img == nil {
		return fmt.Errorf("nothing to display")
	}
	plotWidget := &PlotWidget{
		Imager:    img,
		DPI:       128,
		ExportDir: exportDir,
		Ready:     make(chan image.Image),
	}

	go func() {
		win := app.NewWindow(
			app.Title(Title),
			app.Size(
				unit.Px(1024),
				unit.Px(768),
			),
		)
		defer win.Close()

		for {
			select {
			case ready := <-plotWidget.Ready:
				plotWidget.OnReady(ready)
				win.Invalidate()
			case e := <-win.Events():
				switch e := e.(type) {
				case system.FrameEvent:
					ops := new(op.Ops)
					gtx := layout.NewContext(ops, e)
					layout.UniformInset(unit.Dp(30)).Layout(gtx, plotWidget.Layout)
					e.Frame(ops)
				case key.Event:
					switch e.Name {
					case "Q", key.NameEscape:
						win.Close()
					case "E":
						if e.State == key.Press {
							if err := plotWidget.Export(); err != nil {
								log.Printf("Error exporting image: %v", err)
							}
						}
					}

				case system.DestroyEvent:
					os.Exit(exitCode)
				}
			}
		}
	}()

	app.Main()
	return nil
}
