// shotplot plots the pressure and flow curves of DE1 shot files on one chart.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/de1tools/shotplot/figure"
	"github.com/de1tools/shotplot/shot"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/plot/vg"
)

var (
	app *commander.Command

	legend    *bool
	all       *bool
	strict    *bool
	ybound    *string
	output    *string
	backend   *string
	width     *float64
	height    *float64
	exportDir *string
)

var errUsage = errors.New("no shot files given")

// usageOutput receives the usage text; the root command has no parent, so
// commander's own usage template cannot be used for it.
var usageOutput io.Writer = os.Stderr

func printUsage(cmd *commander.Command, w io.Writer) {
	fmt.Fprintf(w, "Usage: %s\n", cmd.UsageLine)
	fmt.Fprint(w, cmd.Long)
	fmt.Fprintf(w, "\noptions:\n")
	cmd.Flag.VisitAll(func(f *flag.Flag) {
		fmt.Fprintf(w, "  -%s=%s: %s\n", f.Name, f.DefValue, f.Usage)
	})
}

func init() {
	app = &commander.Command{
		Run:       run,
		UsageLine: "shotplot [options] file1.shot file2.shot ...",
		Short:     "plot DE1 shot files",
		Long: `
shotplot draws pressure, flow rate and flow weight against elapsed time for
every shot file given on the command line, overlaid on a single chart.
Arguments are glob patterns.

ex:
 $ shotplot history/*.shot
 $ shotplot -legend -all -o shots.png 20191109T*.shot
`,
		Flag:        *flag.NewFlagSet("shotplot", flag.ContinueOnError),
		CustomFlags: true,
	}
	app.Flag.Usage = func() {
		printUsage(app, usageOutput)
	}
	legend = app.Flag.Bool("legend", false, "label every series in the legend")
	all = app.Flag.Bool("all", false, "also plot shot weight and temperatures")
	strict = app.Flag.Bool("strict", false, "abort on the first malformed shot file")
	ybound = app.Flag.String("ybound", "global", "y axis bound across files: global or last")
	output = app.Flag.String("o", "", "write the chart to this file instead of opening a window")
	backend = app.Flag.String("backend", "gonum", "rendering backend: gonum or chart")
	width = app.Flag.Float64("width", 0, "output width (points for gonum, pixels for chart)")
	height = app.Flag.Float64("height", 0, "output height (points for gonum, pixels for chart)")
	exportDir = app.Flag.String("export", ".", "directory for images exported from the window with 'E'")
}

type chartSink interface {
	shot.Sink
	figure.Imager
	figure.Writer
}

func newSink(name string, opts figure.Options) (chartSink, vg.Length, vg.Length, error) {
	switch name {
	case "gonum":
		return figure.New(opts), 10 * vg.Inch, 7.5 * vg.Inch, nil
	case "chart":
		return figure.NewChart(opts), 1024, 768, nil
	default:
		return nil, 0, 0, fmt.Errorf("unknown backend %q (expected gonum or chart)", name)
	}
}

func run(cmd *commander.Command, args []string) error {
	if err := cmd.Flag.Parse(args); err != nil {
		return err
	}
	args = cmd.Flag.Args()
	if len(args) == 0 {
		printUsage(cmd, usageOutput)
		return errUsage
	}
	bound, err := figure.ParseYBound(*ybound)
	if err != nil {
		return err
	}
	sink, w, h, err := newSink(*backend, figure.Options{
		ShowLegend: *legend,
		YBound:     bound,
	})
	if err != nil {
		return err
	}
	if *width > 0 {
		w = vg.Length(*width)
	}
	if *height > 0 {
		h = vg.Length(*height)
	}
	opts := processOptions{strict: *strict}
	if *all {
		opts.channels = shot.Channels()
	}

	files, globErr := expand(args)
	plotted, skipped, err := processFiles(files, sink, opts)
	if err != nil {
		return err
	}
	failed := multierror.Append(globErr, skipped).ErrorOrNil()
	if failed != nil {
		log.Printf("Some files were skipped: %v", failed)
	}
	log.Printf("Plotted %d shot(s)", plotted)

	if *output != "" {
		if err := figure.Save(sink, w, h, *output); err != nil {
			return err
		}
		log.Printf("Wrote %s", *output)
		return failed
	}
	exitCode := 0
	if failed != nil {
		exitCode = 1
	}
	return figure.Display(sink, *exportDir, exitCode)
}

func main() {
	err := app.Dispatch(os.Args[1:])
	if err != nil {
		log.Printf("error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
