package figure

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/plot/vg"
)

// Writer is implemented by every figure that can be saved to a file.
type Writer interface {
	Render(w io.Writer, width, height vg.Length, format string) error
}

func (f *Figure) Render(output io.Writer, width, height vg.Length, format string) error {
	f.Finalize()
	w, err := f.Plot.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = w.WriteTo(output)
	return err
}

func combineErrors(errors ...error) (err error) {
	for _, e := range errors {
		switch {
		case e == nil:
			// ignore
		case err == nil:
			err = e
		default:
			err = multierror.Append(err, e)
		}
	}
	return err
}

func WriteClose(fig Writer, width, height vg.Length, output io.WriteCloser, format string) (err error) {
	defer func() {
		e := output.Close()
		err = combineErrors(err, e)
	}()
	return fig.Render(output, width, height, format)
}

// FormatOf derives the output format from a file name extension.
func FormatOf(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot determine output format of %q", path)
	}
	return ext, nil
}

func Save(fig Writer, width, height vg.Length, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	output, err := os.Create(path)
	if err != nil {
		return err
	}
	return WriteClose(fig, width, height, output, format)
}
