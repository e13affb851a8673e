package shot

import (
	"fmt"
	"os"
)

// Record holds the samples of one shot file, keyed by channel.
type Record struct {
	Name    string
	Samples map[Channel][]float64
}

type StructuralError struct {
	Name    string
	Channel Channel
}

func (e *StructuralError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("missing channel %v", e.Channel)
	}
	return fmt.Sprintf("%s: missing channel %v", e.Name, e.Channel)
}

// FileError reports a shot file that could not be opened or read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("unable to open file %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// NewRecord groups extracted rows by channel. Rows repeating a channel are
// appended to that channel's samples in row order.
func NewRecord(name string, rows *Rows) (*Record, error) {
	rec := &Record{
		Name:    name,
		Samples: map[Channel][]float64{},
	}
	for i, label := range rows.Labels {
		ch, ok := Lookup(label)
		if !ok {
			return nil, fmt.Errorf("row %d: unrecognized channel %q", i, label)
		}
		rec.Samples[ch] = append(rec.Samples[ch], rows.Values[i]...)
	}
	return rec, nil
}

func (r *Record) Has(ch Channel) bool {
	_, ok := r.Samples[ch]
	return ok
}

func (r *Record) Require(channels ...Channel) error {
	for _, ch := range channels {
		if !r.Has(ch) {
			return &StructuralError{
				Name:    r.Name,
				Channel: ch,
			}
		}
	}
	return nil
}

// ReadFile parses the shot file at path into a Record.
func ReadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()
	rows, err := Parse(f)
	if err != nil {
		if _, ok := err.(*ParseError); ok {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, &FileError{Path: path, Err: err}
	}
	return NewRecord(path, rows)
}
