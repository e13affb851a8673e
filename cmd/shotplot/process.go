package main

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/de1tools/shotplot/shot"
	"github.com/hashicorp/go-multierror"
)

type processOptions struct {
	// abort on the first malformed shot instead of skipping it
	strict   bool
	channels []shot.Channel
}

// expand resolves every glob pattern, keeping matches in pattern order.
func expand(patterns []string) (files []string, err error) {
	for _, pattern := range patterns {
		matches, e := filepath.Glob(pattern)
		if e != nil {
			err = multierror.Append(err, fmt.Errorf("pattern %q: %w", pattern, e))
			continue
		}
		if len(matches) == 0 {
			log.Printf("No files match %q", pattern)
		}
		files = append(files, matches...)
	}
	return files, err
}

// processFiles aligns every shot file onto sink. Unreadable files are always
// skipped; malformed ones are skipped unless opts.strict is set, in which case
// the first one is returned as err. Skipped files are collected in skipped.
func processFiles(files []string, sink shot.Sink, opts processOptions) (plotted int, skipped error, err error) {
	for _, fname := range files {
		log.Printf("Processing file %s", fname)
		rec, e := shot.ReadFile(fname)
		if e == nil {
			_, e = shot.Align(rec, sink, opts.channels)
		}
		if e == nil {
			plotted++
			continue
		}
		var fe *shot.FileError
		if errors.As(e, &fe) {
			log.Printf("Unable to open file: %s", fname)
		} else if opts.strict {
			return plotted, skipped, e
		} else {
			log.Printf("Skipping %s: %v", fname, e)
		}
		skipped = multierror.Append(skipped, e)
	}
	return plotted, skipped, nil
}
