package shot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	recordOpen  = "{"
	recordClose = "}"

	maxLineLength = 1 << 20
)

// Rows is the raw table produced by Extract: one entry per kept line, in line order.
type Rows struct {
	Labels []string
	Values [][]float64
}

func (r *Rows) Len() int {
	return len(r.Labels)
}

type ParseError struct {
	Line  int // 1-based
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: invalid sample %q: %v", e.Line, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// tokenize returns the fields of a data line, or nil if the line carries no record.
func tokenize(line string) []string {
	if !strings.Contains(line, recordOpen) {
		return nil
	}
	line = strings.ReplaceAll(line, recordOpen, "")
	line = strings.ReplaceAll(line, recordClose, "")
	return strings.Fields(line)
}

// parseSample converts one sample token. Hexadecimal floats are refused:
// shot files only ever carry decimal numbers.
func parseSample(token string) (float64, error) {
	digits := strings.TrimLeft(token, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(token, 64)
}

// Extract keeps every line that carries a record for a recognized channel and
// converts its samples to floats. Any unparseable sample fails the whole extraction.
func Extract(lines []string) (*Rows, error) {
	rows := &Rows{}
	for i, line := range lines {
		fields := tokenize(line)
		if len(fields) == 0 {
			continue
		}
		if _, ok := Lookup(fields[0]); !ok {
			continue
		}
		samples := make([]float64, 0, len(fields)-1)
		for _, token := range fields[1:] {
			v, err := parseSample(token)
			if err != nil {
				return nil, &ParseError{
					Line:  i + 1,
					Token: token,
					Err:   err,
				}
			}
			samples = append(samples, v)
		}
		rows.Labels = append(rows.Labels, fields[0])
		rows.Values = append(rows.Values, samples)
	}
	return rows, nil
}

func Parse(r io.Reader) (*Rows, error) {
	var lines []string
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scan.Scan() {
		lines = append(lines, scan.Text())
	}
	if err := scan.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{
				Line: len(lines) + 1,
				Err:  err,
			}
		}
		return nil, err
	}
	return Extract(lines)
}
