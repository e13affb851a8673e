package shot

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type series struct {
	shot    string
	channel Channel
	xs, ys  []float64
}

type recordingSink struct {
	series []series
	bounds []float64
}

func (s *recordingSink) AddSeries(shot string, d Descriptor, xs, ys []float64) error {
	s.series = append(s.series, series{
		shot:    shot,
		channel: d.Channel,
		xs:      append([]float64{}, xs...),
		ys:      append([]float64{}, ys...),
	})
	return nil
}

func (s *recordingSink) ClampY(max float64) {
	s.bounds = append(s.bounds, max)
}

func (s *recordingSink) find(ch Channel) *series {
	for i := range s.series {
		if s.series[i].channel == ch {
			return &s.series[i]
		}
	}
	return nil
}

func sampleRecord(t *testing.T) *Record {
	rows, err := Extract(sampleShot)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := NewRecord("sample.shot", rows)
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestNewRecordGroupsByName(t *testing.T) {
	rows := &Rows{
		Labels: []string{"espresso_flow", "espresso_elapsed", "espresso_flow"},
		Values: [][]float64{{1, 2}, {0, 1, 2}, {3}},
	}
	rec, err := NewRecord("x", rows)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rec.Samples[Flow], []float64{1, 2, 3}) {
		t.Errorf("wrong flow samples: %v", rec.Samples[Flow])
	}
	if !reflect.DeepEqual(rec.Samples[Elapsed], []float64{0, 1, 2}) {
		t.Errorf("wrong elapsed samples: %v", rec.Samples[Elapsed])
	}
	if rec.Has(Pressure) {
		t.Error("absent channel should not be zero-filled")
	}
}

func TestNormalize(t *testing.T) {
	rec := &Record{
		Name: "n",
		Samples: map[Channel][]float64{
			BasketTemp: {20.0, 30.0, 40.0},
			Pressure:   {1.0, 2.0},
		},
	}
	norm := Normalize(rec)
	if !reflect.DeepEqual(norm.Samples[BasketTemp], []float64{2.0, 3.0, 4.0}) {
		t.Errorf("wrong basket temperature scaling: %v", norm.Samples[BasketTemp])
	}
	if !reflect.DeepEqual(norm.Samples[Pressure], []float64{1.0, 2.0}) {
		t.Errorf("pressure should be unchanged: %v", norm.Samples[Pressure])
	}
	if rec.Samples[BasketTemp][0] != 20.0 {
		t.Error("input record was modified")
	}
}

func TestAlignSampleShot(t *testing.T) {
	rec := sampleRecord(t)
	sink := &recordingSink{}
	ymax, err := Align(rec, sink, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(sink.series) != 3 {
		t.Fatalf("expected 3 series, got %d", len(sink.series))
	}
	for i, ch := range []Channel{Pressure, Flow, FlowWeight} {
		if sink.series[i].channel != ch {
			t.Errorf("series %d: got %v, expected %v", i, sink.series[i].channel, ch)
		}
		if sink.series[i].shot != "sample.shot" {
			t.Errorf("series %d: wrong shot name %q", i, sink.series[i].shot)
		}
		if !reflect.DeepEqual(sink.series[i].xs, []float64{0, 1, 2}) {
			t.Errorf("series %d: wrong times %v", i, sink.series[i].xs)
		}
	}
	if !reflect.DeepEqual(sink.find(Pressure).ys, []float64{0, 3, 6}) {
		t.Errorf("pressure changed: %v", sink.find(Pressure).ys)
	}
	if ymax != 6 {
		t.Errorf("wrong ymax: %v", ymax)
	}
	if len(sink.bounds) != 1 || sink.bounds[0] < 6 {
		t.Errorf("wrong y bounds: %v", sink.bounds)
	}

	norm := Normalize(rec)
	if !reflect.DeepEqual(norm.Samples[Weight], []float64{0, 0.1, 0.2}) {
		t.Errorf("wrong weight scaling: %v", norm.Samples[Weight])
	}
	if !reflect.DeepEqual(norm.Samples[BasketTemp], []float64{90, 90.1, 90.2}) {
		t.Errorf("wrong basket temperature scaling: %v", norm.Samples[BasketTemp])
	}
}

func TestAlignAllChannels(t *testing.T) {
	rec := sampleRecord(t)
	sink := &recordingSink{}
	ymax, err := Align(rec, sink, Channels())
	if err != nil {
		t.Fatal(err)
	}
	if len(sink.series) != 6 {
		t.Fatalf("expected 6 series (everything but time), got %d", len(sink.series))
	}
	if !reflect.DeepEqual(sink.find(BasketTemp).ys, []float64{90, 90.1, 90.2}) {
		t.Errorf("wrong basket temperature: %v", sink.find(BasketTemp).ys)
	}
	if ymax != 93.2 {
		t.Errorf("wrong ymax: %v", ymax)
	}
	if sink.bounds[0] != 94 {
		t.Errorf("wrong y bound: %v", sink.bounds[0])
	}
}

func TestAlignTruncates(t *testing.T) {
	rec := sampleRecord(t)
	rec.Samples[Elapsed] = []float64{0, 1, 2, 3, 4}
	rec.Samples[Pressure] = []float64{1, 2, 3, 4, 5, 60, 70, 80}
	rec.Samples[Flow] = []float64{1, 2}
	sink := &recordingSink{}
	ymax, err := Align(rec, sink, nil)
	if err != nil {
		t.Fatal(err)
	}
	p := sink.find(Pressure)
	if len(p.xs) != 5 || len(p.ys) != 5 {
		t.Errorf("pressure should be truncated to 5 samples: %v / %v", p.xs, p.ys)
	}
	f := sink.find(Flow)
	if !reflect.DeepEqual(f.xs, []float64{0, 1}) {
		t.Errorf("flow should use the first two times: %v", f.xs)
	}
	if ymax != 5 {
		t.Errorf("samples beyond the time channel must not count: ymax = %v", ymax)
	}
}

func TestAlignMissingChannel(t *testing.T) {
	lines := []string{}
	for _, line := range sampleShot {
		if !strings.Contains(line, "temperature") {
			lines = append(lines, line)
		}
	}
	rows, err := Extract(lines)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := NewRecord("short.shot", rows)
	if err != nil {
		t.Fatal(err)
	}
	sink := &recordingSink{}
	_, err = Align(rec, sink, nil)
	var se *StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StructuralError, got %v", err)
	}
	if se.Channel != BasketTemp {
		t.Errorf("wrong missing channel: %v", se.Channel)
	}
	if len(sink.series) != 0 {
		t.Error("nothing should be plotted for a malformed shot")
	}
}

func TestReadFile(t *testing.T) {
	dir, err := os.MkdirTemp("", "shot")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	good := filepath.Join(dir, "good.shot")
	if err := os.WriteFile(good, []byte(strings.Join(sampleShot, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec, err := ReadFile(good)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Name != good || len(rec.Samples) != 7 {
		t.Errorf("unexpected record: %s with %d channels", rec.Name, len(rec.Samples))
	}

	_, err = ReadFile(filepath.Join(dir, "missing.shot"))
	var fe *FileError
	if !errors.As(err, &fe) {
		t.Errorf("expected *FileError, got %v", err)
	}

	bad := filepath.Join(dir, "bad.shot")
	if err := os.WriteFile(bad, []byte("{espresso_pressure 0.0 abc 6.0}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = ReadFile(bad)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("expected *ParseError, got %v", err)
	}

	long := filepath.Join(dir, "long.shot")
	body := "{espresso_pressure " + strings.Repeat("6.0 ", maxLineLength/4+1) + "}\n"
	if err := os.WriteFile(long, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = ReadFile(long)
	if errors.As(err, &fe) {
		t.Errorf("over-long line reported as unreadable file: %v", err)
	}
	if !errors.As(err, &pe) || pe.Line != 1 {
		t.Errorf("expected *ParseError on line 1, got %v", err)
	}
}

func TestDescriptors(t *testing.T) {
	for _, ch := range Channels() {
		d := ch.Descriptor()
		if d.Channel != ch {
			t.Errorf("descriptor for %v names channel %v", ch, d.Channel)
		}
		if back, ok := Lookup(d.Name); !ok || back != ch {
			t.Errorf("lookup of %q failed", d.Name)
		}
		if d.Divisor == 0 || math.IsNaN(d.Divisor) {
			t.Errorf("channel %v has invalid divisor", ch)
		}
	}
	if !reflect.DeepEqual(PlottedChannels(), []Channel{Pressure, Flow, FlowWeight}) {
		t.Errorf("wrong default channels: %v", PlottedChannels())
	}
}
