package shot

import (
	"math"
)

// Sink receives the aligned series of each shot.
type Sink interface {
	AddSeries(shot string, d Descriptor, xs, ys []float64) error
	// ClampY proposes an upper bound for the y axis.
	ClampY(max float64)
}

// Normalize returns a copy of the record with every channel divided by its
// descriptor's Divisor. The input record is left untouched.
func Normalize(rec *Record) *Record {
	out := &Record{
		Name:    rec.Name,
		Samples: make(map[Channel][]float64, len(rec.Samples)),
	}
	for ch, samples := range rec.Samples {
		div := ch.Descriptor().Divisor
		scaled := make([]float64, len(samples))
		for i, v := range samples {
			if div != 1 {
				v /= div
			}
			scaled[i] = v
		}
		out.Samples[ch] = scaled
	}
	return out
}

// Align normalizes a shot and emits each requested channel against elapsed
// time, truncated to whichever of the two is shorter. When channels is nil the
// default plotted set is used. The largest emitted sample is returned, and its
// ceiling is proposed to the sink as the y bound.
func Align(rec *Record, sink Sink, channels []Channel) (ymax float64, err error) {
	if err := rec.Require(Channels()...); err != nil {
		return 0, err
	}
	if channels == nil {
		channels = PlottedChannels()
	}
	norm := Normalize(rec)
	times := norm.Samples[Elapsed]
	tlen := len(times)
	for _, ch := range channels {
		if ch == Elapsed {
			continue
		}
		values := norm.Samples[ch]
		vlen := tlen
		if len(values) < vlen {
			vlen = len(values)
		}
		if vlen == 0 {
			continue
		}
		for _, v := range values[:vlen] {
			ymax = math.Max(ymax, v)
		}
		if err := sink.AddSeries(rec.Name, ch.Descriptor(), times[:vlen], values[:vlen]); err != nil {
			return 0, err
		}
	}
	sink.ClampY(math.Ceil(ymax))
	return ymax, nil
}
