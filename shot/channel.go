// Package shot reads DE1 shot history files and lines their channels up for plotting.
package shot

import (
	"fmt"
	"image/color"
)

type Channel int

const (
	Elapsed Channel = iota
	Pressure
	Weight
	Flow
	FlowWeight
	BasketTemp
	MixTemp

	numChannels
)

// Descriptor collects everything the tool knows about one recorded channel.
type Descriptor struct {
	Channel Channel
	Name    string // token used in shot files
	Label   string // legend text
	Color   color.RGBA
	// every sample is divided by Divisor so that the channel shares the pressure axis
	Divisor float64
	Plotted bool
}

var descriptors = [numChannels]Descriptor{
	Elapsed: {
		Channel: Elapsed,
		Name:    "espresso_elapsed",
		Label:   "time",
		Color:   color.RGBA{0, 0, 0, 255},
		Divisor: 1,
	},
	Pressure: {
		Channel: Pressure,
		Name:    "espresso_pressure",
		Label:   "pressure (bar)",
		Color:   color.RGBA{0x00, 0xB0, 0x40, 255},
		Divisor: 1,
		Plotted: true,
	},
	Weight: {
		Channel: Weight,
		Name:    "espresso_weight",
		Label:   "shot weight (g)",
		Color:   color.RGBA{0xFF, 0x7F, 0x0E, 255},
		Divisor: 10,
	},
	Flow: {
		Channel: Flow,
		Name:    "espresso_flow",
		Label:   "flow rate (ml/s)",
		Color:   color.RGBA{0x40, 0x60, 0xFF, 255},
		Divisor: 1,
		Plotted: true,
	},
	FlowWeight: {
		Channel: FlowWeight,
		Name:    "espresso_flow_weight",
		Label:   "flow weight (g/s)",
		Color:   color.RGBA{0x8C, 0x56, 0x4B, 255},
		Divisor: 1,
		Plotted: true,
	},
	BasketTemp: {
		Channel: BasketTemp,
		Name:    "espresso_temperature_basket",
		Label:   "basket temp (C)",
		Color:   color.RGBA{0xDF, 0x00, 0x00, 255},
		Divisor: 10,
	},
	MixTemp: {
		Channel: MixTemp,
		Name:    "espresso_temperature_mix",
		Label:   "mix temp (C)",
		Color:   color.RGBA{0xBF, 0xBF, 0x00, 255},
		Divisor: 10,
	},
}

var channelsByName = map[string]Channel{}

func init() {
	for _, d := range descriptors {
		channelsByName[d.Name] = d.Channel
	}
}

// Channels returns every recognized channel in shot file order.
func Channels() []Channel {
	out := make([]Channel, numChannels)
	for i := range out {
		out[i] = Channel(i)
	}
	return out
}

// PlottedChannels returns the channels drawn when no explicit selection is made.
func PlottedChannels() (out []Channel) {
	for _, d := range descriptors {
		if d.Plotted {
			out = append(out, d.Channel)
		}
	}
	return out
}

func Lookup(name string) (Channel, bool) {
	ch, ok := channelsByName[name]
	return ch, ok
}

func (c Channel) Valid() bool {
	return c >= 0 && c < numChannels
}

func (c Channel) Descriptor() Descriptor {
	if !c.Valid() {
		panic(fmt.Sprintf("invalid channel: %d", int(c)))
	}
	return descriptors[c]
}

func (c Channel) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return descriptors[c].Name
}
