package effects

import (
	"fmt"
	"sort"

	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
)

// Params carries the arguments for a named effect. Fields that an effect does
// not use are ignored.
type Params struct {
	// Amount is the adjustment amount for brightness, contrast and saturation.
	Amount float64 `json:"amount"`

	// Intensity is the noise strength in [0, 1].
	Intensity float64 `json:"intensity"`

	// Seed initializes the noise generator.
	Seed uint64 `json:"seed"`

	// Thickness is the outline width in pixels.
	Thickness int `json:"thickness"`
}

// Func is an effect that mutates a buffer in place.
type Func func(buf *pixel.Buffer, p Params) error

var registry = map[string]Func{
	"brightness": func(buf *pixel.Buffer, p Params) error { return AdjustBrightness(buf, p.Amount) },
	"contrast":   func(buf *pixel.Buffer, p Params) error { return AdjustContrast(buf, p.Amount) },
	"saturation": func(buf *pixel.Buffer, p Params) error { return AdjustSaturation(buf, p.Amount) },
	"invert":     func(buf *pixel.Buffer, _ Params) error { return Invert(buf) },
	"noise": func(buf *pixel.Buffer, p Params) error {
		return AddNoise(buf, p.Intensity, NewRand(p.Seed))
	},
	"outline": func(buf *pixel.Buffer, p Params) error { return Outline(buf, p.Thickness) },
}

// Lookup returns the effect registered under name.
func Lookup(name string) (Func, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown effect: %s", name)
	}
	return fn, nil
}

// Names returns the registered effect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
