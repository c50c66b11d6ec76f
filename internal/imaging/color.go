package imaging

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBAColor represents an RGBA color with 8-bit components and straight alpha.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor represents a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"` // "#RRGGBB", alpha excluded
	RGB  RGBColor  `json:"rgb"`
	RGBA RGBAColor `json:"rgba"`
	HSL  HSLColor  `json:"hsl"`
}

// SampleColor returns the color of pixel (x, y).
func SampleColor(buf *pixel.Buffer, x, y int) (*ColorResult, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if !buf.InBounds(x, y) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, buf.Width, buf.Height)
	}

	c := buf.At(x, y)
	result := newColorResult(c.R, c.G, c.B)
	result.RGBA.A = c.A
	return &result, nil
}

func newColorResult(r, g, b uint8) ColorResult {
	cf := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := cf.Hsl()
	return ColorResult{
		Hex:  fmt.Sprintf("#%02X%02X%02X", r, g, b),
		RGB:  RGBColor{R: r, G: g, B: b},
		RGBA: RGBAColor{R: r, G: g, B: b, A: 255},
		HSL:  HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}

// ColorFrequency is one exact color of an image and how often it occurs.
type ColorFrequency struct {
	Hex        string   `json:"hex"`
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"` // share of visible pixels, 0-100
	RGB        RGBColor `json:"rgb"`
}

// PaletteResult lists the colors used by an image, most frequent first.
type PaletteResult struct {
	Colors         []ColorFrequency `json:"colors"`
	DistinctColors int              `json:"distinct_colors"`
	VisiblePixels  int              `json:"visible_pixels"`
}

// Palette reports the count most frequent exact colors among the visible
// pixels of buf. Transparent pixels are not counted. Ties are ordered by hex
// value so the result is stable.
//
// Colors are not quantized: a pixelated image has few distinct colors, and the
// report is meant to list them as they are.
func Palette(buf *pixel.Buffer, count int) (*PaletteResult, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", count)
	}

	counts := make(map[[3]uint8]int)
	visible := 0
	buf.ForEachVisible(func(_, _, i int) {
		counts[[3]uint8{buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2]}]++
		visible++
	})

	colors := make([]ColorFrequency, 0, len(counts))
	for rgb, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2]),
			Count:      n,
			Percentage: float64(n) / float64(visible) * 100,
			RGB:        RGBColor{R: rgb[0], G: rgb[1], B: rgb[2]},
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Count != colors[j].Count {
			return colors[i].Count > colors[j].Count
		}
		return colors[i].Hex < colors[j].Hex
	})

	distinct := len(colors)
	if len(colors) > count {
		colors = colors[:count]
	}

	return &PaletteResult{
		Colors:         colors,
		DistinctColors: distinct,
		VisiblePixels:  visible,
	}, nil
}
