package generate

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownPalette is returned when a palette name is not registered.
var ErrUnknownPalette = errors.New("generate: unknown palette")

// Palette is an ordered list of opaque colors. For landscapes the first three
// entries are used as sky, surface and ground.
type Palette []color.NRGBA

// palettes maps names to hex color lists.
var palettes = map[string][]string{
	"retro":     {"#000000", "#FFFFFF", "#FF004D", "#29ADFF", "#83769C"},
	"nature":    {"#87CEEB", "#228B22", "#8B4513", "#FFD700", "#006400"},
	"cyberpunk": {"#FF00FF", "#00FFFF", "#FFFF00", "#8A2BE2", "#000000"},
	"sunset":    {"#FF5E4D", "#FF9F40", "#FFCE54", "#4B0082", "#8A2BE2"},
}

// DefaultPalette is used when no palette name is given.
const DefaultPalette = "retro"

// LookupPalette returns the named palette.
func LookupPalette(name string) (Palette, error) {
	hexes, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPalette, name)
	}
	return ParsePalette(hexes)
}

// ParsePalette builds a palette from "#RRGGBB" strings.
func ParsePalette(hexes []string) (Palette, error) {
	if len(hexes) == 0 {
		return nil, errors.New("generate: palette has no colors")
	}
	p := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, fmt.Errorf("invalid palette color %q: %w", h, err)
		}
		r, g, b := c.RGB255()
		p = append(p, color.NRGBA{R: r, G: g, B: b, A: 255})
	}
	return p, nil
}

// PaletteNames returns the registered palette names in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Hex returns the palette as "#RRGGBB" strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return out
}
