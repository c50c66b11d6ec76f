package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
)

// DefaultGridColor is a semi-transparent red.
const DefaultGridColor = "#FF000080"

// GridOverlay returns a copy of buf with a line drawn along every block
// boundary, one pixel wide, every spacing pixels. The line color is blended
// over the image using its alpha; an invalid color falls back to
// DefaultGridColor.
func GridOverlay(buf *pixel.Buffer, spacing int, colorHex string) (*pixel.Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if spacing < 1 {
		return nil, fmt.Errorf("grid spacing must be at least 1, got %d", spacing)
	}

	gridColor, err := parseHexColor(colorHex)
	if err != nil {
		gridColor, _ = parseHexColor(DefaultGridColor)
	}

	out := buf.Clone()

	// Vertical lines
	for x := spacing; x < out.Width; x += spacing {
		for y := 0; y < out.Height; y++ {
			blend(out, x, y, gridColor)
		}
	}

	// Horizontal lines, skipping the crossings already drawn
	for y := spacing; y < out.Height; y += spacing {
		for x := 0; x < out.Width; x++ {
			if x%spacing == 0 && x > 0 {
				continue
			}
			blend(out, x, y, gridColor)
		}
	}

	return out, nil
}

// blend composites c over pixel (x, y) with straight alpha.
func blend(buf *pixel.Buffer, x, y int, c color.NRGBA) {
	i := buf.Offset(x, y)
	a := float64(c.A) / 255
	dstA := float64(buf.Pix[i+3]) / 255

	outA := a + dstA*(1-a)
	if outA == 0 {
		return
	}
	for ch, v := range [3]uint8{c.R, c.G, c.B} {
		mixed := (float64(v)*a + float64(buf.Pix[i+ch])*dstA*(1-a)) / outA
		buf.SetChannel(i+ch, mixed+0.5)
	}
	buf.SetChannel(i+3, outA*255+0.5)
}

// parseHexColor parses "#RRGGBB" or "#RRGGBBAA". Alpha defaults to 255.
func parseHexColor(hex string) (color.NRGBA, error) {
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	hex = strings.TrimPrefix(hex, "#")

	alpha := uint64(255)
	switch len(hex) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", hex, err)
		}
		alpha = a
		hex = hex[:6]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha)}, nil
}
