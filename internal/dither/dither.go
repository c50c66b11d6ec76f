// Package dither reduces each color channel of a buffer to a fixed number of
// evenly spaced levels, diffusing the rounding error with the Floyd–Steinberg
// kernel so that gradients survive the reduction.
package dither

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
)

// DefaultLevels produces one bit per channel.
const DefaultLevels = 2

// ErrInvalidLevels is returned for fewer than two levels.
var ErrInvalidLevels = errors.New("dither: levels must be at least 2")

// neighbor is one tap of the diffusion kernel.
type neighbor struct {
	dx, dy int
	weight float64
}

// floydSteinberg lists the taps in the order they are applied.
var floydSteinberg = [...]neighbor{
	{dx: 1, dy: 0, weight: 7.0 / 16.0},
	{dx: -1, dy: 1, weight: 3.0 / 16.0},
	{dx: 0, dy: 1, weight: 5.0 / 16.0},
	{dx: 1, dy: 1, weight: 1.0 / 16.0},
}

// Dither quantizes buf in place to levels values per color channel.
//
// Pixels are visited in raster order. For each visible pixel and each of R, G
// and B, the channel is rounded to the nearest multiple of 255/(levels-1) and
// the difference is pushed into the right, bottom-left, bottom and
// bottom-right neighbors (7/16, 3/16, 5/16, 1/16), each clamped on store.
// Neighbors outside the buffer are skipped.
//
// Pixels with alpha == 0 are neither quantized nor used as an error source,
// but they still receive error from their visible neighbors. Alpha is never
// modified.
//
// Output depends on the scan order, so the pass is strictly sequential.
func Dither(buf *pixel.Buffer, levels int) error {
	if levels < 2 {
		return fmt.Errorf("%w: got %d", ErrInvalidLevels, levels)
	}
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("failed to dither: %w", err)
	}

	step := 255.0 / float64(levels-1)

	buf.ForEachVisible(func(x, y, i int) {
		for c := 0; c < 3; c++ {
			old := float64(buf.Pix[i+c])
			quantized := math.Round(old/step) * step
			buf.SetChannel(i+c, quantized)

			diff := old - quantized
			if diff == 0 {
				continue
			}
			for _, n := range floydSteinberg {
				nx, ny := x+n.dx, y+n.dy
				if !buf.InBounds(nx, ny) {
					continue
				}
				ni := buf.Offset(nx, ny) + c
				buf.SetChannel(ni, float64(buf.Pix[ni])+diff*n.weight)
			}
		}
	})

	return nil
}
