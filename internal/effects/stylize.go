package effects

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
)

// DefaultNoiseIntensity is used when no intensity is given.
const DefaultNoiseIntensity = 0.1

// DefaultOutlineThickness is used when no thickness is given.
const DefaultOutlineThickness = 1

var (
	// ErrInvalidIntensity is returned for a noise intensity outside [0, 1].
	ErrInvalidIntensity = errors.New("effects: noise intensity must be within [0, 1]")

	// ErrInvalidThickness is returned for an outline thickness below 1.
	ErrInvalidThickness = errors.New("effects: outline thickness must be at least 1")
)

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// AddNoise adds one random offset per visible pixel to all three color
// channels. The offset is uniform in [-0.5, 0.5) * 255 * intensity.
//
// Pixels are visited in raster order, one draw per visible pixel, so the same
// seed always produces the same result.
func AddNoise(buf *pixel.Buffer, intensity float64, rng *rand.Rand) error {
	if intensity < 0 || intensity > 1 || intensity != intensity {
		return fmt.Errorf("%w: got %v", ErrInvalidIntensity, intensity)
	}
	if rng == nil {
		return errors.New("effects: noise requires a random source")
	}
	if err := buf.Validate(); err != nil {
		return err
	}

	buf.ForEachVisible(func(_, _, i int) {
		n := (rng.Float64() - 0.5) * 255 * intensity
		for c := 0; c < 3; c++ {
			buf.SetChannel(i+c, float64(buf.Pix[i+c])+n)
		}
	})
	return nil
}

// Outline draws an opaque black border of the given thickness around the
// visible shapes of buf.
//
// A pixel that was transparent before the call becomes opaque black when any
// pixel within thickness steps (a square neighborhood, with coordinates clamped
// to the image) was visible before the call. Visible pixels are never changed.
func Outline(buf *pixel.Buffer, thickness int) error {
	if thickness < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidThickness, thickness)
	}
	if err := buf.Validate(); err != nil {
		return err
	}

	original := buf.Clone()
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			i := buf.Offset(x, y)
			if !original.Transparent(i) {
				continue
			}
			if !hasVisibleNeighbor(original, x, y, thickness) {
				continue
			}
			buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = 0, 0, 0, 255
		}
	}
	return nil
}

func hasVisibleNeighbor(b *pixel.Buffer, x, y, thickness int) bool {
	for oy := -thickness; oy <= thickness; oy++ {
		ny := clamp(y+oy, 0, b.Height-1)
		for ox := -thickness; ox <= thickness; ox++ {
			nx := clamp(x+ox, 0, b.Width-1)
			if !b.Transparent(b.Offset(nx, ny)) {
				return true
			}
		}
	}
	return false
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
