// Package generate creates procedural pixel art: mirrored sprites, smoothed
// value-noise patterns and side-view landscapes.
//
// Every generator draws from a caller-supplied *rand.Rand, so a fixed seed
// always reproduces the same image.
package generate

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
)

// Kinds of generated images.
const (
	KindSprite    = "sprite"
	KindNoise     = "noise"
	KindLandscape = "landscape"
)

// noiseScale is the sampling step through the noise field per pixel for
// patterns; landscapes use landscapeScale.
const (
	noiseScale     = 0.1
	landscapeScale = 0.05
)

// ErrInvalidSize is returned for a width or height below 1.
var ErrInvalidSize = errors.New("generate: width and height must be at least 1")

// Generate dispatches to the generator named by kind.
func Generate(kind string, width, height int, p Palette, rng *rand.Rand) (*pixel.Buffer, error) {
	switch kind {
	case KindSprite:
		return Sprite(width, height, p, rng)
	case KindNoise:
		return NoisePattern(width, height, p, rng.Float64()*1000)
	case KindLandscape:
		return Landscape(width, height, p, rng)
	default:
		return nil, fmt.Errorf("unknown generator kind: %s", kind)
	}
}

// Sprite draws a horizontally symmetric sprite. Each pixel of the left half is
// filled with probability 1/2 using a random palette color and mirrored onto
// the right half. For odd widths the center column stays transparent.
func Sprite(width, height int, p Palette, rng *rand.Rand) (*pixel.Buffer, error) {
	if err := checkArgs(width, height, p, 1); err != nil {
		return nil, err
	}

	buf := pixel.New(width, height)
	half := width / 2
	for y := 0; y < height; y++ {
		for x := 0; x < half; x++ {
			if rng.Float64() <= 0.5 {
				continue
			}
			c := p[rng.IntN(len(p))]
			buf.Set(x, y, c)
			buf.Set(width-1-x, y, c)
		}
	}
	return buf, nil
}

// NoisePattern maps a smoothed noise field onto the palette. Low noise values
// pick early palette entries.
func NoisePattern(width, height int, p Palette, seed float64) (*pixel.Buffer, error) {
	if err := checkArgs(width, height, p, 1); err != nil {
		return nil, err
	}

	buf := pixel.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := smoothNoise(float64(x)*noiseScale, float64(y)*noiseScale, seed)
			idx := min(int(math.Floor(v*float64(len(p)))), len(p)-1)
			buf.Set(x, y, p[idx])
		}
	}
	return buf, nil
}

// Landscape draws sky, a three-pixel surface band and ground below a noise
// height map. The palette needs at least three colors.
func Landscape(width, height int, p Palette, rng *rand.Rand) (*pixel.Buffer, error) {
	if err := checkArgs(width, height, p, 3); err != nil {
		return nil, err
	}

	seed := rng.Float64() * 1000
	sky, surface, ground := p[0], p[1], p[2]

	buf := pixel.New(width, height)
	for x := 0; x < width; x++ {
		v := smoothNoise(float64(x)*landscapeScale, 0, seed)
		terrain := int(math.Floor(v*float64(height)*0.5)) + int(math.Floor(float64(height)*0.25))

		for y := 0; y < height; y++ {
			var c color.NRGBA
			switch {
			case y < terrain:
				c = sky
			case y < terrain+3:
				c = surface
			default:
				c = ground
			}
			buf.Set(x, y, c)
		}
	}
	return buf, nil
}

// noise2D hashes a lattice point to [0, 1).
func noise2D(x, y, seed float64) float64 {
	n := math.Sin(x*12.9898+y*78.233+seed) * 43758.5453
	return n - math.Floor(n)
}

// smoothNoise bilinearly interpolates noise2D between lattice points.
func smoothNoise(x, y, seed float64) float64 {
	x1, y1 := math.Floor(x), math.Floor(y)
	fx, fy := x-x1, y-y1

	v1 := noise2D(x1, y1, seed)
	v2 := noise2D(x1+1, y1, seed)
	v3 := noise2D(x1, y1+1, seed)
	v4 := noise2D(x1+1, y1+1, seed)

	i1 := v1*(1-fx) + v2*fx
	i2 := v3*(1-fx) + v4*fx
	return i1*(1-fy) + i2*fy
}

func checkArgs(width, height int, p Palette, minColors int) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	if len(p) < minColors {
		return fmt.Errorf("generate: palette needs at least %d colors, has %d", minColors, len(p))
	}
	return nil
}
