// Package pipeline composes the adjustments, the resampler, the ditherer and
// the stylization effects into the pixel-art rendering used by the server and
// the CLI.
//
// The stages run in a fixed order:
//
//  1. tonal adjustments (brightness, contrast, saturation)
//  2. Downsample by PixelSize
//  3. noise, dither, invert, outline on the small image
//  4. Upscale back to the source size (Process only)
//
// Stylization runs on the small image so that a dithered or outlined pixel is
// one block wide in the upscaled result.
//
// The source buffer is never modified.
package pipeline

import (
	"fmt"

	"github.com/ironsheep/pixel-art-mcp/internal/dither"
	"github.com/ironsheep/pixel-art-mcp/internal/effects"
	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
	"github.com/ironsheep/pixel-art-mcp/internal/resample"
)

// DefaultPixelSize is the block size used when none is given.
const DefaultPixelSize = 8

// Settings controls a pipeline run. The zero value of every optional stage
// disables it.
type Settings struct {
	// PixelSize is the block edge in source pixels. Values <= 1 skip pixelation.
	PixelSize int `json:"pixel_size"`

	// Adjust holds the tonal adjustments applied before pixelation.
	Adjust effects.Adjustments `json:"adjust"`

	// NoiseIntensity adds seeded noise when > 0.
	NoiseIntensity float64 `json:"noise_intensity"`

	// Seed initializes the noise generator.
	Seed uint64 `json:"seed"`

	// DitherLevels dithers to this many levels per channel when >= 2.
	DitherLevels int `json:"dither_levels"`

	// Invert inverts colors after dithering.
	Invert bool `json:"invert"`

	// OutlineThickness draws a black outline around visible shapes when > 0.
	OutlineThickness int `json:"outline_thickness"`
}

// DefaultSettings returns the settings of a fresh session: 8-pixel blocks and
// no adjustments.
func DefaultSettings() Settings {
	return Settings{PixelSize: DefaultPixelSize}
}

// Validate checks the settings without running anything.
func (s Settings) Validate() error {
	if err := s.Adjust.Validate(); err != nil {
		return err
	}
	if s.DitherLevels == 1 || s.DitherLevels < 0 {
		return fmt.Errorf("dither_levels: %w", dither.ErrInvalidLevels)
	}
	if s.NoiseIntensity < 0 || s.NoiseIntensity > 1 {
		return fmt.Errorf("noise_intensity: %w", effects.ErrInvalidIntensity)
	}
	if s.OutlineThickness < 0 {
		return fmt.Errorf("outline_thickness: %w", effects.ErrInvalidThickness)
	}
	return nil
}

// Process renders src as pixel art at its original size.
func Process(src *pixel.Buffer, s Settings) (*pixel.Buffer, error) {
	small, err := ProcessSmall(src, s)
	if err != nil {
		return nil, err
	}
	if s.PixelSize <= 1 {
		return small, nil
	}
	return resample.Upscale(small, src.Width, src.Height)
}

// ProcessSmall renders src as pixel art at the downsampled size, one pixel per
// block. When PixelSize <= 1 or the block is larger than the image, the result
// has the source size.
func ProcessSmall(src *pixel.Buffer, s Settings) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	working := src.Clone()
	if err := effects.AdjustAll(working, s.Adjust); err != nil {
		return nil, err
	}

	small := working
	if s.PixelSize > 1 {
		var err error
		small, err = resample.Downsample(working, s.PixelSize)
		if err != nil {
			return nil, err
		}
	}

	if err := stylize(small, s); err != nil {
		return nil, err
	}
	return small, nil
}

// ApplyEffect runs fn on a copy of src and returns the copy.
func ApplyEffect(src *pixel.Buffer, fn effects.Func, p effects.Params) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	working := src.Clone()
	if err := fn(working, p); err != nil {
		return nil, err
	}
	return working, nil
}

func stylize(buf *pixel.Buffer, s Settings) error {
	if s.NoiseIntensity > 0 {
		if err := effects.AddNoise(buf, s.NoiseIntensity, effects.NewRand(s.Seed)); err != nil {
			return err
		}
	}
	if s.DitherLevels >= 2 {
		if err := dither.Dither(buf, s.DitherLevels); err != nil {
			return err
		}
	}
	if s.Invert {
		if err := effects.Invert(buf); err != nil {
			return err
		}
	}
	if s.OutlineThickness > 0 {
		if err := effects.Outline(buf, s.OutlineThickness); err != nil {
			return err
		}
	}
	return nil
}
