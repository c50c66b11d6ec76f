package effects

import (
	"errors"
	"fmt"

	"github.com/anthonynsimon/bild/math/f64"
	"github.com/anthonynsimon/bild/parallel"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
)

// MaxAmount bounds every adjustment amount to [-MaxAmount, MaxAmount].
const MaxAmount = 100

// ErrInvalidAmount is returned for an adjustment amount outside [-100, 100].
var ErrInvalidAmount = errors.New("effects: adjustment amount must be within [-100, 100]")

// Adjustments groups the three tonal adjustments. Each amount is in
// [-100, 100]; zero leaves the image unchanged.
type Adjustments struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
}

// IsZero reports whether applying a would be a no-op.
func (a Adjustments) IsZero() bool {
	return a.Brightness == 0 && a.Contrast == 0 && a.Saturation == 0
}

// Validate checks every amount against the allowed range.
func (a Adjustments) Validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"brightness", a.Brightness},
		{"contrast", a.Contrast},
		{"saturation", a.Saturation},
	} {
		if err := checkAmount(v.value); err != nil {
			return fmt.Errorf("%s: %w", v.name, err)
		}
	}
	return nil
}

// AdjustAll applies brightness, then contrast, then saturation, skipping any
// amount that is zero.
func AdjustAll(buf *pixel.Buffer, a Adjustments) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.Brightness != 0 {
		if err := AdjustBrightness(buf, a.Brightness); err != nil {
			return err
		}
	}
	if a.Contrast != 0 {
		if err := AdjustContrast(buf, a.Contrast); err != nil {
			return err
		}
	}
	if a.Saturation != 0 {
		if err := AdjustSaturation(buf, a.Saturation); err != nil {
			return err
		}
	}
	return nil
}

// AdjustBrightness adds value/100*255 to each color channel.
func AdjustBrightness(buf *pixel.Buffer, value float64) error {
	if err := checkAmount(value); err != nil {
		return err
	}
	offset := value / 100 * 255
	return mapVisible(buf, func(c float64) float64 {
		return c + offset
	})
}

// AdjustContrast scales each color channel around 128 by the classic
// 259*(v+255) / (255*(259-v)) contrast factor.
func AdjustContrast(buf *pixel.Buffer, value float64) error {
	if err := checkAmount(value); err != nil {
		return err
	}
	factor := (259 * (value + 255)) / (255 * (259 - value))
	return mapVisible(buf, func(c float64) float64 {
		return factor*(c-128) + 128
	})
}

// AdjustSaturation shifts HSL saturation by value/100, clamped to [0, 1], and
// converts back to RGB with rounding.
func AdjustSaturation(buf *pixel.Buffer, value float64) error {
	if err := checkAmount(value); err != nil {
		return err
	}
	if err := buf.Validate(); err != nil {
		return err
	}
	shift := value / 100

	parallel.Line(buf.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < buf.Width; x++ {
				i := buf.Offset(x, y)
				if buf.Transparent(i) {
					continue
				}
				c := colorful.Color{
					R: float64(buf.Pix[i]) / 255,
					G: float64(buf.Pix[i+1]) / 255,
					B: float64(buf.Pix[i+2]) / 255,
				}
				h, s, l := c.Hsl()
				r, g, b := colorful.Hsl(h, f64.Clamp(s+shift, 0, 1), l).Clamped().RGB255()
				buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2] = r, g, b
			}
		}
	})
	return nil
}

// Invert replaces each color channel c with 255-c on every pixel, transparent
// ones included. Alpha is left alone.
func Invert(buf *pixel.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	parallel.Line(buf.Height, func(start, end int) {
		row := buf.Width * pixel.Channels
		for i := start * row; i < end*row; i += pixel.Channels {
			buf.Pix[i] = 255 - buf.Pix[i]
			buf.Pix[i+1] = 255 - buf.Pix[i+1]
			buf.Pix[i+2] = 255 - buf.Pix[i+2]
		}
	})
	return nil
}

// mapVisible applies fn to the color channels of every visible pixel, one
// band of rows per goroutine.
func mapVisible(buf *pixel.Buffer, fn func(float64) float64) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	parallel.Line(buf.Height, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < buf.Width; x++ {
				i := buf.Offset(x, y)
				if buf.Transparent(i) {
					continue
				}
				for c := 0; c < 3; c++ {
					buf.SetChannel(i+c, f64.Clamp(fn(float64(buf.Pix[i+c])), 0, 255))
				}
			}
		}
	})
	return nil
}

func checkAmount(v float64) error {
	if v < -MaxAmount || v > MaxAmount || v != v {
		return fmt.Errorf("%w: got %v", ErrInvalidAmount, v)
	}
	return nil
}
