package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Channels is the number of samples per pixel.
const Channels = 4

var (
	// ErrEmptyBuffer is returned when a buffer has no pixels.
	ErrEmptyBuffer = errors.New("pixel: empty buffer")

	// ErrSizeMismatch is returned when len(Pix) does not match Width*Height*4.
	ErrSizeMismatch = errors.New("pixel: sample count does not match dimensions")
)

// Buffer is a rectangular grid of RGBA8 samples, row-major, origin top-left.
//
// Alpha is straight (not premultiplied), matching image.NRGBA.
type Buffer struct {
	// Width is the number of columns.
	Width int

	// Height is the number of rows.
	Height int

	// Pix holds Width*Height*4 samples in R, G, B, A order.
	Pix []uint8
}

// New allocates a zeroed (fully transparent black) buffer.
//
// Negative dimensions are treated as zero.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// FromImage copies any image.Image into a new Buffer.
//
// The source is converted to straight alpha with imaging.Clone, so images decoded
// as premultiplied RGBA come out with the same values a canvas would report.
// The result is rebased so that the image's top-left corner is (0, 0).
func FromImage(img image.Image) *Buffer {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	buf := New(w, h)
	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*Channels]
		copy(buf.Pix[y*w*Channels:], src)
	}
	return buf
}

// Validate reports whether the buffer is non-empty and its sample slice matches
// its dimensions.
func (b *Buffer) Validate() error {
	if b == nil || b.Width <= 0 || b.Height <= 0 {
		return ErrEmptyBuffer
	}
	if len(b.Pix) != b.Width*b.Height*Channels {
		return fmt.Errorf("%w: %dx%d needs %d samples, have %d",
			ErrSizeMismatch, b.Width, b.Height, b.Width*b.Height*Channels, len(b.Pix))
	}
	return nil
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Offset returns the index of the red sample of pixel (x, y).
//
// The coordinates are not bounds-checked; use InBounds first when they may be
// outside the buffer.
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * Channels
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// At returns the color of pixel (x, y). Out-of-bounds coordinates yield the
// zero color.
func (b *Buffer) At(x, y int) color.NRGBA {
	if !b.InBounds(x, y) {
		return color.NRGBA{}
	}
	i := b.Offset(x, y)
	return color.NRGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// Set writes the color of pixel (x, y). Out-of-bounds writes are ignored.
func (b *Buffer) Set(x, y int, c color.NRGBA) {
	if !b.InBounds(x, y) {
		return
	}
	i := b.Offset(x, y)
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	b.Pix[i+3] = c.A
}

// SetChannel stores v into sample i using the buffer's storage rule.
func (b *Buffer) SetChannel(i int, v float64) {
	b.Pix[i] = ClampByte(v)
}

// Transparent reports whether the pixel at offset i has alpha == 0.
func (b *Buffer) Transparent(i int) bool {
	return b.Pix[i+3] == 0
}

// ForEachVisible calls fn for every pixel whose alpha is non-zero, in raster
// order: top to bottom, left to right. i is the pixel's sample offset.
//
// The order is guaranteed. Callers that write to pixels not yet visited rely on
// it.
func (b *Buffer) ForEachVisible(fn func(x, y, i int)) {
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			i := b.Offset(x, y)
			if b.Pix[i+3] == 0 {
				continue
			}
			fn(x, y, i)
		}
	}
}

// NRGBA returns an *image.NRGBA that shares the buffer's samples.
//
// Writes through the returned image are visible in the buffer and vice versa.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * Channels,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// SameSize reports whether two buffers have identical dimensions.
func (b *Buffer) SameSize(o *Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height
}

// ClampByte applies the storage rule: clamp v to [0, 255], then truncate.
func ClampByte(v float64) uint8 {
	if v <= 0 || v != v {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
