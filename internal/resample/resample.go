// Package resample turns a buffer into block art: Downsample averages square
// blocks into single pixels, and Upscale replicates pixels back into hard-edged
// blocks with nearest-neighbor sampling.
//
// Both operations allocate and return a new buffer and never modify their
// input. They are deterministic and single-threaded.
package resample

import (
	"errors"
	"fmt"

	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
)

var (
	// ErrInvalidBlockSize is returned by Downsample for a block size below 1.
	ErrInvalidBlockSize = errors.New("resample: block size must be at least 1")

	// ErrInvalidDimensions is returned by Upscale for a target size below 1x1.
	ErrInvalidDimensions = errors.New("resample: target dimensions must be at least 1x1")
)

// Downsample averages blockSize x blockSize blocks of src into single pixels.
//
// The result is (src.Width/blockSize) x (src.Height/blockSize). When either
// dimension would be zero (the block is larger than the image) src itself is
// returned unchanged and no error is reported; callers can detect this case
// by comparing the result to src.
//
// Every channel, alpha included, is the arithmetic mean of the samples in the
// block, truncated to an integer. Blocks are clipped to the source bounds and
// divided by the number of samples actually visited, so a partial block at the
// edge is not darkened by phantom zeros.
func Downsample(src *pixel.Buffer, blockSize int) (*pixel.Buffer, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBlockSize, blockSize)
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("failed to downsample: %w", err)
	}

	targetWidth := src.Width / blockSize
	targetHeight := src.Height / blockSize
	if targetWidth == 0 || targetHeight == 0 {
		return src, nil
	}

	dst := pixel.New(targetWidth, targetHeight)
	for y := 0; y < targetHeight; y++ {
		srcY := y * blockSize
		endY := min(srcY+blockSize, src.Height)
		for x := 0; x < targetWidth; x++ {
			srcX := x * blockSize
			endX := min(srcX+blockSize, src.Width)

			var sum [pixel.Channels]uint64
			var count uint64
			for sy := srcY; sy < endY; sy++ {
				row := src.Offset(srcX, sy)
				for sx := srcX; sx < endX; sx++ {
					sum[0] += uint64(src.Pix[row])
					sum[1] += uint64(src.Pix[row+1])
					sum[2] += uint64(src.Pix[row+2])
					sum[3] += uint64(src.Pix[row+3])
					row += pixel.Channels
					count++
				}
			}

			i := dst.Offset(x, y)
			for c := 0; c < pixel.Channels; c++ {
				// The mean of bytes is itself within [0, 255].
				dst.Pix[i+c] = uint8(sum[c] / count)
			}
		}
	}

	return dst, nil
}

// Upscale resizes src to targetWidth x targetHeight with nearest-neighbor
// sampling. Target pixel (x, y) copies source pixel
// (floor(x/scaleX), floor(y/scaleY)) where scaleX = targetWidth/src.Width and
// scaleY = targetHeight/src.Height. No interpolation is performed.
//
// The floor is computed as x*src.Width/targetWidth in integer arithmetic,
// which is exact and always lands inside the source.
func Upscale(src *pixel.Buffer, targetWidth, targetHeight int) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("failed to upscale: %w", err)
	}
	if targetWidth < 1 || targetHeight < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, targetWidth, targetHeight)
	}

	// Precompute the source column for each target column.
	cols := make([]int, targetWidth)
	for x := range cols {
		cols[x] = x * src.Width / targetWidth
	}

	dst := pixel.New(targetWidth, targetHeight)
	for y := 0; y < targetHeight; y++ {
		srcY := y * src.Height / targetHeight
		for x, srcX := range cols {
			si := src.Offset(srcX, srcY)
			di := dst.Offset(x, y)
			copy(dst.Pix[di:di+pixel.Channels], src.Pix[si:si+pixel.Channels])
		}
	}

	return dst, nil
}

// Pixelate runs the block-art preview pipeline: Downsample by blockSize, then
// Upscale back to the source dimensions.
//
// The result is always a new buffer the size of src, even when the block is
// larger than the image.
func Pixelate(src *pixel.Buffer, blockSize int) (*pixel.Buffer, error) {
	small, err := Downsample(src, blockSize)
	if err != nil {
		return nil, err
	}
	return Upscale(small, src.Width, src.Height)
}
