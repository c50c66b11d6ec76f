// Package snapshot stores pixel buffers losslessly in the .pxb format.
//
// A snapshot is a 12-byte header followed by one zstd frame:
//
//	offset  size  field
//	0       4     magic "PXB1"
//	4       4     width  (uint32, little endian)
//	8       4     height (uint32, little endian)
//	12      ...   zstd-compressed samples, width*height*4 bytes when decoded
//
// Unlike PNG export, a snapshot keeps the color of fully transparent pixels,
// so a buffer can be saved between pipeline stages and restored bit for bit.
package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
)

// Extension is the file extension used for snapshots.
const Extension = ".pxb"

// MaxDimension bounds the width and height accepted by Decode.
const MaxDimension = 1 << 15

const headerSize = 12

var magic = [4]byte{'P', 'X', 'B', '1'}

var (
	// ErrBadMagic is returned when the input does not start with "PXB1".
	ErrBadMagic = errors.New("snapshot: not a pxb snapshot")

	// ErrCorrupt is returned when the header and payload disagree.
	ErrCorrupt = errors.New("snapshot: corrupt payload")
)

var encPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		)
		if err != nil {
			panic(err)
		}
		return enc
	},
}

var decPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(true),
			zstd.WithDecoderMaxMemory(MaxDimension*MaxDimension*pixel.Channels),
		)
		if err != nil {
			panic(err)
		}
		return dec
	},
}

// Encode writes buf to w as a snapshot.
func Encode(w io.Writer, buf *pixel.Buffer) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if buf.Width > MaxDimension || buf.Height > MaxDimension {
		return fmt.Errorf("snapshot: %dx%d exceeds maximum dimension %d", buf.Width, buf.Height, MaxDimension)
	}

	header := make([]byte, headerSize)
	copy(header, magic[:])
	binary.LittleEndian.PutUint32(header[4:], uint32(buf.Width))
	binary.LittleEndian.PutUint32(header[8:], uint32(buf.Height))

	enc := encPool.Get().(*zstd.Encoder)
	payload := enc.EncodeAll(buf.Pix, header)
	encPool.Put(enc)

	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Decode reads a snapshot from r.
func Decode(r io.Reader) (*pixel.Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if len(data) < headerSize || [4]byte(data[:4]) != magic {
		return nil, ErrBadMagic
	}

	width := binary.LittleEndian.Uint32(data[4:8])
	height := binary.LittleEndian.Uint32(data[8:12])
	if width == 0 || height == 0 || width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrCorrupt, width, height)
	}

	want := int(width) * int(height) * pixel.Channels
	dec := decPool.Get().(*zstd.Decoder)
	pix, err := dec.DecodeAll(data[headerSize:], make([]byte, 0, want))
	decPool.Put(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(pix) != want {
		return nil, fmt.Errorf("%w: got %d samples, want %d", ErrCorrupt, len(pix), want)
	}

	return &pixel.Buffer{Width: int(width), Height: int(height), Pix: pix}, nil
}

// Save writes buf to a snapshot file at path.
func Save(buf *pixel.Buffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := Encode(f, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a snapshot file.
func Load(path string) (*pixel.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
