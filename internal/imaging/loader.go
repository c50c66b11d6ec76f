package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
	"github.com/ironsheep/pixel-art-mcp/internal/snapshot"
)

// DefaultMaxDimension is the largest width or height kept after loading.
// Larger images are scaled down to fit, preserving aspect ratio.
const DefaultMaxDimension = 800

// Cache provides thread-safe caching of decoded pixel buffers keyed by file path.
//
// Every buffer is fitted to the cache's maximum dimension when it is loaded, so
// all pipeline work happens on the display-sized image.
//
// Buffers returned by Load are shared between callers and must be treated as
// read-only. The pipeline package always works on a clone.
//
// # Memory Management
//
// Cached buffers remain in memory until explicitly removed via Evict() or Clear().
type Cache struct {
	mu     sync.RWMutex
	maxDim int
	images map[string]*entry
}

type entry struct {
	buf          *pixel.Buffer
	sourceWidth  int
	sourceHeight int
}

// NewCache creates an empty cache that fits images to maxDimension. A value
// <= 0 disables fitting.
func NewCache(maxDimension int) *Cache {
	return &Cache{
		maxDim: maxDimension,
		images: make(map[string]*entry),
	}
}

// MaxDimension returns the fit limit of the cache.
func (c *Cache) MaxDimension() int {
	return c.maxDim
}

// Load returns the fitted buffer for path, decoding it on first use.
//
// PNG, JPEG, GIF, BMP, TIFF and WebP files are decoded with EXIF orientation
// applied. Files ending in .pxb are read as snapshots.
func (c *Cache) Load(path string) (*pixel.Buffer, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return e.buf, nil
}

func (c *Cache) load(path string) (*entry, error) {
	c.mu.RLock()
	if e, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	buf, err := Decode(path)
	if err != nil {
		return nil, err
	}

	e := &entry{
		buf:          Fit(buf, c.maxDim),
		sourceWidth:  buf.Width,
		sourceHeight: buf.Height,
	}

	c.mu.Lock()
	c.images[path] = e
	c.mu.Unlock()

	return e, nil
}

// Clear removes all buffers from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*entry)
	c.mu.Unlock()
}

// Evict removes the buffer cached for path. Unknown paths are ignored.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Decode reads the file at path into a new buffer without fitting it.
func Decode(path string) (*pixel.Buffer, error) {
	if strings.EqualFold(filepath.Ext(path), snapshot.Extension) {
		return snapshot.Load(path)
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	buf := pixel.FromImage(img)
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return buf, nil
}

// Fit scales buf down with bilinear filtering so that neither side exceeds
// maxDim. Buffers that already fit are returned as is.
func Fit(buf *pixel.Buffer, maxDim int) *pixel.Buffer {
	if maxDim <= 0 || (buf.Width <= maxDim && buf.Height <= maxDim) {
		return buf
	}

	w, h := FitSize(buf.Width, buf.Height, maxDim)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	src := buf.NRGBA()
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return &pixel.Buffer{Width: w, Height: h, Pix: dst.Pix}
}

// FitSize returns the dimensions of a width x height image scaled so that its
// longer side is maxDim. Neither side drops below 1.
func FitSize(width, height, maxDim int) (int, int) {
	if width >= height {
		h := height * maxDim / width
		return maxDim, max(h, 1)
	}
	w := width * maxDim / height
	return max(w, 1), maxDim
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the decoded image width in pixels.
	Width int `json:"width"`

	// Height is the decoded image height in pixels.
	Height int `json:"height"`

	// DisplayWidth is the width after fitting to the cache's maximum dimension.
	DisplayWidth int `json:"display_width"`

	// DisplayHeight is the height after fitting to the cache's maximum dimension.
	DisplayHeight int `json:"display_height"`

	// Format is derived from the file extension: "png", "jpeg", "gif", "bmp",
	// "tiff", "webp", "pxb" or "unknown".
	Format string `json:"format"`

	// HasAlpha reports whether any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads path into the cache and reports its metadata.
func LoadImageInfo(cache *Cache, path string) (*ImageInfo, error) {
	e, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &ImageInfo{
		Width:         e.sourceWidth,
		Height:        e.sourceHeight,
		DisplayWidth:  e.buf.Width,
		DisplayHeight: e.buf.Height,
		Format:        FormatFromPath(path),
		HasAlpha:      hasAlpha(e.buf),
		FileSizeBytes: stat.Size(),
	}, nil
}

// FormatFromPath names the image format implied by the extension of path.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	case snapshot.Extension:
		return "pxb"
	}
	return "unknown"
}

func hasAlpha(buf *pixel.Buffer) bool {
	for i := 3; i < len(buf.Pix); i += pixel.Channels {
		if buf.Pix[i] != 255 {
			return true
		}
	}
	return false
}
