package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
	"github.com/ironsheep/pixel-art-mcp/internal/snapshot"
)

// RenderResult contains a buffer encoded as a base64 PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Render encodes buf as PNG and returns it base64 encoded.
func Render(buf *pixel.Buffer) (*RenderResult, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	if err := imaging.Encode(&b, buf.NRGBA(), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &RenderResult{
		Width:       buf.Width,
		Height:      buf.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(b.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// ExportResult describes a file written by Export.
type ExportResult struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Export writes buf to path. The format follows the extension: .png, .jpg,
// .jpeg, .gif, .bmp, .tif and .tiff are encoded as images, .pxb as a lossless
// snapshot.
func Export(buf *pixel.Buffer, path string) (*ExportResult, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), snapshot.Extension) {
		if err := snapshot.Save(buf, path); err != nil {
			return nil, err
		}
	} else {
		if _, err := imaging.FormatFromFilename(path); err != nil {
			return nil, fmt.Errorf("cannot export %s: %w", filepath.Base(path), err)
		}
		if err := imaging.Save(buf.NRGBA(), path); err != nil {
			return nil, fmt.Errorf("failed to save image: %w", err)
		}
	}

	return &ExportResult{
		Path:   path,
		Width:  buf.Width,
		Height: buf.Height,
		Format: FormatFromPath(path),
	}, nil
}
