// Package imaging is the file and display boundary of the pixel-art tools.
//
// It decodes image files into pixel buffers, fits them to a maximum display
// size, renders buffers as base64 PNG for MCP responses, exports them to disk,
// draws the block grid overlay and reports colors.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Supported Formats
//
// Decoding goes through github.com/disintegration/imaging with EXIF
// auto-orientation and covers PNG, JPEG, GIF, BMP, TIFF and WebP. Export
// covers the same formats except WebP. Files with the .pxb extension are read
// and written with the snapshot package, which, unlike PNG, keeps the color of
// fully transparent pixels.
//
// # Thread Safety
//
// The Cache type is safe for concurrent use. Buffers it returns are shared and
// must not be modified; every other function in this package either reads its
// input or works on a copy.
//
// # Color Representation
//
// Colors are returned in multiple formats:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
package imaging
