// Package pixel defines Buffer, the RGBA8 pixel grid shared by every transform
// in this module.
//
// # Layout
//
// A Buffer stores Width*Height samples of four bytes each, in R, G, B, A order.
// Rows are stored top to bottom and pixels left to right, so the byte offset of
// pixel (x, y) is:
//
//	(y*Width + x) * 4
//
// The layout is identical to image.NRGBA with Stride == Width*4, which lets the
// buffer be handed to encoders without copying (see Buffer.NRGBA).
//
// # Storage Rule
//
// Transforms compute intermediate channel values as float64. Such values are
// stored with ClampByte: clamped to [0, 255] and truncated toward zero. Nothing
// in this module stores an out-of-range value by wrapping.
//
// # Transparency
//
// Pixels with alpha == 0 are "fully transparent". ForEachVisible skips them,
// which is how color effects honor the transparency exemption. Resampling does
// not use ForEachVisible: it averages alpha like any other channel.
//
// # Ownership
//
// A transform either mutates the buffer it receives or returns a freshly
// allocated one. Buffers are not safe for concurrent mutation; distinct buffers
// may be processed concurrently.
package pixel
