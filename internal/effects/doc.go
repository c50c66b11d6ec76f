// Package effects provides the elementwise tonal adjustments and stylization
// effects that surround the resampling core.
//
// Every function mutates the buffer it is given. Run effects on a copy (see
// pipeline.ApplyEffect) when the source must be preserved.
//
// # Transparency
//
// Brightness, contrast, saturation and noise skip pixels whose alpha is 0.
// Invert changes the color of every pixel. Outline writes only to pixels that
// were transparent before it ran.
//
// # Concurrency
//
// Independent per-pixel maps split the rows across goroutines with
// bild/parallel. Noise consumes a caller-supplied random source and therefore
// runs sequentially, which keeps a given seed reproducible.
package effects
