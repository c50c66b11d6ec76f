// Package server implements the MCP (Model Context Protocol) server for the
// pixel-art tools.
//
// This package provides a JSON-RPC 2.0 server that exposes pixelation,
// dithering, stylization and procedural generation through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - pixelart_load: Load an image and get its metadata
//
// Rendering:
//   - pixelart_pixelate: Full pipeline, returned as base64 PNG
//   - pixelart_dither: Pixelate and dither to N levels per channel
//   - pixelart_effect: Apply one effect without pixelating
//   - pixelart_export: Write the small or large rendition to disk
//
// Colors:
//   - pixelart_palette: Most frequent colors of the pixelated image
//   - pixelart_sample_color: Color of one block
//
// Generation:
//   - pixelart_generate: Sprite, noise pattern or landscape
//   - pixelart_palettes: Named palettes and effect names
//
// # Image Caching
//
// Loaded images are cached by path for the lifetime of the process, already
// fitted to the configured maximum dimension. Every tool works on a copy, so
// repeated calls with different settings always start from the same source.
//
// # Configuration
//
// ConfigFromEnv reads:
//   - PIXELART_LOG_LEVEL=debug: log each request and tool timing to stderr
//   - PIXELART_MAX_DIMENSION: longest side kept after loading (default 800)
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(server.ConfigFromEnv())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
