package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "pixelart_load",
			Description: "Load an image file (PNG, JPEG, GIF, BMP, TIFF, WebP or .pxb snapshot) and return its dimensions, display size and format. Images larger than the display limit are scaled down before any processing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Rendering
		{
			Name:        "pixelart_pixelate",
			Description: "Turn an image into pixel art: adjust tones, average each pixel_size block into one pixel, optionally add noise, dither, invert or outline, and return the result as base64 PNG at the original size (large) or one pixel per block (small).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSettings(map[string]interface{}{
					"path": pathProperty(),
					"output": map[string]interface{}{
						"type":        "string",
						"enum":        []string{outputLarge, outputSmall},
						"description": "large returns the upscaled image, small one pixel per block. Default large",
						"default":     outputLarge,
					},
					"show_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw a line along every block boundary (large output only)",
						"default":     false,
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid color as #RRGGBB or #RRGGBBAA. Default #FF000080",
						"default":     "#FF000080",
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixelart_dither",
			Description: "Pixelate an image and apply Floyd-Steinberg error diffusion so each channel uses only the given number of evenly spaced levels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"levels": map[string]interface{}{
						"type":        "integer",
						"description": "Quantization levels per channel, at least 2. Default 2",
						"default":     2,
						"minimum":     2,
					},
					"pixel_size": pixelSizeProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixelart_effect",
			Description: "Apply a single effect to a copy of the loaded image without pixelating it, and return the result as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"effect": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"brightness", "contrast", "invert", "noise", "outline", "saturation"},
						"description": "Effect to apply",
					},
					"amount": map[string]interface{}{
						"type":        "number",
						"description": "Adjustment amount for brightness, contrast and saturation (-100 to 100)",
						"minimum":     -100,
						"maximum":     100,
					},
					"intensity": map[string]interface{}{
						"type":        "number",
						"description": "Noise strength (0 to 1). Default 0.1",
						"default":     0.1,
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Noise seed. The same seed reproduces the same noise",
					},
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Outline thickness in pixels. Default 1",
						"default":     1,
					},
				},
				"required": []string{"path", "effect"},
			},
		},
		{
			Name:        "pixelart_export",
			Description: "Render pixel art and write it to disk. The format follows the output extension (.png, .jpg, .gif, .bmp, .tiff, or .pxb for a lossless snapshot).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSettings(map[string]interface{}{
					"path": pathProperty(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path of the file to write",
					},
					"size": map[string]interface{}{
						"type":        "string",
						"enum":        []string{outputLarge, outputSmall},
						"description": "large writes the upscaled image, small one pixel per block. Default large",
						"default":     outputLarge,
					},
				}),
				"required": []string{"path", "output_path"},
			},
		},

		// Colors
		{
			Name:        "pixelart_palette",
			Description: "List the most frequent exact colors of the pixelated image, ignoring transparent pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty(),
					"pixel_size": pixelSizeProperty(),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of colors to return. Default 8",
						"default":     8,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "pixelart_sample_color",
			Description: "Get the color of one pixel of the small pixelated image, where each pixel is one block.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty(),
					"pixel_size": pixelSizeProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Block column (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Block row (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Generation
		{
			Name:        "pixelart_generate",
			Description: "Generate procedural pixel art from a palette: a mirrored sprite, a smoothed noise pattern or a side-view landscape. Returns base64 PNG and optionally writes a file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"kind": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"sprite", "noise", "landscape"},
						"description": "What to generate. Default sprite",
						"default":     "sprite",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Width in pixels. Default 32",
						"default":     32,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Height in pixels. Default 32",
						"default":     32,
					},
					"palette": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"cyberpunk", "nature", "retro", "sunset"},
						"description": "Named palette. Default retro",
						"default":     "retro",
					},
					"colors": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Custom palette as #RRGGBB strings; overrides palette",
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Random seed. The same seed reproduces the same image",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write; format follows the extension",
					},
				},
			},
		},
		{
			Name:        "pixelart_palettes",
			Description: "List the named palettes and the available effects.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func pixelSizeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Block size in pixels; 1 disables pixelation. Default 8",
		"default":     8,
		"minimum":     1,
	}
}

// withSettings adds the pipeline settings shared by pixelate and export to props.
func withSettings(props map[string]interface{}) map[string]interface{} {
	props["pixel_size"] = pixelSizeProperty()
	for _, name := range []string{"brightness", "contrast", "saturation"} {
		props[name] = map[string]interface{}{
			"type":        "number",
			"description": "Adjustment applied before pixelation (-100 to 100). Default 0",
			"minimum":     -100,
			"maximum":     100,
		}
	}
	props["dither_levels"] = map[string]interface{}{
		"type":        "integer",
		"description": "Dither to this many levels per channel (at least 2). 0 disables dithering",
	}
	props["noise"] = map[string]interface{}{
		"type":        "number",
		"description": "Noise intensity (0 to 1). 0 disables noise",
	}
	props["seed"] = map[string]interface{}{
		"type":        "integer",
		"description": "Noise seed",
	}
	props["invert"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Invert colors",
		"default":     false,
	}
	props["outline"] = map[string]interface{}{
		"type":        "integer",
		"description": "Outline thickness around visible shapes in blocks. 0 disables the outline",
	}
	return props
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
