package server

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ironsheep/pixel-art-mcp/internal/dither"
	"github.com/ironsheep/pixel-art-mcp/internal/effects"
	"github.com/ironsheep/pixel-art-mcp/internal/generate"
	"github.com/ironsheep/pixel-art-mcp/internal/imaging"
	"github.com/ironsheep/pixel-art-mcp/internal/pipeline"
	"github.com/ironsheep/pixel-art-mcp/internal/pixel"
)

// Default tool arguments.
const (
	defaultPaletteCount   = 8
	defaultGenerateWidth  = 32
	defaultGenerateHeight = 32
)

// Output sizes for pixelate and export.
const (
	outputLarge = "large"
	outputSmall = "small"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "pixelart_load", "pixelart_pixelate").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if s.cfg.Debug {
		log.Printf("tool %s finished in %s (err=%v)", params.Name, time.Since(start), err)
	}
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Runs the pipeline on a copy of the cached image
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "pixelart_load":
		return s.handleLoad(args)

	// Rendering
	case "pixelart_pixelate":
		return s.handlePixelate(args)
	case "pixelart_dither":
		return s.handleDither(args)
	case "pixelart_effect":
		return s.handleEffect(args)
	case "pixelart_export":
		return s.handleExport(args)

	// Colors
	case "pixelart_palette":
		return s.handlePalette(args)
	case "pixelart_sample_color":
		return s.handleSampleColor(args)

	// Generation
	case "pixelart_generate":
		return s.handleGenerate(args)
	case "pixelart_palettes":
		return s.handlePalettes(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, treating missing arguments as {}.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, v)
}

// settingsArgs are the pipeline arguments shared by pixelate and export.
type settingsArgs struct {
	PixelSize    int     `json:"pixel_size"`
	Brightness   float64 `json:"brightness"`
	Contrast     float64 `json:"contrast"`
	Saturation   float64 `json:"saturation"`
	DitherLevels int     `json:"dither_levels"`
	Noise        float64 `json:"noise"`
	Seed         uint64  `json:"seed"`
	Invert       bool    `json:"invert"`
	Outline      int     `json:"outline"`
}

func (a settingsArgs) settings() pipeline.Settings {
	s := pipeline.Settings{
		PixelSize: a.PixelSize,
		Adjust: effects.Adjustments{
			Brightness: a.Brightness,
			Contrast:   a.Contrast,
			Saturation: a.Saturation,
		},
		NoiseIntensity:   a.Noise,
		Seed:             a.Seed,
		DitherLevels:     a.DitherLevels,
		Invert:           a.Invert,
		OutlineThickness: a.Outline,
	}
	if s.PixelSize == 0 {
		s.PixelSize = pipeline.DefaultPixelSize
	}
	return s
}

// process loads path and runs the pipeline, returning the small or large
// rendition.
func (s *Server) process(path string, settings pipeline.Settings, output string) (*pixel.Buffer, error) {
	src, err := s.cache.Load(path)
	if err != nil {
		return nil, err
	}
	switch output {
	case outputLarge:
		return pipeline.Process(src, settings)
	case outputSmall:
		return pipeline.ProcessSmall(src, settings)
	default:
		return nil, fmt.Errorf("unknown output size: %s (want %s or %s)", output, outputLarge, outputSmall)
	}
}

// === Image Information ===

type loadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLoad(args json.RawMessage) (interface{}, error) {
	var a loadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Rendering ===

type pixelateArgs struct {
	Path string `json:"path"`
	settingsArgs
	Output    string `json:"output"`
	ShowGrid  bool   `json:"show_grid"`
	GridColor string `json:"grid_color"`
}

type pixelateResult struct {
	imaging.RenderResult
	PixelSize int    `json:"pixel_size"`
	Output    string `json:"output"`
}

func (s *Server) handlePixelate(args json.RawMessage) (interface{}, error) {
	var a pixelateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Output == "" {
		a.Output = outputLarge
	}
	if a.GridColor == "" {
		a.GridColor = imaging.DefaultGridColor
	}

	settings := a.settings()
	out, err := s.process(a.Path, settings, a.Output)
	if err != nil {
		return nil, err
	}

	// The grid marks block boundaries, which only exist in the large output.
	if a.ShowGrid && a.Output == outputLarge && settings.PixelSize > 1 {
		out, err = imaging.GridOverlay(out, settings.PixelSize, a.GridColor)
		if err != nil {
			return nil, err
		}
	}

	rendered, err := imaging.Render(out)
	if err != nil {
		return nil, err
	}
	return &pixelateResult{
		RenderResult: *rendered,
		PixelSize:    settings.PixelSize,
		Output:       a.Output,
	}, nil
}

type ditherArgs struct {
	Path      string `json:"path"`
	Levels    int    `json:"levels"`
	PixelSize int    `json:"pixel_size"`
}

func (s *Server) handleDither(args json.RawMessage) (interface{}, error) {
	var a ditherArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Levels == 0 {
		a.Levels = dither.DefaultLevels
	}
	if a.PixelSize == 0 {
		a.PixelSize = pipeline.DefaultPixelSize
	}

	out, err := s.process(a.Path, pipeline.Settings{PixelSize: a.PixelSize, DitherLevels: a.Levels}, outputLarge)
	if err != nil {
		return nil, err
	}
	return imaging.Render(out)
}

type effectArgs struct {
	Path      string  `json:"path"`
	Effect    string  `json:"effect"`
	Amount    float64 `json:"amount"`
	Intensity float64 `json:"intensity"`
	Seed      uint64  `json:"seed"`
	Thickness int     `json:"thickness"`
}

func (s *Server) handleEffect(args json.RawMessage) (interface{}, error) {
	var a effectArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Intensity == 0 {
		a.Intensity = effects.DefaultNoiseIntensity
	}
	if a.Thickness == 0 {
		a.Thickness = effects.DefaultOutlineThickness
	}

	fn, err := effects.Lookup(a.Effect)
	if err != nil {
		return nil, err
	}
	src, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	out, err := pipeline.ApplyEffect(src, fn, effects.Params{
		Amount:    a.Amount,
		Intensity: a.Intensity,
		Seed:      a.Seed,
		Thickness: a.Thickness,
	})
	if err != nil {
		return nil, err
	}
	return imaging.Render(out)
}

type exportArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
	Size       string `json:"size"`
	settingsArgs
}

type exportResult struct {
	imaging.ExportResult
	Size string `json:"size"`
}

func (s *Server) handleExport(args json.RawMessage) (interface{}, error) {
	var a exportArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.OutputPath == "" {
		return nil, fmt.Errorf("output_path is required")
	}
	if a.Size == "" {
		a.Size = outputLarge
	}

	out, err := s.process(a.Path, a.settings(), a.Size)
	if err != nil {
		return nil, err
	}

	written, err := imaging.Export(out, a.OutputPath)
	if err != nil {
		return nil, err
	}
	return &exportResult{ExportResult: *written, Size: a.Size}, nil
}

// === Colors ===

type paletteArgs struct {
	Path      string `json:"path"`
	PixelSize int    `json:"pixel_size"`
	Count     int    `json:"count"`
}

func (s *Server) handlePalette(args json.RawMessage) (interface{}, error) {
	var a paletteArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.PixelSize == 0 {
		a.PixelSize = pipeline.DefaultPixelSize
	}
	if a.Count == 0 {
		a.Count = defaultPaletteCount
	}

	small, err := s.process(a.Path, pipeline.Settings{PixelSize: a.PixelSize}, outputSmall)
	if err != nil {
		return nil, err
	}
	return imaging.Palette(small, a.Count)
}

type sampleColorArgs struct {
	Path      string `json:"path"`
	PixelSize int    `json:"pixel_size"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.PixelSize == 0 {
		a.PixelSize = pipeline.DefaultPixelSize
	}

	small, err := s.process(a.Path, pipeline.Settings{PixelSize: a.PixelSize}, outputSmall)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(small, a.X, a.Y)
}

// === Generation ===

type generateArgs struct {
	Kind       string   `json:"kind"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Palette    string   `json:"palette"`
	Colors     []string `json:"colors"`
	Seed       uint64   `json:"seed"`
	OutputPath string   `json:"output_path"`
}

type generateResult struct {
	imaging.RenderResult
	Kind       string   `json:"kind"`
	Seed       uint64   `json:"seed"`
	Palette    []string `json:"palette"`
	OutputPath string   `json:"output_path,omitempty"`
}

func (s *Server) handleGenerate(args json.RawMessage) (interface{}, error) {
	var a generateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Kind == "" {
		a.Kind = generate.KindSprite
	}
	if a.Width == 0 {
		a.Width = defaultGenerateWidth
	}
	if a.Height == 0 {
		a.Height = defaultGenerateHeight
	}
	if a.Palette == "" {
		a.Palette = generate.DefaultPalette
	}

	var (
		p   generate.Palette
		err error
	)
	if len(a.Colors) > 0 {
		p, err = generate.ParsePalette(a.Colors)
	} else {
		p, err = generate.LookupPalette(a.Palette)
	}
	if err != nil {
		return nil, err
	}

	buf, err := generate.Generate(a.Kind, a.Width, a.Height, p, effects.NewRand(a.Seed))
	if err != nil {
		return nil, err
	}

	if a.OutputPath != "" {
		if _, err := imaging.Export(buf, a.OutputPath); err != nil {
			return nil, err
		}
	}

	rendered, err := imaging.Render(buf)
	if err != nil {
		return nil, err
	}
	return &generateResult{
		RenderResult: *rendered,
		Kind:         a.Kind,
		Seed:         a.Seed,
		Palette:      p.Hex(),
		OutputPath:   a.OutputPath,
	}, nil
}

type namedPalette struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

func (s *Server) handlePalettes(json.RawMessage) (interface{}, error) {
	names := generate.PaletteNames()
	out := make([]namedPalette, 0, len(names))
	for _, name := range names {
		p, err := generate.LookupPalette(name)
		if err != nil {
			return nil, err
		}
		out = append(out, namedPalette{Name: name, Colors: p.Hex()})
	}
	return map[string]interface{}{
		"palettes": out,
		"effects":  effects.Names(),
	}, nil
}
