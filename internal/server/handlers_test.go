package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/pixel-art-mcp/internal/imaging"
)

// createTestImageFile writes a PNG with red, green, blue and white quadrants
// and returns its path.
func createTestImageFile(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.NRGBA
			switch {
			case x < width/2 && y < height/2:
				c = color.NRGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.NRGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.NRGBA{0, 0, 255, 255}
			default:
				c = color.NRGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool sends a tools/call request through handleRequest and decodes the
// text content into out.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) {
	t.Helper()

	paramsJSON, _ := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v (%v)", resp.Error.Message, resp.Error.Data)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) == 0 {
		t.Fatal("Result should have content")
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}

	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("failed to decode tool result: %v", err)
	}
}

// callToolError sends a tools/call request and returns the JSON-RPC error.
func callToolError(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPError {
	t.Helper()

	paramsJSON, _ := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: paramsJSON})
	if resp.Error == nil {
		t.Fatalf("%s: expected an error", name)
	}
	return resp.Error
}

func decodePNG(t *testing.T, b64 string) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func TestHandleToolsCall_Load(t *testing.T) {
	s := New(DefaultConfig())
	imgPath := createTestImageFile(t, 100, 80)

	var info imaging.ImageInfo
	callTool(t, s, "pixelart_load", map[string]interface{}{"path": imgPath}, &info)

	if info.Width != 100 || info.Height != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format: got %s, want png", info.Format)
	}
}

func TestHandleToolsCall_LoadFitsToMaxDimension(t *testing.T) {
	s := New(Config{MaxDimension: 40})
	imgPath := createTestImageFile(t, 80, 60)

	var info imaging.ImageInfo
	callTool(t, s, "pixelart_load", map[string]interface{}{"path": imgPath}, &info)

	if info.DisplayWidth != 40 || info.DisplayHeight != 30 {
		t.Errorf("display dimensions: got %dx%d, want 40x30", info.DisplayWidth, info.DisplayHeight)
	}
}

func TestHandleToolsCall_Pixelate(t *testing.T) {
	s := New(DefaultConfig())
	imgPath := createTestImageFile(t, 64, 48)

	tests := []struct {
		name      string
		args      map[string]interface{}
		wantW     int
		wantH     int
		wantPixel int
	}{
		{"defaults", map[string]interface{}{"path": imgPath}, 64, 48, 8},
		{"small", map[string]interface{}{"path": imgPath, "pixel_size": 16, "output": "small"}, 4, 3, 16},
		{"no pixelation", map[string]interface{}{"path": imgPath, "pixel_size": 1}, 64, 48, 1},
		{"with grid", map[string]interface{}{"path": imgPath, "show_grid": true}, 64, 48, 8},
		{"all settings", map[string]interface{}{
			"path": imgPath, "pixel_size": 4, "brightness": 10, "contrast": 20, "saturation": -30,
			"dither_levels": 4, "noise": 0.2, "seed": 7, "invert": true, "outline": 1,
		}, 64, 48, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result pixelateResult
			callTool(t, s, "pixelart_pixelate", tt.args, &result)

			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}
			if result.PixelSize != tt.wantPixel {
				t.Errorf("pixel_size: got %d, want %d", result.PixelSize, tt.wantPixel)
			}
			img := decodePNG(t, result.ImageBase64)
			if img.Bounds().Dx() != tt.wantW {
				t.Errorf("PNG width: got %d, want %d", img.Bounds().Dx(), tt.wantW)
			}
		})
	}
}

func TestHandleToolsCall_PixelateGrid(t *testing.T) {
	s := New(DefaultConfig())
	imgPath := createTestImageFile(t, 32, 32)

	var result pixelateResult
	callTool(t, s, "pixelart_pixelate", map[string]interface{}{
		"path": imgPath, "pixel_size": 8, "show_grid": true, "grid_color": "#000000",
	}, &result)

	img := decodePNG(t, result.ImageBase64)
	r, g, b, _ := img.At(8, 2).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("grid line at (8,2): got (%d,%d,%d), want black", r>>8, g>>8, b>>8)
	}
	r, _, _, _ = img.At(3, 3).RGBA()
	if r>>8 != 255 {
		t.Errorf("inside block at (3,3): got red %d, want 255", r>>8)
	}
}

func TestHandleToolsCall_Dither(t *testing.T) {
	s := New(DefaultConfig())
	imgPath := createTestImageFile(t, 32, 32)

	var result imaging.RenderResult
	callTool(t, s, "pixelart_dither", map[string]interface{}{"path": imgPath, "levels": 2}, &result)

	img := decodePNG(t, result.ImageBase64)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			for _, v := range []uint32{r >> 8, g >> 8, b >> 8} {
				if v != 0 && v != 255 {
					t.Fatalf("(%d,%d): channel %d is not a 2-level value", x, y, v)
				}
			}
		}
	}

	if err := callToolError(t, s, "pixelart_dither", map[string]interface{}{"path": imgPath, "levels": 1}); err.Code != -32000 {
		t.Errorf("levels 1: got code %d, want -32000", err.Code)
	}
}

func TestHandleToolsCall_Effect(t *testing.T) {
	s := New(DefaultConfig())
	imgPath := createTestImageFile(t, 16, 16)

	var result imaging.RenderResult
	callTool(t, s, "pixelart_effect", map[string]interface{}{"path": imgPath, "effect": "invert"}, &result)

	img := decodePNG(t, result.ImageBase64)
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("inverted red: got (%d,%d,%d), want (0,255,255)", r>>8, g>>8, b>>8)
	}

	// The cached image is left untouched
	var sample imaging.ColorResult
	callTool(t, s, "pixelart_sample_color", map[string]interface{}{"path": imgPath, "pixel_size": 1, "x": 0, "y": 0}, &sample)
	if sample.Hex != "#FF0000" {
		t.Errorf("cached image modified: got %s, want #FF0000", sample.Hex)
	}

	for _, args := range []map[string]interface{}{
		{"path": imgPath, "effect": "blur"},
		{"path": imgPath, "effect": "brightness", "amount": 150},
		{"path": imgPath, "effect": "noise", "intensity": 2},
	} {
		callToolError(t, s, "pixelart_effect", args)
	}
}

func TestHandleToolsCall_Palette(t *testing.T) {
	s := New(DefaultConfig())
	imgPath := createTestImageFile(t, 32, 32)

	var result imaging.PaletteResult
	callTool(t, s, "pixelart_palette", map[string]interface{}{"path": imgPath}, &result)

	if result.DistinctColors != 4 {
		t.Errorf("distinct colors: got %d, want 4", result.DistinctColors)
	}
	if result.VisiblePixels != 16 {
		t.Errorf("visible pixels: got %d, want 16 (4x4 blocks)", result.VisiblePixels)
	}
	for _, c := range result.Colors {
		if c.Count != 4 {
			t.Errorf("%s: count %d, want 4", c.Hex, c.Count)
		}
	}
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := New(DefaultConfig())
	imgPath := createTestImageFile(t, 40, 40)

	var result imaging.ColorResult
	callTool(t, s, "pixelart_sample_color", map[string]interface{}{"path": imgPath, "pixel_size": 10, "x": 3, "y": 0}, &result)

	if result.Hex != "#00FF00" {
		t.Errorf("Hex: got %s, want #00FF00", result.Hex)
	}

	// The small image is 4x4 blocks
	callToolError(t, s, "pixelart_sample_color", map[string]interface{}{"path": imgPath, "pixel_size": 10, "x": 4, "y": 0})
}

func TestHandleToolsCall_Export(t *testing.T) {
	s := New(DefaultConfig())
	imgPath := createTestImageFile(t, 24, 16)
	dir := t.TempDir()

	tests := []struct {
		file  string
		size  string
		wantW int
		wantH int
	}{
		{"large.png", "large", 24, 16},
		{"small.png", "small", 3, 2},
		{"default.jpg", "", 24, 16},
		{"frame.pxb", "small", 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			out := filepath.Join(dir, tt.file)
			args := map[string]interface{}{"path": imgPath, "output_path": out}
			if tt.size != "" {
				args["size"] = tt.size
			}

			var result exportResult
			callTool(t, s, "pixelart_export", args, &result)

			if result.Width != tt.wantW || result.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", result.Width, result.Height, tt.wantW, tt.wantH)
			}
			if _, err := os.Stat(out); err != nil {
				t.Errorf("exported file missing: %v", err)
			}
		})
	}

	callToolError(t, s, "pixelart_export", map[string]interface{}{"path": imgPath})
	callToolError(t, s, "pixelart_export", map[string]interface{}{"path": imgPath, "output_path": filepath.Join(dir, "x.png"), "size": "medium"})
}

func TestHandleToolsCall_Generate(t *testing.T) {
	s := New(DefaultConfig())
	out := filepath.Join(t.TempDir(), "sprite.png")

	var result generateResult
	callTool(t, s, "pixelart_generate", map[string]interface{}{"seed": 42, "output_path": out}, &result)

	if result.Width != 32 || result.Height != 32 {
		t.Errorf("dimensions: got %dx%d, want 32x32", result.Width, result.Height)
	}
	if result.Kind != "sprite" {
		t.Errorf("kind: got %s, want sprite", result.Kind)
	}
	if len(result.Palette) != 5 || result.Palette[0] != "#000000" {
		t.Errorf("palette: got %v, want retro", result.Palette)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("generated file missing: %v", err)
	}

	// Same seed, same image
	var again generateResult
	callTool(t, s, "pixelart_generate", map[string]interface{}{"seed": 42}, &again)
	if again.ImageBase64 != result.ImageBase64 {
		t.Error("same seed produced a different image")
	}
}

func TestHandleToolsCall_GenerateKinds(t *testing.T) {
	s := New(DefaultConfig())

	for _, args := range []map[string]interface{}{
		{"kind": "noise", "width": 20, "height": 10, "palette": "nature"},
		{"kind": "landscape", "width": 16, "height": 24, "palette": "sunset"},
		{"kind": "sprite", "colors": []string{"#112233", "#445566"}},
	} {
		var result generateResult
		callTool(t, s, "pixelart_generate", args, &result)
		if result.ImageBase64 == "" {
			t.Errorf("%v: empty image", args)
		}
	}

	callToolError(t, s, "pixelart_generate", map[string]interface{}{"kind": "maze"})
	callToolError(t, s, "pixelart_generate", map[string]interface{}{"palette": "pastel"})
	callToolError(t, s, "pixelart_generate", map[string]interface{}{"width": -4})
}

func TestHandleToolsCall_Palettes(t *testing.T) {
	s := New(DefaultConfig())

	var result struct {
		Palettes []namedPalette `json:"palettes"`
		Effects  []string       `json:"effects"`
	}
	callTool(t, s, "pixelart_palettes", map[string]interface{}{}, &result)

	if len(result.Palettes) != 4 {
		t.Errorf("palettes: got %d, want 4", len(result.Palettes))
	}
	if len(result.Effects) != 6 {
		t.Errorf("effects: got %v, want 6 names", result.Effects)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New(DefaultConfig())

	mcpErr := callToolError(t, s, "pixelart_load", map[string]interface{}{"path": "/nonexistent/image.png"})
	if mcpErr.Code != -32000 {
		t.Errorf("code: got %d, want -32000", mcpErr.Code)
	}
	if mcpErr.Message != "Tool execution failed" {
		t.Errorf("message: got %s", mcpErr.Message)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(DefaultConfig())

	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: json.RawMessage(`[1,2]`)})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("got %+v, want -32602", resp.Error)
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New(DefaultConfig())

	if _, err := s.executeTool("unknown_tool", json.RawMessage(`{}`)); err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New(DefaultConfig())

	if _, err := s.executeTool("pixelart_load", json.RawMessage(`{invalid`)); err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}

func TestExecuteTool_MissingArguments(t *testing.T) {
	s := New(DefaultConfig())

	if _, err := s.executeTool("pixelart_palettes", nil); err != nil {
		t.Errorf("pixelart_palettes without arguments failed: %v", err)
	}
	if _, err := s.executeTool("pixelart_load", nil); err == nil {
		t.Error("pixelart_load without a path should fail")
	}
}
