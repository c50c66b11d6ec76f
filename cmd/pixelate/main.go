// Command pixelate renders an image file as pixel art without the MCP server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/pixel-art-mcp/internal/effects"
	"github.com/ironsheep/pixel-art-mcp/internal/imaging"
	"github.com/ironsheep/pixel-art-mcp/internal/pipeline"
)

var Version = "dev"

func main() {
	input := flag.String("input", "", "Path to the input image")
	output := flag.String("output", "", "Path to the output file (.png, .jpg, .gif, .bmp, .tiff or .pxb)")
	size := flag.Int("size", pipeline.DefaultPixelSize, "Pixel block size in source pixels")
	brightness := flag.Float64("brightness", 0, "Brightness adjustment (-100 to 100)")
	contrast := flag.Float64("contrast", 0, "Contrast adjustment (-100 to 100)")
	saturation := flag.Float64("saturation", 0, "Saturation adjustment (-100 to 100)")
	levels := flag.Int("dither", 0, "Dither to this many levels per channel (0 disables)")
	noise := flag.Float64("noise", 0, "Noise intensity (0 to 1)")
	seed := flag.Uint64("seed", 1, "Noise seed")
	invert := flag.Bool("invert", false, "Invert colors")
	outline := flag.Int("outline", 0, "Outline thickness in blocks (0 disables)")
	small := flag.Bool("small", false, "Write one pixel per block instead of the full-size image")
	grid := flag.Bool("grid", false, "Draw grid lines between blocks")
	maxDim := flag.Int("maxdim", imaging.DefaultMaxDimension, "Scale the input down so its longest side fits")
	version := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *version {
		fmt.Printf("pixelate %s\n", Version)
		return
	}

	if *input == "" || *output == "" {
		fmt.Println("Please provide both an input and an output file")
		flag.PrintDefaults()
		os.Exit(1)
	}

	settings := pipeline.Settings{
		PixelSize: *size,
		Adjust: effects.Adjustments{
			Brightness: *brightness,
			Contrast:   *contrast,
			Saturation: *saturation,
		},
		NoiseIntensity:   *noise,
		Seed:             *seed,
		DitherLevels:     *levels,
		Invert:           *invert,
		OutlineThickness: *outline,
	}

	src, err := imaging.Decode(*input)
	if err != nil {
		log.Fatalf("Error loading image: %v", err)
	}
	src = imaging.Fit(src, *maxDim)

	render := pipeline.Process
	if *small {
		render = pipeline.ProcessSmall
	}
	out, err := render(src, settings)
	if err != nil {
		log.Fatalf("Error rendering image: %v", err)
	}

	if *grid && !*small && settings.PixelSize > 1 {
		out, err = imaging.GridOverlay(out, settings.PixelSize, imaging.DefaultGridColor)
		if err != nil {
			log.Fatalf("Error drawing grid: %v", err)
		}
	}

	result, err := imaging.Export(out, *output)
	if err != nil {
		log.Fatalf("Error saving image: %v", err)
	}
	fmt.Printf("Wrote %s (%dx%d, %s)\n", result.Path, result.Width, result.Height, result.Format)
}
