// Command pointrender draws a point file onto a PNG canvas.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"raster-points/internal/config"
	"raster-points/internal/pipeline"
	"raster-points/internal/version"
	"raster-points/pkg/geometry"
)

func main() {
	configPath := flag.String("config", "", "Config file (.json, .toml, .yaml)")
	out := flag.String("out", "", "Output PNG (default: input with .png extension)")
	width := flag.Int("width", 3600, "Canvas width")
	height := flag.Int("height", 1800, "Canvas height")
	marker := flag.Int("marker", 5, "Marker size in pixels")
	anchor := flag.String("anchor", "center", "Marker anchor: center or top-left")
	bbox := flag.String("bbox", "", "Fixed source extent minX,minY,maxX,maxY")
	colors := flag.String("colors", "", "Comma-separated class colors (#RRGGBB)")
	legend := flag.Bool("legend", false, "Draw a class legend")
	strict := flag.Bool("strict", false, "Fail when all points share an X or Y")
	thumb := flag.Int("thumb", 0, "Also write a thumbnail with this longest side")
	seed := flag.Uint64("seed", 0, "Random seed for generated colors (0 = random)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("pointrender"))
		return
	}
	if flag.NArg() != 1 {
		fmt.Println("Usage: pointrender [-config file] [-out file.png] [-bbox minX,minY,maxX,maxY] <file.points>")
		os.Exit(1)
	}
	in := flag.Arg(0)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Render.Width = *width
		case "height":
			cfg.Render.Height = *height
		case "marker":
			cfg.Render.Marker = *marker
		case "anchor":
			cfg.Render.Anchor = *anchor
		case "legend":
			cfg.Render.Legend = *legend
		case "strict":
			cfg.Render.Strict = *strict
		case "thumb":
			cfg.Render.Thumbnail = *thumb
		case "seed":
			cfg = cfg.WithSeed(*seed)
		case "colors":
			cfg.Render.Colors = strings.Split(*colors, ",")
		case "bbox":
			b, err := geometry.ParseBBox(*bbox)
			if err != nil {
				flagErr = err
				return
			}
			cfg.Render.Bounds = []float64{b.MinX, b.MinY, b.MaxX, b.MaxY}
		}
	})
	if flagErr != nil {
		fmt.Fprintf(os.Stderr, "Invalid flag: %v\n", flagErr)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = strings.TrimSuffix(in, filepath.Ext(in)) + ".png"
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	pipe, err := pipeline.New(cfg, log.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	res, err := pipe.RenderFile(in, outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%dx%d, %d markers, %d classes)\n",
		outPath, res.Image.Bounds().Dx(), res.Image.Bounds().Dy(), res.Painted, len(res.Colors))
	if cfg.Render.Thumbnail > 0 {
		fmt.Printf("Wrote %s\n", pipeline.ThumbnailPath(outPath))
	}
}
