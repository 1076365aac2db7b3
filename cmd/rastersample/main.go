// Command rastersample converts classified map rasters into point files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"raster-points/internal/config"
	"raster-points/internal/pipeline"
	"raster-points/internal/version"
	"raster-points/pkg/colorutil"
)

func main() {
	configPath := flag.String("config", "", "Config file (.json, .toml, .yaml)")
	outDir := flag.String("out", "", "Output directory (default: next to each raster)")
	seed := flag.Uint64("seed", 0, "Random seed (0 = random)")
	target := flag.Int("target", 0, "Keep this many points per raster (0 = all)")
	stride := flag.Int("stride", 3, "Sampling stride in pixels")
	jitter := flag.Float64("jitter", 0.05, "Maximum coordinate jitter")
	dumpConfig := flag.String("dump-config", "", "Write the effective config to this file and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("rastersample"))
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg = cfg.WithSeed(*seed)
		case "target":
			cfg = cfg.WithTarget(*target)
		case "stride":
			cfg = cfg.WithStride(*stride)
		case "jitter":
			cfg = cfg.WithJitter(*jitter)
		}
	})

	if *dumpConfig != "" {
		if err := cfg.Save(*dumpConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *dumpConfig)
		return
	}

	if flag.NArg() == 0 {
		fmt.Println("Usage: rastersample [-config file] [-out dir] [-target n] <raster>...")
		os.Exit(1)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	pipe, err := pipeline.New(cfg, log.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	jobs := make([]pipeline.Job, flag.NArg())
	for i, in := range flag.Args() {
		jobs[i] = pipeline.Job{Input: in, Output: pipeline.OutputPath(in, *outDir)}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Sampling %d raster(s), seed %d\n", len(jobs), pipe.Seed())
	results, err := pipe.SampleBatch(ctx, jobs)

	colors := pipe.Palette().Colors()
	totals := make([]int, len(colors))

	fmt.Printf("\n%-32s %10s %10s %10s %10s\n", "Output", "Visited", "Sampled", "Kept", "Classes")
	for _, r := range results {
		if r == nil {
			continue
		}
		fmt.Printf("%-32s %10d %10d %10d %10d\n", r.Output, r.Visited, r.Sampled, r.Kept, len(r.Histogram))
		for c, n := range r.Histogram {
			totals[c] += n
		}
	}

	fmt.Println()
	for c, n := range totals {
		if n > 0 {
			fmt.Printf("  class %2d %s: %d\n", c, colorutil.Hex(colors[c]), n)
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Sampling failed: %v\n", err)
		os.Exit(1)
	}
}
