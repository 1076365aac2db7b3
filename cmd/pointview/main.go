// Command pointview opens a desktop window showing a rendered point file,
// re-rendering it whenever the file changes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"raster-points/internal/config"
	"raster-points/internal/pipeline"
	"raster-points/internal/version"
	"raster-points/ui/viewer"

	"fyne.io/fyne/v2/app"
)

func main() {
	configPath := flag.String("config", "", "Config file (.json, .toml, .yaml)")
	interval := flag.Duration("poll", 2*time.Second, "How often to check the file for changes")
	seed := flag.Uint64("seed", 1, "Random seed for generated colors")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("pointview"))
		return
	}
	if flag.NArg() != 1 {
		fmt.Println("Usage: pointview [-config file] [-poll 2s] <file.points>")
		os.Exit(1)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting pointview v%s", version.Version)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg = cfg.WithSeed(*seed)

	pipe, err := pipeline.New(cfg, log.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	a := app.NewWithID("io.rasterpoints.pointview")
	win := viewer.New(a, pipe, flag.Arg(0))
	if err := win.Reload(); err != nil {
		log.Printf("Failed to render %s: %v", flag.Arg(0), err)
	}
	win.Watch(*interval)
	win.ShowAndRun()
}
