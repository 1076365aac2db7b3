// Command stationpoints fetches weather station observations and writes them
// as a binned point file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"raster-points/internal/config"
	"raster-points/internal/observation"
	"raster-points/internal/pipeline"
	"raster-points/internal/version"
)

func main() {
	configPath := flag.String("config", "", "Config file (.json, .toml, .yaml)")
	out := flag.String("out", "", "Output point file (default: <element>-<date>.points)")
	date := flag.String("date", "", "Observation date, DD-MM-YYYY")
	hour := flag.Int("hour", 20, "Observation hour, 0-23")
	element := flag.String("element", "", "Observed element (default from config)")
	input := flag.String("input", "", "Read a saved GeoJSON response instead of fetching")
	seed := flag.Uint64("seed", 0, "Random seed (0 = random)")
	target := flag.Int("target", 0, "Keep this many stations (0 = all)")
	timeout := flag.Duration("timeout", 30*time.Second, "Request timeout")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("stationpoints"))
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
		case "date":
			cfg.Observation.Date = *date
		case "hour":
			cfg.Observation.Hour = *hour
		case "element":
			cfg.Observation.Element = *element
		case "seed":
			cfg = cfg.WithSeed(*seed)
		case "target":
			cfg = cfg.WithTarget(*target)
		}
	})

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	pipe, err := pipeline.New(cfg, log.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	q, err := cfg.Query()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid query: %v\n", err)
		os.Exit(1)
	}

	var feed observation.Feed
	if *input != "" {
		feed = observation.FileFeed{Path: *input}
	} else {
		f := observation.NewHTTPFeed(cfg.Observation.BaseURL)
		f.Client.Timeout = *timeout
		url, err := f.URL(q)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid feed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Fetching %s\n", url)
		feed = f
	}

	outPath := *out
	if outPath == "" {
		outPath = fmt.Sprintf("%s-%s.points", q.Element, q.Date.Format(observation.DateLayout))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := pipe.Observations(ctx, feed, q, outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%d stations, %d binned, %d written to %s\n", res.Visited, res.Sampled, res.Kept, res.Output)
	for i, n := range res.Histogram {
		if n == 0 {
			continue
		}
		b := pipe.Bins()[i]
		fmt.Printf("  class %2d [%g, %g): %d\n", i, b.Lower, b.Upper, n)
	}
}
