// Command pointtui previews a point file in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	"raster-points/internal/config"
	"raster-points/internal/preview"
	"raster-points/internal/version"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	configPath := flag.String("config", "", "Config file (.json, .toml, .yaml) for class colors")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("pointtui"))
		return
	}
	if flag.NArg() != 1 {
		fmt.Println("Usage: pointtui [-config file] <file.points>")
		os.Exit(1)
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
	colors, err := cfg.ClassColors()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid colors: %v\n", err)
		os.Exit(1)
	}

	m := preview.New(flag.Arg(0), colors)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Preview failed: %v\n", err)
		os.Exit(1)
	}
}
