// Package config provides the run configuration shared by every command and
// its persistence as JSON, TOML or YAML.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"raster-points/internal/atomicfile"
	"raster-points/internal/binning"
	"raster-points/internal/observation"
	"raster-points/internal/palette"
	"raster-points/internal/render"
	"raster-points/internal/sampler"
	"raster-points/pkg/colorutil"
	"raster-points/pkg/geometry"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// ErrUnknownFormat is returned for config paths with an unsupported extension.
var ErrUnknownFormat = errors.New("config: unknown file format")

// Config holds every tunable of the sampling, binning and rendering stages.
type Config struct {
	// Seed drives every random draw. Zero picks a fresh seed per run.
	Seed uint64 `json:"seed" toml:"seed" yaml:"seed"`
	// Target is the number of points kept after sampling; 0 keeps all.
	Target int `json:"target" toml:"target" yaml:"target"`

	Sampling    Sampling      `json:"sampling" toml:"sampling" yaml:"sampling"`
	Palette     []string      `json:"palette" toml:"palette" yaml:"palette"`
	Bins        binning.Table `json:"bins" toml:"bins" yaml:"bins"`
	// LinearBins is [lo, hi, step]. When set it replaces Bins with equal-width
	// bins over [lo, hi) plus an open-ended bin on each side.
	LinearBins []float64 `json:"linear_bins,omitempty" toml:"linear_bins,omitempty" yaml:"linear_bins,omitempty"`
	Render      Render        `json:"render" toml:"render" yaml:"render"`
	Observation Observation   `json:"observation" toml:"observation" yaml:"observation"`
}

// Sampling configures the raster sampling grid.
type Sampling struct {
	StrideX int     `json:"stride_x" toml:"stride_x" yaml:"stride_x"`
	StrideY int     `json:"stride_y" toml:"stride_y" yaml:"stride_y"`
	Jitter  float64 `json:"jitter" toml:"jitter" yaml:"jitter"`
}

// Render configures the canvas renderer.
type Render struct {
	Width  int    `json:"width" toml:"width" yaml:"width"`
	Height int    `json:"height" toml:"height" yaml:"height"`
	Marker int    `json:"marker" toml:"marker" yaml:"marker"`
	Anchor string `json:"anchor" toml:"anchor" yaml:"anchor"`
	Strict bool   `json:"strict" toml:"strict" yaml:"strict"`
	Legend bool   `json:"legend" toml:"legend" yaml:"legend"`
	// Bounds is [minX, minY, maxX, maxY]; empty fits the points.
	Bounds []float64 `json:"bounds,omitempty" toml:"bounds,omitempty" yaml:"bounds,omitempty"`
	// Colors gives per-class colors; classes past the end get random ones.
	Colors []string `json:"colors,omitempty" toml:"colors,omitempty" yaml:"colors,omitempty"`
	// Thumbnail is the longest side of an extra preview image; 0 disables it.
	Thumbnail int `json:"thumbnail" toml:"thumbnail" yaml:"thumbnail"`
}

// Observation configures the station feed.
type Observation struct {
	BaseURL string `json:"base_url" toml:"base_url" yaml:"base_url"`
	Element string `json:"element" toml:"element" yaml:"element"`
	Field   string `json:"field" toml:"field" yaml:"field"`
	Date    string `json:"date" toml:"date" yaml:"date"` // DD-MM-YYYY
	Hour    int    `json:"hour" toml:"hour" yaml:"hour"`
}

// Default returns the configuration used for the OSM land-use and station
// temperature exports.
func Default() Config {
	sp := sampler.DefaultParams()
	ro := render.DefaultOptions()
	q := observation.DefaultQuery()

	pal := make([]string, len(palette.OSM))
	copy(pal, palette.OSM)
	bins := make(binning.Table, len(binning.Temperature))
	copy(bins, binning.Temperature)

	return Config{
		Sampling: Sampling{
			StrideX: sp.StrideX,
			StrideY: sp.StrideY,
			Jitter:  sp.Jitter,
		},
		Palette: pal,
		Bins:    bins,
		Render: Render{
			Width:  ro.Width,
			Height: ro.Height,
			Marker: ro.MarkerSize,
			Anchor: ro.Anchor.String(),
		},
		Observation: Observation{
			BaseURL: observation.DefaultBaseURL,
			Element: q.Element,
			Field:   q.Field,
			Date:    q.Date.Format(observation.DateLayout),
			Hour:    q.Hour,
		},
	}
}

// WithSeed returns a copy of cfg with the given seed.
func (c Config) WithSeed(seed uint64) Config {
	c.Seed = seed
	return c
}

// WithTarget returns a copy of cfg with the given reduction target.
func (c Config) WithTarget(n int) Config {
	c.Target = n
	return c
}

// WithStride returns a copy of cfg with the same sampling stride on both axes.
func (c Config) WithStride(stride int) Config {
	c.Sampling.StrideX = stride
	c.Sampling.StrideY = stride
	return c
}

// WithJitter returns a copy of cfg with the given jitter.
func (c Config) WithJitter(jitter float64) Config {
	c.Sampling.Jitter = jitter
	return c
}

// Load reads a config file, choosing the decoder from the extension
// (.json, .toml, .yaml or .yml). Fields absent from the file keep their
// Default values. The result is validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		_, err = toml.Decode(string(data), &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path in the format implied by its extension.
func (c Config) Save(path string) error {
	var buf bytes.Buffer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	return atomicfile.WriteFile(path, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Validate checks every section and reports the first problem found.
func (c Config) Validate() error {
	if c.Target < 0 {
		return fmt.Errorf("%w: target %d", ErrInvalid, c.Target)
	}
	if err := c.SamplerParams().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.PaletteSet(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.BinTable(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.RenderOptions(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := c.ClassColors(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	q, err := c.Query()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := observation.NewHTTPFeed(c.Observation.BaseURL).URL(q); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// SamplerParams returns the sampling grid parameters.
func (c Config) SamplerParams() sampler.Params {
	return sampler.Params{
		StrideX: c.Sampling.StrideX,
		StrideY: c.Sampling.StrideY,
		Jitter:  c.Sampling.Jitter,
	}
}

// PaletteSet builds the classification palette.
func (c Config) PaletteSet() (*palette.Palette, error) {
	return palette.FromHex(c.Palette)
}

// BinTable returns the value bins, built from LinearBins when it is set.
func (c Config) BinTable() (binning.Table, error) {
	if len(c.LinearBins) == 0 {
		if err := c.Bins.Validate(); err != nil {
			return nil, err
		}
		return c.Bins, nil
	}
	if len(c.LinearBins) != 3 {
		return nil, fmt.Errorf("linear_bins: want [lo, hi, step], got %d values", len(c.LinearBins))
	}
	return binning.Linear(c.LinearBins[0], c.LinearBins[1], c.LinearBins[2])
}

// RenderOptions converts the render section into renderer options.
func (c Config) RenderOptions() (render.Options, error) {
	anchor, err := render.ParseAnchor(c.Render.Anchor)
	if err != nil {
		return render.Options{}, err
	}
	opts := render.DefaultOptions().
		WithSize(c.Render.Width, c.Render.Height).
		WithMarker(c.Render.Marker)
	opts.Anchor = anchor
	opts.Strict = c.Render.Strict
	opts.Legend = c.Render.Legend
	if len(c.Render.Bounds) > 0 {
		b, err := geometry.FromSlice(c.Render.Bounds)
		if err != nil {
			return render.Options{}, err
		}
		opts = opts.WithBounds(b)
	}
	if err := opts.Validate(); err != nil {
		return render.Options{}, err
	}
	return opts, nil
}

// ClassColors parses the configured per-class colors.
func (c Config) ClassColors() ([]color.RGBA, error) {
	cols, err := colorutil.ParseHexList(c.Render.Colors)
	if err != nil {
		return nil, fmt.Errorf("render colors: %w", err)
	}
	return cols, nil
}

// Query builds the observation query.
func (c Config) Query() (observation.Query, error) {
	date, err := time.Parse(observation.DateLayout, c.Observation.Date)
	if err != nil {
		return observation.Query{}, fmt.Errorf("observation date %q: want DD-MM-YYYY", c.Observation.Date)
	}
	q := observation.Query{
		Element: c.Observation.Element,
		Field:   c.Observation.Field,
		Date:    date,
		Hour:    c.Observation.Hour,
	}
	if err := q.Validate(); err != nil {
		return observation.Query{}, err
	}
	return q, nil
}
