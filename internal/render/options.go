package render

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"raster-points/pkg/colorutil"
	"raster-points/pkg/geometry"
)

// Anchor selects which marker pixel sits on the mapped point position.
type Anchor int

const (
	AnchorCenter  Anchor = iota // Marker centred on the point
	AnchorTopLeft               // Marker's top-left corner on the point
)

func (a Anchor) String() string {
	switch a {
	case AnchorTopLeft:
		return "top-left"
	default:
		return "center"
	}
}

// ParseAnchor accepts "center" or "top-left".
func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "center", "centre":
		return AnchorCenter, nil
	case "top-left", "topleft":
		return AnchorTopLeft, nil
	}
	return AnchorCenter, fmt.Errorf("unknown anchor %q", s)
}

// ErrInvalidOptions is returned by Options.Validate.
var ErrInvalidOptions = errors.New("render: invalid options")

// Options configures how a point set is rendered.
type Options struct {
	Width      int            // Canvas width in pixels
	Height     int            // Canvas height in pixels
	MarkerSize int            // Side of the square marker in pixels
	Anchor     Anchor         // Marker placement relative to the mapped point
	Bounds     *geometry.BBox // Source-space extent mapped onto the canvas; nil fits the points
	Strict     bool           // Fail on a zero-span axis instead of centring it
	Legend     bool           // Draw a class/color key in the top-left corner
	Background color.RGBA     // Canvas fill
}

// DefaultOptions returns the 3600x1800 canvas with 5px markers used for the
// OSM renders.
func DefaultOptions() Options {
	return Options{
		Width:      3600,
		Height:     1800,
		MarkerSize: 5,
		Anchor:     AnchorCenter,
		Background: colorutil.White,
	}
}

// WithSize returns a copy of opts with the given canvas size.
func (o Options) WithSize(width, height int) Options {
	o.Width = width
	o.Height = height
	return o
}

// WithMarker returns a copy of opts with the given marker size.
func (o Options) WithMarker(size int) Options {
	o.MarkerSize = size
	return o
}

// WithBounds returns a copy of opts that maps b onto the canvas instead of
// the points' own extent.
func (o Options) WithBounds(b geometry.BBox) Options {
	o.Bounds = &b
	return o
}

// Validate checks the canvas and marker dimensions.
func (o Options) Validate() error {
	if o.Width < 1 || o.Height < 1 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidOptions, o.Width, o.Height)
	}
	if o.MarkerSize < 1 {
		return fmt.Errorf("%w: marker size %d", ErrInvalidOptions, o.MarkerSize)
	}
	if o.Bounds != nil && (o.Bounds.MaxX < o.Bounds.MinX || o.Bounds.MaxY < o.Bounds.MinY) {
		return fmt.Errorf("%w: bounds %v", ErrInvalidOptions, *o.Bounds)
	}
	return nil
}
