// Package palette classifies raster colors against an ordered list of
// reference colors. Matching is exact on 24-bit RGB; anything else is
// unclassified.
package palette

import (
	"errors"
	"fmt"
	"image/color"

	"raster-points/pkg/colorutil"
)

// ErrEmpty is returned when a palette is built with no colors.
var ErrEmpty = errors.New("palette: no colors")

// OSM maps the OpenStreetMap carto tile colors onto land-use classes.
var OSM = []string{
	"#B5D0D0", // water
	"#CDEAB0", // grass
	"#ACD09D", // forest
	"#E892A2", // highway
	"#FFFFFF", // minor road
	"#F6F9BE", // arterial road
	"#F1D9D8", // industrial
	"#F6EEB6", // industrial building
	"#D9D0C9", // residential
	"#89D2AE", // misc building
	"#33CC99", // sport
	"#F6F9BE", // parking (shadowed by arterial road)
}

// Palette is an ordered set of reference colors; a color's position is its class.
type Palette struct {
	colors []color.RGBA
	index  map[uint32]int32
}

// New builds a palette from colors. Alpha is ignored. When the same RGB
// value appears more than once the first position wins.
func New(colors ...color.Color) (*Palette, error) {
	if len(colors) == 0 {
		return nil, ErrEmpty
	}
	p := &Palette{
		colors: make([]color.RGBA, len(colors)),
		index:  make(map[uint32]int32, len(colors)),
	}
	for i, c := range colors {
		p.colors[i] = colorutil.Opaque(c)
		key := colorutil.RGB24(c)
		if _, dup := p.index[key]; !dup {
			p.index[key] = int32(i)
		}
	}
	return p, nil
}

// FromHex builds a palette from "#RRGGBB" strings.
func FromHex(hex []string) (*Palette, error) {
	cols, err := colorutil.ParseHexList(hex)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	cc := make([]color.Color, len(cols))
	for i, c := range cols {
		cc[i] = c
	}
	return New(cc...)
}

// Classify returns the class of c, or ok=false when c is not in the palette.
func (p *Palette) Classify(c color.Color) (class int32, ok bool) {
	class, ok = p.index[colorutil.RGB24(c)]
	return class, ok
}

// Len returns the number of classes.
func (p *Palette) Len() int { return len(p.colors) }

// Colors returns a copy of the reference colors in class order.
func (p *Palette) Colors() []color.RGBA {
	out := make([]color.RGBA, len(p.colors))
	copy(out, p.colors)
	return out
}
