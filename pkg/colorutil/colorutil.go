// Package colorutil provides shared color utilities for palettes and canvases.
package colorutil

import (
	"fmt"
	"image/color"
	"math/rand/v2"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Common colors used throughout the application.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// RGB24 packs the straight (non-premultiplied) red, green and blue channels
// of c into 0xRRGGBB. Alpha is dropped.
func RGB24(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B)
}

// Opaque returns c's straight RGB channels with full alpha.
func Opaque(c color.Color) color.RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return color.RGBA{R: n.R, G: n.G, B: n.B, A: 255}
}

// ParseHex parses "#RRGGBB" or "#RGB" (case-insensitive) into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #RGB or #RRGGBB", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// ParseHexList parses every entry of hex with ParseHex.
func ParseHexList(hex []string) ([]color.RGBA, error) {
	out := make([]color.RGBA, len(hex))
	for i, h := range hex {
		c, err := ParseHex(h)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

// Hex formats c as upper-case "#RRGGBB", ignoring alpha.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	col := colorful.Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
	}
	return strings.ToUpper(col.Hex())
}

// RandomRGB draws each channel uniformly from [0, 255] and returns an opaque color.
func RandomRGB(rng *rand.Rand) color.RGBA {
	return color.RGBA{
		R: uint8(rng.IntN(256)),
		G: uint8(rng.IntN(256)),
		B: uint8(rng.IntN(256)),
		A: 255,
	}
}

// Spread returns n visually distinct opaque colors evenly spaced around the hue wheel.
func Spread(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		c := colorful.Hsv(float64(i)*360/float64(max(n, 1)), 0.75, 0.9)
		r, g, b := c.Clamped().RGB255()
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}
