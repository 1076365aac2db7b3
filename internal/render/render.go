// Package render paints point sets onto raster canvases for visual checks.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"raster-points/internal/points"
	"raster-points/pkg/colorutil"
	"raster-points/pkg/geometry"

	"golang.org/x/image/draw"
)

// ErrDegenerateBounds is returned in strict mode when every point shares an
// X or a Y coordinate, so that axis has no span to normalize against.
var ErrDegenerateBounds = errors.New("render: degenerate bounds")

// maxPixel clamps projected coordinates far outside the canvas before the
// float to int conversion.
const maxPixel = 1 << 30

// Renderer paints point sets with a fixed set of options. The random source
// is used only to invent colors for classes that have none supplied.
type Renderer struct {
	opts Options
	rng  *rand.Rand
}

// New creates a Renderer. A nil src seeds a fresh generator from the global
// source, so generated class colors differ between runs.
func New(opts Options, src rand.Source) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Renderer{opts: opts, rng: rand.New(src)}, nil
}

// Output is the result of one render call.
type Output struct {
	Image   *image.RGBA
	Colors  []color.RGBA  // Color used for each class index
	Bounds  geometry.BBox // Source extent mapped onto the canvas
	Painted int           // Markers with at least one pixel on the canvas
	Empty   bool          // Input had no points; Image is a blank canvas
}

// Render paints pts onto a new canvas. colors supplies per-class colors by
// index; classes beyond its length get a uniform random color drawn once for
// this call. Points are painted in order, so later markers overwrite earlier
// ones. An empty pts yields a blank canvas, not an error.
func (r *Renderer) Render(pts []points.Record, colors []color.RGBA) (*Output, error) {
	o := r.opts
	img := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(o.Background), image.Point{}, draw.Src)

	out := &Output{
		Image:  img,
		Colors: r.ClassColors(colors, points.NumClasses(pts)),
		Empty:  len(pts) == 0,
	}
	if o.Bounds != nil {
		out.Bounds = *o.Bounds
	} else if b, ok := points.Bounds(pts); ok {
		out.Bounds = b
	}

	if !out.Empty {
		if out.Bounds.Degenerate() && o.Strict {
			return nil, fmt.Errorf("%w: %v", ErrDegenerateBounds, out.Bounds)
		}

		fills := make([]*image.Uniform, len(out.Colors))
		for i, c := range out.Colors {
			fills[i] = image.NewUniform(c)
		}
		canvas := img.Bounds()
		for _, p := range pts {
			if p.Class < 0 {
				continue
			}
			rect := r.marker(r.project(p.Point(), out.Bounds))
			if !rect.Overlaps(canvas) {
				continue
			}
			draw.Draw(img, rect, fills[p.Class], image.Point{}, draw.Src)
			out.Painted++
		}
	}

	if o.Legend {
		drawLegend(img, out.Colors)
	}
	return out, nil
}

// ClassColors returns a table of at least n colors: supplied first, then a
// random opaque color for each missing class.
func (r *Renderer) ClassColors(supplied []color.RGBA, n int) []color.RGBA {
	out := make([]color.RGBA, max(n, len(supplied)))
	copy(out, supplied)
	for i := len(supplied); i < len(out); i++ {
		out[i] = colorutil.RandomRGB(r.rng)
	}
	return out
}

// project maps a source-space point onto canvas pixels with the Y axis
// pointing up. Zero-span axes land on the canvas midpoint.
func (r *Renderer) project(p geometry.Point2D, b geometry.BBox) image.Point {
	n := b.Normalize(p)
	x := roundHalfUp(n.X * float64(r.opts.Width))
	y := r.opts.Height - roundHalfUp(n.Y*float64(r.opts.Height))
	return image.Pt(x, y)
}

// marker returns the square painted for a point at pos.
func (r *Renderer) marker(pos image.Point) image.Rectangle {
	s := r.opts.MarkerSize
	tl := pos
	if r.opts.Anchor == AnchorCenter {
		tl = pos.Sub(image.Pt(s/2, s/2))
	}
	return image.Rectangle{Min: tl, Max: tl.Add(image.Pt(s, s))}
}

func roundHalfUp(v float64) int {
	v = math.Floor(v + 0.5)
	if math.IsNaN(v) {
		return -maxPixel
	}
	if v > maxPixel {
		return maxPixel
	}
	if v < -maxPixel {
		return -maxPixel
	}
	return int(v)
}

// Thumbnail scales img down to fit within maxW x maxH, preserving aspect
// ratio. Images that already fit are copied unscaled.
func Thumbnail(img image.Image, maxW, maxH int) *image.RGBA {
	b := img.Bounds()
	scale := math.Min(float64(maxW)/float64(b.Dx()), float64(maxH)/float64(b.Dy()))
	if scale > 1 {
		scale = 1
	}
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
