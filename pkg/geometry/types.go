// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point2D) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// BBox is an axis-aligned bounding box in source coordinates.
type BBox struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// BoundsOf returns the bounding box of the given coordinate slices.
// ok is false when either slice is empty.
func BoundsOf(xs, ys []float64) (b BBox, ok bool) {
	if len(xs) == 0 || len(ys) == 0 {
		return BBox{}, false
	}
	return BBox{
		MinX: floats.Min(xs),
		MinY: floats.Min(ys),
		MaxX: floats.Max(xs),
		MaxY: floats.Max(ys),
	}, true
}

// Width returns the horizontal span.
func (b BBox) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical span.
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Degenerate reports whether either axis has zero span.
func (b BBox) Degenerate() bool {
	return b.Width() == 0 || b.Height() == 0
}

// Normalize maps p into the unit square spanned by the box.
// A zero-width axis maps to its midpoint, 0.5.
func (b BBox) Normalize(p Point2D) Point2D {
	return Point2D{
		X: Normalize(p.X, b.MinX, b.MaxX),
		Y: Normalize(p.Y, b.MinY, b.MaxY),
	}
}

func (b BBox) String() string {
	return fmt.Sprintf("[%g,%g]x[%g,%g]", b.MinX, b.MaxX, b.MinY, b.MaxY)
}

// Normalize maps v linearly from [lo, hi] onto [0, 1].
// When lo == hi the result is 0.5 rather than NaN.
func Normalize(v, lo, hi float64) float64 {
	span := hi - lo
	if span == 0 {
		return 0.5
	}
	return (v - lo) / span
}

// ParseBBox parses "minX,minY,maxX,maxY".
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, fmt.Errorf("bbox %q: want minX,minY,maxX,maxY", s)
	}
	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return BBox{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	return FromSlice(v[:])
}

// FromSlice builds a box from a 4-element [minX, minY, maxX, maxY] slice.
func FromSlice(v []float64) (BBox, error) {
	if len(v) != 4 {
		return BBox{}, fmt.Errorf("bbox: want 4 values, got %d", len(v))
	}
	b := BBox{MinX: v[0], MinY: v[1], MaxX: v[2], MaxY: v[3]}
	if b.MaxX < b.MinX || b.MaxY < b.MinY {
		return BBox{}, fmt.Errorf("bbox %v: max below min", b)
	}
	return b, nil
}
