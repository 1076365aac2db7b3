// Package points defines the classified point record shared by every stage
// of the raster and observation pipelines.
package points

import (
	"raster-points/pkg/geometry"
)

// Record is a single classified sample. X and Y are in source coordinates
// (pixels or degrees, depending on the pipeline); Class indexes the palette
// or bin table that produced it.
type Record struct {
	X     float64
	Y     float64
	Class int32
}

// Point returns the record's position.
func (r Record) Point() geometry.Point2D {
	return geometry.NewPoint2D(r.X, r.Y)
}

// NumClasses returns one past the largest class index in pts, or 0 if pts is empty.
func NumClasses(pts []Record) int {
	n := 0
	for _, p := range pts {
		if int(p.Class)+1 > n {
			n = int(p.Class) + 1
		}
	}
	return n
}

// Histogram counts records per class. The result has NumClasses(pts) entries
// unless n is larger, in which case it has n.
func Histogram(pts []Record, n int) []int {
	n = max(n, NumClasses(pts))
	counts := make([]int, n)
	for _, p := range pts {
		if p.Class >= 0 {
			counts[p.Class]++
		}
	}
	return counts
}

// Bounds returns the bounding box of pts. ok is false for an empty set.
func Bounds(pts []Record) (geometry.BBox, bool) {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return geometry.BoundsOf(xs, ys)
}
