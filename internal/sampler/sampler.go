// Package sampler walks a raster on a fixed grid and turns classified pixels
// into jittered point records.
package sampler

import (
	"image"
	"image/color"
	"math/rand/v2"

	"raster-points/internal/points"
	"raster-points/pkg/geometry"

	"gonum.org/v1/gonum/stat/distuv"
)

// Classifier maps a pixel color to a class index.
type Classifier interface {
	Classify(c color.Color) (class int32, ok bool)
}

// Result holds the output of one sampling pass.
type Result struct {
	Points  []points.Record
	Visited int // Grid positions inspected
}

// Candidates returns the number of grid positions along an axis of the given
// length: 1, 1+stride, ... while < length.
func Candidates(length, stride int) int {
	if length <= 1 || stride < 1 {
		return 0
	}
	return (length-2)/stride + 1
}

// Sample visits img starting at (1, 1) in steps of StrideX/StrideY, in raster
// order. Each pixel cls recognizes becomes a point at its grid position plus
// an independent uniform offset in [-Jitter, Jitter] per axis, with Y flipped
// so the origin is bottom-left. src drives the jitter; nil uses the global
// source. params must already be valid.
func Sample(img image.Image, cls Classifier, params Params, src rand.Source) Result {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	jitter := distuv.Uniform{Min: -params.Jitter, Max: params.Jitter, Src: src}
	offset := func() float64 {
		if params.Jitter == 0 {
			return 0
		}
		return jitter.Rand()
	}

	var res Result
	res.Points = make([]points.Record, 0,
		Candidates(width, params.StrideX)*Candidates(height, params.StrideY))

	for y := 1; y < height; y += params.StrideY {
		for x := 1; x < width; x += params.StrideX {
			res.Visited++
			class, ok := cls.Classify(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			if !ok {
				continue
			}
			grid := geometry.NewPoint2D(float64(x), float64(height-y))
			p := grid.Add(geometry.NewPoint2D(offset(), offset()))
			res.Points = append(res.Points, points.Record{X: p.X, Y: p.Y, Class: class})
		}
	}
	return res
}
