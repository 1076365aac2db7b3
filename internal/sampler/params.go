package sampler

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("sampler: invalid params")

// Params controls the sampling grid.
type Params struct {
	StrideX int     // Horizontal step between samples, in pixels
	StrideY int     // Vertical step between samples, in pixels
	Jitter  float64 // Maximum absolute offset added to each coordinate
}

// DefaultParams returns the grid used for OSM tile exports: every third
// pixel, with a small jitter so no two samples share a coordinate.
func DefaultParams() Params {
	return Params{
		StrideX: 3,
		StrideY: 3,
		Jitter:  0.05,
	}
}

// WithStride returns a copy of params with the same stride on both axes.
func (p Params) WithStride(stride int) Params {
	p.StrideX = stride
	p.StrideY = stride
	return p
}

// WithJitter returns a copy of params with the given jitter magnitude.
func (p Params) WithJitter(jitter float64) Params {
	p.Jitter = jitter
	return p
}

// Validate checks that the strides are positive and the jitter is a finite,
// non-negative number.
func (p Params) Validate() error {
	if p.StrideX < 1 || p.StrideY < 1 {
		return fmt.Errorf("%w: stride %dx%d must be >= 1", ErrInvalidParams, p.StrideX, p.StrideY)
	}
	if p.Jitter < 0 || math.IsNaN(p.Jitter) || math.IsInf(p.Jitter, 0) {
		return fmt.Errorf("%w: jitter %v", ErrInvalidParams, p.Jitter)
	}
	return nil
}
