// Package binning classifies continuous values into an ordered table of
// half-open intervals.
package binning

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidTable is returned by Table.Validate.
var ErrInvalidTable = errors.New("binning: invalid table")

// Bin is the half-open interval [Lower, Upper).
type Bin struct {
	Lower float64 `json:"lower" toml:"lower" yaml:"lower"`
	Upper float64 `json:"upper" toml:"upper" yaml:"upper"`
}

// Contains reports whether Lower <= v < Upper.
func (b Bin) Contains(v float64) bool {
	return b.Lower <= v && v < b.Upper
}

// Table is an ordered list of bins; a bin's position is its class index.
// Bins are checked in order and the first match wins. Gaps are allowed.
type Table []Bin

// Temperature is the dry-bulb temperature table (°C) used for weather-station
// exports. It has no bin for [-40, -30).
var Temperature = Table{
	{-200, -50},
	{-50, -40},
	{-30, -20},
	{-20, -10},
	{-10, -5},
	{-5, 0},
	{0, 2.5},
	{2.5, 5},
	{5, 7.5},
	{7.5, 10},
	{10, 12.5},
	{12.5, 15},
	{15, 17.5},
	{17.5, 20},
	{20, 22.5},
	{22.5, 25},
	{25, 27.5},
	{27.5, 30},
	{30, 35},
	{35, 40},
	{40, 50},
	{50, 200},
}

// Index returns the class of v, or ok=false when no bin contains it.
// NaN is never contained.
func (t Table) Index(v float64) (class int32, ok bool) {
	for i, b := range t {
		if b.Contains(v) {
			return int32(i), true
		}
	}
	return 0, false
}

// Validate checks that every bin is non-empty and bounded by non-NaN values.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no bins", ErrInvalidTable)
	}
	for i, b := range t {
		if math.IsNaN(b.Lower) || math.IsNaN(b.Upper) {
			return fmt.Errorf("%w: bin %d has NaN bound", ErrInvalidTable, i)
		}
		if !(b.Lower < b.Upper) {
			return fmt.Errorf("%w: bin %d [%g, %g) is empty", ErrInvalidTable, i, b.Lower, b.Upper)
		}
	}
	return nil
}

// Linear builds a gap-free table of equal-width bins of size step covering
// [lo, hi), plus an open-ended bin on each side so every finite value is
// classified.
func Linear(lo, hi, step float64) (Table, error) {
	if !(lo < hi) || !(step > 0) {
		return nil, fmt.Errorf("%w: linear lo=%g hi=%g step=%g", ErrInvalidTable, lo, hi, step)
	}
	t := Table{{Lower: math.Inf(-1), Upper: lo}}
	for i := 0; ; i++ {
		lower := lo + float64(i)*step
		if lower >= hi {
			break
		}
		upper := math.Min(lo+float64(i+1)*step, hi)
		t = append(t, Bin{Lower: lower, Upper: upper})
	}
	return append(t, Bin{Lower: hi, Upper: math.Inf(1)}), nil
}
