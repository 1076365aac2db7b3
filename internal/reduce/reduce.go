// Package reduce subsamples point collections.
package reduce

import (
	"math/rand/v2"

	"raster-points/internal/points"

	"gonum.org/v1/gonum/stat/sampleuv"
)

// Reduce returns min(k, len(pts)) records drawn uniformly without
// replacement, so every subset of that size is equally likely. When k covers
// the whole input the result is a random permutation of it. pts is not
// modified. src drives the draw; nil uses the global source.
func Reduce(pts []points.Record, k int, src rand.Source) []points.Record {
	k = min(k, len(pts))
	if k <= 0 {
		return []points.Record{}
	}

	idxs := make([]int, k)
	sampleuv.WithoutReplacement(idxs, len(pts), src)

	out := make([]points.Record, k)
	for i, idx := range idxs {
		out[i] = pts[idx]
	}
	return out
}
