package points

import (
	"testing"

	"raster-points/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumClassesAndHistogram(t *testing.T) {
	pts := []Record{{0, 0, 2}, {1, 1, 0}, {2, 2, 2}}
	assert.Equal(t, 3, NumClasses(pts))
	assert.Equal(t, []int{1, 0, 2}, Histogram(pts, 0))
	assert.Equal(t, []int{1, 0, 2, 0, 0}, Histogram(pts, 5))

	assert.Equal(t, 0, NumClasses(nil))
	assert.Empty(t, Histogram(nil, 0))
}

func TestBounds(t *testing.T) {
	b, ok := Bounds([]Record{{X: 1, Y: 5}, {X: -2, Y: 8}})
	require.True(t, ok)
	assert.Equal(t, geometry.BBox{MinX: -2, MinY: 5, MaxX: 1, MaxY: 8}, b)

	_, ok = Bounds(nil)
	assert.False(t, ok)
}
