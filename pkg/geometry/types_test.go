package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsOf(t *testing.T) {
	b, ok := BoundsOf([]float64{3, -1, 2}, []float64{10, 4, 7})
	require.True(t, ok)
	assert.Equal(t, BBox{MinX: -1, MinY: 4, MaxX: 3, MaxY: 10}, b)

	_, ok = BoundsOf(nil, nil)
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 0.0, Normalize(-1, -1, 3))
	assert.Equal(t, 1.0, Normalize(3, -1, 3))
	assert.Equal(t, 0.25, Normalize(0, -1, 3))
	assert.Equal(t, 0.5, Normalize(42, 42, 42), "zero span maps to midpoint")
}

func TestBBoxNormalizeDegenerate(t *testing.T) {
	b := BBox{MinX: 5, MinY: 0, MaxX: 5, MaxY: 10}
	assert.True(t, b.Degenerate())
	got := b.Normalize(NewPoint2D(5, 10))
	assert.Equal(t, Point2D{X: 0.5, Y: 1}, got)
}

func TestParseBBox(t *testing.T) {
	b, err := ParseBBox("-180, -90, 180, 90")
	require.NoError(t, err)
	assert.Equal(t, BBox{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}, b)
	assert.Equal(t, 360.0, b.Width())
	assert.Equal(t, 180.0, b.Height())

	_, err = ParseBBox("1,2,3")
	assert.Error(t, err)
	_, err = ParseBBox("1,2,0,3")
	assert.Error(t, err)
	_, err = ParseBBox("a,2,3,4")
	assert.Error(t, err)
}
