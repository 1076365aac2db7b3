package sampler

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"raster-points/internal/palette"
	"raster-points/internal/points"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	water = color.NRGBA{R: 0xB5, G: 0xD0, B: 0xD0, A: 0xFF}
	grass = color.NRGBA{R: 0xCD, G: 0xEA, B: 0xB0, A: 0xFF}
	other = color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF}
)

func testPalette(t *testing.T) *palette.Palette {
	t.Helper()
	p, err := palette.New(water, grass)
	require.NoError(t, err)
	return p
}

// stripes paints columns water, grass, other, water, grass, other, ...
func stripes(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cols := []color.NRGBA{water, grass, other}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, cols[x%3])
		}
	}
	return img
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		length, stride, want int
	}{
		{10, 3, 3}, // 1,4,7
		{11, 3, 4}, // 1,4,7,10
		{7, 3, 2},  // 1,4
		{2, 1, 1},  // 1
		{1, 1, 0},  // nothing after the skipped first pixel
		{100, 1, 99},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Candidates(tt.length, tt.stride), "length=%d stride=%d", tt.length, tt.stride)
	}
}

func TestSampleVisitCount(t *testing.T) {
	pal := testPalette(t)
	for _, size := range [][2]int{{10, 7}, {13, 16}, {31, 4}} {
		img := solid(size[0], size[1], water)
		params := DefaultParams()
		res := Sample(img, pal, params, rand.NewPCG(1, 2))

		want := Candidates(size[0], params.StrideX) * Candidates(size[1], params.StrideY)
		assert.Equal(t, want, res.Visited)
		assert.Len(t, res.Points, want, "solid palette image classifies every sample")
	}

	// Width-1 and height-1 divisible by the stride: floor((w-1)/s)*floor((h-1)/s).
	res := Sample(solid(10, 7, water), pal, DefaultParams(), nil)
	assert.Equal(t, (9/3)*(6/3), res.Visited)
}

func TestSampleRasterOrderAndFlip(t *testing.T) {
	pal := testPalette(t)
	img := stripes(7, 5)
	params := Params{StrideX: 1, StrideY: 2, Jitter: 0}

	res := Sample(img, pal, params, nil)

	// Visited rows y=1,3 and columns x=1..6; x%3==2 is off-palette.
	want := []points.Record{
		{X: 1, Y: 4, Class: 1}, {X: 3, Y: 4, Class: 0}, {X: 4, Y: 4, Class: 1}, {X: 6, Y: 4, Class: 0},
		{X: 1, Y: 2, Class: 1}, {X: 3, Y: 2, Class: 0}, {X: 4, Y: 2, Class: 1}, {X: 6, Y: 2, Class: 0},
	}
	assert.Equal(t, want, res.Points)
	assert.Equal(t, 12, res.Visited)
}

func TestSampleJitterBound(t *testing.T) {
	pal := testPalette(t)
	img := solid(64, 64, grass)
	params := Params{StrideX: 2, StrideY: 2, Jitter: 0.25}

	res := Sample(img, pal, params, rand.NewPCG(42, 99))
	require.NotEmpty(t, res.Points)

	var moved int
	for _, p := range res.Points {
		gx := math.Round(p.X)
		gy := math.Round(p.Y)
		dx, dy := p.X-gx, p.Y-gy
		assert.LessOrEqual(t, math.Abs(dx), params.Jitter)
		assert.LessOrEqual(t, math.Abs(dy), params.Jitter)
		if dx != dy {
			moved++
		}
	}
	assert.Equal(t, len(res.Points), moved, "x and y offsets are drawn independently")
}

func TestSampleClassesAreValid(t *testing.T) {
	pal := testPalette(t)
	res := Sample(stripes(40, 40), pal, DefaultParams().WithStride(1), rand.NewPCG(3, 3))
	require.NotEmpty(t, res.Points)
	for _, p := range res.Points {
		assert.GreaterOrEqual(t, p.Class, int32(0))
		assert.Less(t, int(p.Class), pal.Len())
	}
}

func TestSampleReproducible(t *testing.T) {
	pal := testPalette(t)
	img := stripes(30, 30)
	a := Sample(img, pal, DefaultParams(), rand.NewPCG(5, 6))
	b := Sample(img, pal, DefaultParams(), rand.NewPCG(5, 6))
	assert.Equal(t, a, b)
}

func TestSampleOffsetBounds(t *testing.T) {
	pal := testPalette(t)
	img := solid(20, 20, water).SubImage(image.Rect(10, 10, 14, 14))
	res := Sample(img, pal, Params{StrideX: 1, StrideY: 1}, nil)
	assert.Equal(t, 9, res.Visited)
	assert.Equal(t, points.Record{X: 1, Y: 3, Class: 0}, res.Points[0])
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
	assert.ErrorIs(t, DefaultParams().WithStride(0).Validate(), ErrInvalidParams)
	assert.ErrorIs(t, DefaultParams().WithJitter(-1).Validate(), ErrInvalidParams)
	assert.ErrorIs(t, DefaultParams().WithJitter(math.NaN()).Validate(), ErrInvalidParams)
}
