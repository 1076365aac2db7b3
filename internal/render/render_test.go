package render

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"raster-points/internal/points"
	"raster-points/pkg/colorutil"
	"raster-points/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func newRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := New(opts, rand.NewPCG(1, 1))
	require.NoError(t, err)
	return r
}

// changed lists every pixel that differs from the white background.
func changed(img *image.RGBA) []image.Point {
	var out []image.Point
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != colorutil.White {
				out = append(out, image.Pt(x, y))
			}
		}
	}
	return out
}

func TestSinglePointLandsInCenter(t *testing.T) {
	opts := DefaultOptions().WithSize(10, 8).WithMarker(1)
	out, err := newRenderer(t, opts).Render([]points.Record{{X: 12.5, Y: -3, Class: 0}}, []color.RGBA{red})
	require.NoError(t, err)

	assert.Equal(t, []image.Point{image.Pt(5, 4)}, changed(out.Image))
	assert.Equal(t, red, out.Image.RGBAAt(5, 4))
	assert.Equal(t, 1, out.Painted)
}

func TestSinglePointStrictFails(t *testing.T) {
	opts := DefaultOptions().WithSize(10, 10).WithMarker(1)
	opts.Strict = true
	_, err := newRenderer(t, opts).Render([]points.Record{{X: 1, Y: 1}}, nil)
	assert.ErrorIs(t, err, ErrDegenerateBounds)
}

func TestEmptyInputIsBlankCanvas(t *testing.T) {
	opts := DefaultOptions().WithSize(6, 4)
	opts.Strict = true
	out, err := newRenderer(t, opts).Render(nil, nil)
	require.NoError(t, err)
	assert.True(t, out.Empty)
	assert.Empty(t, changed(out.Image))
	assert.Equal(t, image.Rect(0, 0, 6, 4), out.Image.Bounds())
}

func TestLinearMappingAndFlip(t *testing.T) {
	opts := DefaultOptions().WithSize(100, 50).WithMarker(1)
	pts := []points.Record{
		{X: 0, Y: 0, Class: 0},   // bottom-left -> (0, 50), off canvas below
		{X: 10, Y: 10, Class: 0}, // top-right -> (100, 0), off canvas right
		{X: 2.5, Y: 8, Class: 1}, // (25, 10)
		{X: 5, Y: 2, Class: 1},   // (50, 40)
	}
	out, err := newRenderer(t, opts).Render(pts, []color.RGBA{red, blue})
	require.NoError(t, err)

	assert.Equal(t, geometry.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}, out.Bounds)
	assert.ElementsMatch(t, []image.Point{{25, 10}, {50, 40}}, changed(out.Image))
	assert.Equal(t, blue, out.Image.RGBAAt(25, 10))
	assert.Equal(t, 2, out.Painted)
}

func TestMarkerAnchors(t *testing.T) {
	pts := []points.Record{{X: 0, Y: 0}, {X: 4, Y: 4}, {X: 2, Y: 2}}

	center := DefaultOptions().WithSize(20, 20).WithMarker(3)
	out, err := newRenderer(t, center).Render(pts, []color.RGBA{red})
	require.NoError(t, err)
	// (2,2) maps to (10,10); a centred 3px marker covers 9..11.
	for _, p := range []image.Point{{9, 9}, {11, 11}, {10, 10}} {
		assert.Equal(t, red, out.Image.RGBAAt(p.X, p.Y), "pixel %v", p)
	}
	assert.Equal(t, colorutil.White, out.Image.RGBAAt(12, 12))

	topLeft := center
	topLeft.Anchor = AnchorTopLeft
	out, err = newRenderer(t, topLeft).Render(pts, []color.RGBA{red})
	require.NoError(t, err)
	assert.Equal(t, colorutil.White, out.Image.RGBAAt(9, 9))
	assert.Equal(t, red, out.Image.RGBAAt(12, 12))
}

func TestLaterPointsOverwrite(t *testing.T) {
	opts := DefaultOptions().WithSize(10, 10).WithMarker(3).WithBounds(geometry.BBox{MaxX: 10, MaxY: 10})
	pts := []points.Record{
		{X: 5, Y: 5, Class: 0},
		{X: 5, Y: 5, Class: 1},
	}
	out, err := newRenderer(t, opts).Render(pts, []color.RGBA{red, blue})
	require.NoError(t, err)
	assert.Equal(t, blue, out.Image.RGBAAt(5, 5))
	assert.Equal(t, 9, len(changed(out.Image)))
}

func TestBoundsOverride(t *testing.T) {
	opts := DefaultOptions().WithSize(360, 180).WithMarker(1).WithBounds(geometry.BBox{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90})
	out, err := newRenderer(t, opts).Render([]points.Record{{X: -6.26, Y: 53.35, Class: 0}}, []color.RGBA{red})
	require.NoError(t, err)
	// x = round((-6.26+180)/360*360) = 174, y = 180 - round((53.35+90)/180*180) = 37
	assert.Equal(t, []image.Point{{174, 37}}, changed(out.Image))
}

func TestGeneratedColorsAreStableWithinCall(t *testing.T) {
	opts := DefaultOptions().WithSize(30, 30).WithMarker(1)
	pts := []points.Record{{X: 0, Y: 0, Class: 2}, {X: 10, Y: 10, Class: 2}, {X: 5, Y: 5, Class: 0}}

	out, err := newRenderer(t, opts).Render(pts, []color.RGBA{red})
	require.NoError(t, err)
	require.Len(t, out.Colors, 3)
	assert.Equal(t, red, out.Colors[0])
	assert.Equal(t, uint8(255), out.Colors[2].A)

	// (10,10) -> (30,0) is off canvas, (0,0) -> (0,30) is off canvas; (5,5) -> (15,15)
	assert.Equal(t, red, out.Image.RGBAAt(15, 15))

	again, err := newRenderer(t, opts).Render(pts, []color.RGBA{red})
	require.NoError(t, err)
	assert.Equal(t, out.Colors, again.Colors, "same seed, same colors")
}

func TestLegend(t *testing.T) {
	opts := DefaultOptions().WithSize(200, 200).WithMarker(1)
	opts.Legend = true
	out, err := newRenderer(t, opts).Render([]points.Record{{X: 1, Y: 1, Class: 1}, {X: 2, Y: 2, Class: 0}}, []color.RGBA{red, blue})
	require.NoError(t, err)

	// Swatch interiors for class 0 and 1.
	assert.Equal(t, red, out.Image.RGBAAt(legendPad+legendSwatch/2, legendPad+legendSwatch/2))
	assert.Equal(t, blue, out.Image.RGBAAt(legendPad+legendSwatch/2, legendPad+legendRow+legendSwatch/2))
	assert.Equal(t, colorutil.Black, out.Image.RGBAAt(0, 0))
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
	assert.ErrorIs(t, DefaultOptions().WithSize(0, 10).Validate(), ErrInvalidOptions)
	assert.ErrorIs(t, DefaultOptions().WithMarker(0).Validate(), ErrInvalidOptions)

	_, err := New(DefaultOptions().WithMarker(-1), nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestParseAnchor(t *testing.T) {
	a, err := ParseAnchor("top-left")
	require.NoError(t, err)
	assert.Equal(t, AnchorTopLeft, a)
	assert.Equal(t, "top-left", a.String())

	a, err = ParseAnchor("")
	require.NoError(t, err)
	assert.Equal(t, AnchorCenter, a)

	_, err = ParseAnchor("middle")
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3600, 1800))
	th := Thumbnail(src, 400, 400)
	assert.Equal(t, image.Rect(0, 0, 400, 200), th.Bounds())

	small := image.NewRGBA(image.Rect(0, 0, 10, 5))
	assert.Equal(t, small.Bounds(), Thumbnail(small, 400, 400).Bounds())
}
