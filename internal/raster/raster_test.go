package raster

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.Set(2, 1, color.NRGBA{R: 0xB5, G: 0xD0, B: 0xD0, A: 0xFF})
	return img
}

func TestDecodePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, testImage()))

	src, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", src.Format)
	assert.Equal(t, 4, src.Width())
	assert.Equal(t, 3, src.Height())

	r, g, b, _ := src.Image.At(2, 1).RGBA()
	assert.Equal(t, [3]uint32{0xB5, 0xD0, 0xD0}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestDecodeFailure(t *testing.T) {
	_, err := Decode(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, ErrDecodeFailure)
}

func TestWritePNGAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canvas.png")
	require.NoError(t, WritePNG(path, testImage()))

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Path)
	assert.Equal(t, 4, src.Width())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDecodeFailure)
}

func TestEmptySource(t *testing.T) {
	var s Source
	assert.Equal(t, 0, s.Width())
	assert.Equal(t, 0, s.Height())
}
