// Package raster provides source image loading and canvas encoding.
package raster

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"raster-points/internal/atomicfile"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecodeFailure marks an unreadable or corrupt raster. It is fatal for the run.
var ErrDecodeFailure = errors.New("raster: decode failure")

// Source is a decoded raster held entirely in memory.
type Source struct {
	Path   string      // Original file path, empty when decoded from a stream
	Format string      // Registered format name ("png", "jpeg", "tiff", ...)
	Image  image.Image // Decoded pixels
}

// Load decodes the image at path.
func Load(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	src, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src.Path = path
	return src, nil
}

// Decode reads a whole image from r. Errors wrap ErrDecodeFailure.
func Decode(r io.Reader) (*Source, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w: %w", ErrDecodeFailure, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("failed to decode image: %w: empty bounds %v", ErrDecodeFailure, b)
	}
	return &Source{Format: format, Image: img}, nil
}

// Width returns the image width in pixels.
func (s *Source) Width() int {
	if s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (s *Source) Height() int {
	if s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dy()
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// WritePNG encodes img to path, replacing any existing file only on success.
func WritePNG(path string, img image.Image) error {
	return atomicfile.WriteFile(path, func(w io.Writer) error {
		return EncodePNG(w, img)
	})
}
