package render

import (
	"image"
	"image/color"
	"strconv"

	"raster-points/pkg/colorutil"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	legendPad    = 6
	legendSwatch = 12
	legendRow    = 16
)

// drawLegend paints a white key box in the top-left corner listing each
// class index next to its color swatch.
func drawLegend(img *image.RGBA, colors []color.RGBA) {
	if len(colors) == 0 {
		return
	}
	face := basicfont.Face7x13

	labels := make([]string, len(colors))
	labelW := 0
	for i := range colors {
		labels[i] = strconv.Itoa(i)
		labelW = max(labelW, font.MeasureString(face, labels[i]).Ceil())
	}

	box := image.Rect(0, 0, legendPad*3+legendSwatch+labelW, legendPad*2+len(colors)*legendRow)
	draw.Draw(img, box, image.NewUniform(colorutil.White), image.Point{}, draw.Src)
	drawRect(img, box.Min.X, box.Min.Y, box.Max.X-1, box.Max.Y-1, colorutil.Black)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colorutil.Black),
		Face: face,
	}
	for i, c := range colors {
		y := legendPad + i*legendRow
		swatch := image.Rect(legendPad, y, legendPad+legendSwatch, y+legendSwatch)
		draw.Draw(img, swatch, image.NewUniform(c), image.Point{}, draw.Src)
		drawRect(img, swatch.Min.X, swatch.Min.Y, swatch.Max.X-1, swatch.Max.Y-1, colorutil.Black)

		d.Dot = fixed.P(legendPad*2+legendSwatch, y+legendSwatch-1)
		d.DrawString(labels[i])
	}
}

// drawRect draws a rectangle outline.
func drawRect(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	bounds := img.Bounds()

	// Top and bottom edges
	for x := x1; x <= x2; x++ {
		if x >= bounds.Min.X && x < bounds.Max.X {
			if y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
				img.Set(x, y1, c)
			}
			if y2 >= bounds.Min.Y && y2 < bounds.Max.Y {
				img.Set(x, y2, c)
			}
		}
	}

	// Left and right edges
	for y := y1; y <= y2; y++ {
		if y >= bounds.Min.Y && y < bounds.Max.Y {
			if x1 >= bounds.Min.X && x1 < bounds.Max.X {
				img.Set(x1, y, c)
			}
			if x2 >= bounds.Min.X && x2 < bounds.Max.X {
				img.Set(x2, y, c)
			}
		}
	}
}
