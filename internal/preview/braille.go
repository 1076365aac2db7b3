package preview

import (
	"raster-points/internal/points"
	"raster-points/pkg/geometry"
)

// brailleBuf is a grid of braille cells, each holding 2x4 micro-pixels and
// the class of the last point plotted into it.
type brailleBuf struct {
	w, h  int       // in cells
	m     [][]uint8 // per-cell 8-bit mask
	class [][]int32 // last class per cell, -1 when empty
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	class := make([][]int32, h)
	for i := range m {
		m[i] = make([]uint8, w)
		class[i] = make([]int32, w)
		for j := range class[i] {
			class[i][j] = -1
		}
	}
	return &brailleBuf{w: w, h: h, m: m, class: class}
}

// dotBits maps a micro-pixel (column, row) within a cell to its braille dot.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell).
func (b *brailleBuf) setPixel(mx, my int, class int32) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[rx][ry]
	b.class[cy][cx] = class
}

// plot maps pts into the buffer with Y pointing up. A negative filter plots
// every class; otherwise only that class.
func (b *brailleBuf) plot(pts []points.Record, bounds geometry.BBox, filter int32) int {
	mw, mh := b.w*2, b.h*4
	n := 0
	for _, p := range pts {
		if filter >= 0 && p.Class != filter {
			continue
		}
		u := bounds.Normalize(p.Point())
		mx := int(u.X * float64(mw-1))
		my := mh - 1 - int(u.Y*float64(mh-1))
		b.setPixel(mx, my, p.Class)
		n++
	}
	return n
}

func (b *brailleBuf) cell(x, y int) rune {
	mask := b.m[y][x]
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 + int(mask))
}
