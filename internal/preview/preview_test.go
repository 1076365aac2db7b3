package preview

import (
	"path/filepath"
	"strings"
	"testing"

	"raster-points/internal/pointfile"
	"raster-points/internal/points"
	"raster-points/pkg/geometry"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePoints(t *testing.T, pts []points.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pts"+pointfile.Extension)
	require.NoError(t, pointfile.WriteFile(path, pts))
	return path
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrailleBits(t *testing.T) {
	b := newBrailleBuf(2, 1)
	b.setPixel(0, 0, 3)
	b.setPixel(1, 3, 3)
	b.setPixel(2, 1, 4)
	b.setPixel(-1, 0, 0)
	b.setPixel(4, 0, 0)

	assert.Equal(t, rune(0x2800+0x01+0x80), b.cell(0, 0))
	assert.Equal(t, rune(0x2800+0x02), b.cell(1, 0))
	assert.Equal(t, int32(3), b.class[0][0])
	assert.Equal(t, int32(4), b.class[0][1])
}

func TestPlotFlipsY(t *testing.T) {
	b := newBrailleBuf(1, 1)
	bounds := geometry.BBox{MaxX: 1, MaxY: 1}
	n := b.plot([]points.Record{{X: 0, Y: 1, Class: 0}, {X: 1, Y: 0, Class: 1}}, bounds, -1)
	assert.Equal(t, 2, n)
	// (0,1) is top-left, (1,0) bottom-right.
	assert.Equal(t, rune(0x2800+0x01+0x80), b.cell(0, 0))

	b = newBrailleBuf(1, 1)
	n = b.plot([]points.Record{{X: 0, Y: 1, Class: 0}, {X: 1, Y: 0, Class: 1}}, bounds, 1)
	assert.Equal(t, 1, n)
	assert.Equal(t, rune(0x2800+0x80), b.cell(0, 0))
}

func TestModelKeys(t *testing.T) {
	path := writePoints(t, []points.Record{
		{X: 0, Y: 0, Class: 0},
		{X: 1, Y: 1, Class: 1},
		{X: 2, Y: 2, Class: 1},
	})
	m := New(path, nil)
	assert.Equal(t, "3 points, 2 classes", m.status)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, int32(0), m.filter)
	assert.Equal(t, "class 0: 1 points", m.status)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, int32(1), m.filter)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, int32(-1), m.filter, "wraps to all")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	next, _ = m.Update(runes("a"))
	m = next.(Model)
	assert.Equal(t, int32(-1), m.filter)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestModelReload(t *testing.T) {
	path := writePoints(t, []points.Record{{X: 0, Y: 0, Class: 0}})
	m := New(path, nil)

	require.NoError(t, pointfile.WriteFile(path, []points.Record{{X: 0, Y: 0, Class: 0}, {X: 5, Y: 5, Class: 2}}))
	next, _ := m.Update(runes("r"))
	m = next.(Model)
	assert.Equal(t, "2 points, 3 classes", m.status)
	assert.Len(t, m.styles, 3)
}

func TestModelLoadError(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "missing.points"), nil)
	assert.True(t, strings.HasPrefix(m.status, "load error: "))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	assert.Contains(t, next.View(), "no points")
}

func TestModelView(t *testing.T) {
	path := writePoints(t, []points.Record{{X: 0, Y: 0, Class: 0}, {X: 10, Y: 10, Class: 1}})
	m := New(path, nil)
	assert.Empty(t, m.View(), "no size yet")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	view := next.View()
	assert.Contains(t, view, "pts.points")
	assert.Contains(t, view, "quit")
	assert.True(t, strings.ContainsFunc(view, func(r rune) bool { return r > 0x2800 && r <= 0x28FF }))
}
