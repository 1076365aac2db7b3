// Package preview is a terminal viewer that plots a point file with braille
// characters, one color per class.
package preview

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"raster-points/internal/pointfile"
	"raster-points/internal/points"
	"raster-points/pkg/colorutil"
	"raster-points/pkg/geometry"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Quit   key.Binding
	Filter key.Binding
	All    key.Binding
	Reload key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.All, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Filter: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next class"),
	),
	All: key.NewBinding(
		key.WithKeys("a", "esc"),
		key.WithHelp("a", "all classes"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
}

// Model is the bubbletea model for one point file.
type Model struct {
	width  int
	height int

	path   string
	pts    []points.Record
	bounds geometry.BBox
	colors []color.RGBA
	styles []lipgloss.Style
	counts []int

	// filter is the only class shown, or -1 for all.
	filter int32
	status string

	help help.Model
}

// New loads path and returns a model. colors overrides the class colors;
// classes past its end get evenly spread hues. A load failure is reported
// in the status line rather than returned so the file can be fixed and
// reloaded.
func New(path string, colors []color.RGBA) Model {
	m := Model{
		path:   path,
		colors: colors,
		filter: -1,
		help:   help.New(),
	}
	m.load()
	return m
}

func (m *Model) load() {
	pts, err := pointfile.ReadFile(m.path)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.setPoints(pts)
	m.status = fmt.Sprintf("%d points, %d classes", len(pts), len(m.counts))
}

func (m *Model) setPoints(pts []points.Record) {
	m.pts = pts
	m.counts = points.Histogram(pts, 0)
	m.bounds, _ = points.Bounds(pts)

	n := max(len(m.counts), len(m.colors))
	cols := colorutil.Spread(n)
	copy(cols, m.colors)
	m.styles = classStyles(cols)

	if int(m.filter) >= len(m.counts) {
		m.filter = -1
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Filter):
			m.filter = nextFilter(m.filter, len(m.counts))
			m.status = m.filterStatus()
		case key.Matches(msg, keys.All):
			m.filter = -1
			m.status = m.filterStatus()
		case key.Matches(msg, keys.Reload):
			m.load()
		}
	}
	return m, nil
}

// nextFilter cycles all -> 0 -> 1 -> ... -> n-1 -> all.
func nextFilter(cur int32, n int) int32 {
	if n == 0 {
		return -1
	}
	next := cur + 1
	if int(next) >= n {
		return -1
	}
	return next
}

func (m Model) filterStatus() string {
	if m.filter < 0 {
		return fmt.Sprintf("all classes: %d points", len(m.pts))
	}
	return fmt.Sprintf("class %d: %d points", m.filter, m.counts[m.filter])
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := titleStyle.Render(" " + filepath.Base(m.path) + " ")
	footer := statusStyle.Render(m.status) + "\n" + m.help.View(keys)

	mapH := max(4, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	mapW := max(8, m.width)

	return lipgloss.JoinVertical(lipgloss.Left, header, m.renderMap(mapW, mapH), footer)
}

// renderMap draws the filtered points into a w x h cell area.
func (m Model) renderMap(w, h int) string {
	if len(m.pts) == 0 {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, dimStyle.Render("no points"))
	}
	buf := newBrailleBuf(w, h)
	buf.plot(m.pts, m.bounds, m.filter)

	var sb strings.Builder
	for y := 0; y < buf.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < buf.w; x++ {
			r := buf.cell(x, y)
			c := buf.class[y][x]
			if r == ' ' || c < 0 || int(c) >= len(m.styles) {
				sb.WriteRune(r)
				continue
			}
			sb.WriteString(m.styles[c].Render(string(r)))
		}
	}
	return sb.String()
}
