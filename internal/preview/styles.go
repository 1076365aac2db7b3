package preview

import (
	"image/color"

	"raster-points/pkg/colorutil"

	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")

	titleStyle  = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(baseDimFg)
	statusStyle = lipgloss.NewStyle().Foreground(baseFg)
)

// classStyles returns one foreground style per class color.
func classStyles(colors []color.RGBA) []lipgloss.Style {
	out := make([]lipgloss.Style, len(colors))
	for i, c := range colors {
		out[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(colorutil.Hex(c)))
	}
	return out
}
