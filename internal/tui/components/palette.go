package components

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors components render with.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Warning    lipgloss.Color
	Success    lipgloss.Color
}

// DefaultPalette is the ember scheme.
func DefaultPalette() Palette {
	return Palette{
		Primary:    lipgloss.Color("#FF9A3C"),
		Secondary:  lipgloss.Color("#B8652A"),
		Accent:     lipgloss.Color("#FFD166"),
		Background: lipgloss.Color("#000000"),
		Muted:      lipgloss.Color("#6B3A1A"),
		Error:      lipgloss.Color("#FF4444"),
		Warning:    lipgloss.Color("#FFEE58"),
		Success:    lipgloss.Color("#8BC34A"),
	}
}

func (p Palette) fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}
