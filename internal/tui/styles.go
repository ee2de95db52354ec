// Package tui provides the terminal user interface for Grelha.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mestredagrelha/grelha/internal/config"
	"github.com/mestredagrelha/grelha/internal/tui/components"
)

// Theme contains all style definitions for the TUI.
type Theme struct {
	// Colors (raw values for reference)
	PrimaryColor    lipgloss.Color
	SecondaryColor  lipgloss.Color
	AccentColor     lipgloss.Color
	BackgroundColor lipgloss.Color
	ErrorColor      lipgloss.Color
	WarningColor    lipgloss.Color
	SuccessColor    lipgloss.Color
	MutedColor      lipgloss.Color

	Base lipgloss.Style
	Bold lipgloss.Style

	// Color styles (for direct use)
	Primary   lipgloss.Style
	Secondary lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Success   lipgloss.Style
	Muted     lipgloss.Style

	// Component styles
	Header    lipgloss.Style
	Footer    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Box       lipgloss.Style
	Alert     lipgloss.Style
	AlertWarn lipgloss.Style
	AlertCrit lipgloss.Style

	// Channel tabs
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	StatusDivider lipgloss.Style

	// Palette handed to components and views.
	Palette components.Palette
}

// NewTheme creates a new theme based on the color scheme configuration.
func NewTheme(scheme config.ColorScheme) *Theme {
	switch scheme {
	case config.ColorSchemeCharcoal:
		return newCharcoalTheme()
	case config.ColorSchemeMono:
		return newMonoTheme()
	default:
		return newEmberTheme()
	}
}

// newEmberTheme is the default: coal orange on black.
func newEmberTheme() *Theme {
	return buildTheme(components.Palette{
		Primary:    lipgloss.Color("#FF9A3C"),
		Secondary:  lipgloss.Color("#B8652A"),
		Accent:     lipgloss.Color("#FFD166"),
		Background: lipgloss.Color("#000000"),
		Muted:      lipgloss.Color("#6B3A1A"),
		Error:      lipgloss.Color("#FF4444"),
		Warning:    lipgloss.Color("#FFEE58"),
		Success:    lipgloss.Color("#8BC34A"),
	})
}

func newCharcoalTheme() *Theme {
	return buildTheme(components.Palette{
		Primary:    lipgloss.Color("#D0D0D0"),
		Secondary:  lipgloss.Color("#8A8A8A"),
		Accent:     lipgloss.Color("#FF7043"),
		Background: lipgloss.Color("#1C1C1C"),
		Muted:      lipgloss.Color("#4E4E4E"),
		Error:      lipgloss.Color("#FF5252"),
		Warning:    lipgloss.Color("#FFB300"),
		Success:    lipgloss.Color("#66BB6A"),
	})
}

func newMonoTheme() *Theme {
	return buildTheme(components.Palette{
		Primary:    lipgloss.Color("#FFFFFF"),
		Secondary:  lipgloss.Color("#AAAAAA"),
		Accent:     lipgloss.Color("#FFFFFF"),
		Background: lipgloss.Color("#000000"),
		Muted:      lipgloss.Color("#666666"),
		Error:      lipgloss.Color("#FFFFFF"),
		Warning:    lipgloss.Color("#FFFFFF"),
		Success:    lipgloss.Color("#FFFFFF"),
	})
}

func buildTheme(p components.Palette) *Theme {
	t := &Theme{
		PrimaryColor:    p.Primary,
		SecondaryColor:  p.Secondary,
		AccentColor:     p.Accent,
		BackgroundColor: p.Background,
		MutedColor:      p.Muted,
		ErrorColor:      p.Error,
		WarningColor:    p.Warning,
		SuccessColor:    p.Success,
		Palette:         p,
	}

	t.Base = lipgloss.NewStyle().Foreground(p.Primary)
	t.Bold = t.Base.Bold(true)

	t.Primary = lipgloss.NewStyle().Foreground(p.Primary)
	t.Secondary = lipgloss.NewStyle().Foreground(p.Secondary)
	t.Accent = lipgloss.NewStyle().Foreground(p.Accent)
	t.Error = lipgloss.NewStyle().Foreground(p.Error)
	t.Warning = lipgloss.NewStyle().Foreground(p.Warning)
	t.Success = lipgloss.NewStyle().Foreground(p.Success)
	t.Muted = lipgloss.NewStyle().Foreground(p.Muted)

	// Header - top bar with store name
	t.Header = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		Padding(0, 1)

	t.Footer = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Padding(0, 1)

	t.Title = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true).
		Padding(0, 1)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Padding(0, 1)

	t.Label = lipgloss.NewStyle().Foreground(p.Secondary)
	t.Value = lipgloss.NewStyle().Foreground(p.Primary)

	t.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Secondary).
		Padding(0, 1)

	t.Alert = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true)

	t.AlertWarn = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true)

	t.AlertCrit = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)

	t.Tab = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Padding(0, 1)

	t.TabActive = lipgloss.NewStyle().
		Foreground(p.Background).
		Background(p.Primary).
		Bold(true).
		Padding(0, 1)

	t.StatusDivider = lipgloss.NewStyle().
		Foreground(p.Muted).
		SetString(" │ ")

	return t
}

// Box characters for drawing
const (
	BoxHorizontal       = "─"
	BoxDoubleHorizontal = "═"
)

// DrawHorizontalLine draws a horizontal line.
func (t *Theme) DrawHorizontalLine(width int) string {
	return t.Secondary.Render(strings.Repeat(BoxHorizontal, max(width, 0)))
}

// DrawDoubleLine draws a double horizontal line.
func (t *Theme) DrawDoubleLine(width int) string {
	return t.Primary.Render(strings.Repeat(BoxDoubleHorizontal, max(width, 0)))
}
