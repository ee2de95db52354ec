package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LayoutBreakpoint defines terminal width thresholds for responsive layout.
type LayoutBreakpoint int

const (
	// BreakpointNarrow is for terminals under 60 columns (phones over ssh).
	BreakpointNarrow LayoutBreakpoint = 60
	// BreakpointMedium is for terminals between 60-100 columns.
	BreakpointMedium LayoutBreakpoint = 100
	// BreakpointWide is for terminals over 100 columns.
	BreakpointWide LayoutBreakpoint = 140
)

// GetBreakpoint returns the current layout breakpoint for the given width.
func GetBreakpoint(width int) LayoutBreakpoint {
	switch {
	case width < int(BreakpointNarrow):
		return BreakpointNarrow
	case width < int(BreakpointMedium):
		return BreakpointMedium
	default:
		return BreakpointWide
	}
}

// Truncate shortens a string to fit within maxWidth, adding ellipsis if needed.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	if maxWidth == 1 {
		return "…"
	}
	if len(runes) > maxWidth-1 {
		runes = runes[:maxWidth-1]
	}
	return string(runes) + "…"
}

// PadRight pads a string to the given width with spaces.
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// ContentWidth returns the usable content width, capped between min and max.
func ContentWidth(termWidth, minWidth, maxWidth int) int {
	w := termWidth
	if w < minWidth {
		w = minWidth
	}
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
	}
	return w
}

// ContentHeight returns the usable content height after subtracting chrome.
// chromeLines is the total lines used by header, footer, alert bar, separators.
func ContentHeight(termHeight, chromeLines int) int {
	h := termHeight - chromeLines
	if h < 5 {
		h = 5
	}
	return h
}
