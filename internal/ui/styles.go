// Package ui provides terminal color detection and a small style palette
// for the CLI's table-style output (status, stats, doctor). Adapted from
// the internal/ui package, trimmed to the styles those commands
// actually need — no TUI dashboard, since nothing in this project runs a
// long-lived bubbletea program.
package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const (
	ColorAccent = "154" // lime green, matches the palette
	ColorWarn = "220"
	ColorError = "196"
	ColorDim = "245"
)

// Styles holds the style set one renderer uses consistently.
type Styles struct {
	Header lipgloss.Style
	OK lipgloss.Style
	Warn lipgloss.Style
	Fail lipgloss.Style
	Dim lipgloss.Style
}

// DefaultStyles returns the colored style set.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccent)),
		OK: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent)),
		Warn: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarn)),
		Fail: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)),
		Dim: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDim)),
	}
}

// PlainStyles returns a style set whose Render is a no-op, for NO_COLOR,
// non-TTY output, and CI environments.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{Header: plain, OK: plain, Warn: plain, Fail: plain, Dim: plain}
}

// StylesFor picks colored or plain styles for w based on NO_COLOR and
// whether w is a terminal.
func StylesFor(w io.Writer) Styles {
	if DetectNoColor() || !IsTTY(w) {
		return PlainStyles()
	}
	return DefaultStyles()
}

// IsTTY reports whether w is a terminal file descriptor.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// DetectNoColor reports whether the NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
