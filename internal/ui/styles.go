// Package ui holds the CLI's terminal styling helpers.
package ui

import "github.com/charmbracelet/lipgloss"

// defaultAccent is a soft teal; overridable from config via ConfigureTheme.
const defaultAccent = "#2DD4BF"

var accentColor = defaultAccent

var (
	// Accent styles file paths, names, and highlights.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))

	// Muted styles secondary info and hints.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold styles section headers.
	Bold = lipgloss.NewStyle().Bold(true)
)

// ConfigureTheme applies the configured accent color. Supported values are
// ANSI color codes ("0"–"255") and hex colors ("#RRGGBB"); anything else is
// ignored.
func ConfigureTheme(accent string) {
	if accent == "" {
		return
	}
	accentColor = accent
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(accent))
}

// AccentColor returns the active accent color.
func AccentColor() string { return accentColor }
