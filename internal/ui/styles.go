package ui

import "github.com/charmbracelet/lipgloss"

// Color palette for report glyphs.
const (
	ColorGreen    = "42"  // Passed items
	ColorWhite    = "255" // Headers, important text
	ColorGray     = "245" // Informational lines
	ColorDarkGray = "238" // Separators
	ColorRed      = "196" // Failures
	ColorYellow   = "220" // Warnings
	ColorCyan     = "39"  // Info glyph
)

// Styles holds all styles used to render the readiness report.
type Styles struct {
	Header  lipgloss.Style
	Pass    lipgloss.Style
	Warn    lipgloss.Style
	Fail    lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Rule    lipgloss.Style
	Summary lipgloss.Style
}

// DefaultStyles returns colored styles for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Pass:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Warn:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Fail:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRed)),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCyan)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Rule:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Summary: lipgloss.NewStyle().Bold(true),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Pass:    lipgloss.NewStyle(),
		Warn:    lipgloss.NewStyle(),
		Fail:    lipgloss.NewStyle(),
		Info:    lipgloss.NewStyle(),
		Dim:     lipgloss.NewStyle(),
		Rule:    lipgloss.NewStyle(),
		Summary: lipgloss.NewStyle(),
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
