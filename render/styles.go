package render

import (
	"mapmarkers/markers"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// Display name of a dimension, e.g. "overworld" → "Overworld".
// A Caser keeps state between calls, so each call gets its own.
func DimensionTitle(dim markers.Dimension) string {
	return cases.Title(language.English).String(dim)
}

// Formats a toast the way the terminal shows it.
func Toast(msg string) string {
	return accentStyle.Render("› " + msg)
}

func Failure(msg string) string {
	return errorStyle.Render("✖ " + msg)
}
