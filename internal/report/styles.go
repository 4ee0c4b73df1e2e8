package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/albertocavalcante/go-syncpack/selection"
)

// Color palette.
const (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorInfo    = lipgloss.Color("#3B82F6")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	nameStyle    = lipgloss.NewStyle().Bold(true)
	validStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	fixStyle     = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	suspectStyle = lipgloss.NewStyle().Foreground(colorInfo)
)

// categoryStyle returns the icon and style for a state's category.
func categoryStyle(s selection.State) (string, lipgloss.Style) {
	switch s.Category() {
	case selection.CategoryValid:
		return "✓", validStyle
	case selection.CategoryFixable:
		return "✗", fixStyle
	case selection.CategoryUnfixable:
		return "✗", errorStyle
	case selection.CategoryConflict:
		return "!", errorStyle
	case selection.CategorySuspect:
		return "?", suspectStyle
	}
	return "·", mutedStyle
}
