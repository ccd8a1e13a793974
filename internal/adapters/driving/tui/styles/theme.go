// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Accent colours the title and key hints.
	Accent lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for secondary text such as timestamps.
	Muted lipgloss.Color

	// Running colours a serving status.
	Running lipgloss.Color

	// Pending colours transient states like starting.
	Pending lipgloss.Color

	// Failed colours a failed or stopped status.
	Failed lipgloss.Color

	// Banner is the background of a delivered notification.
	Banner lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Running:    lipgloss.Color("#A6E3A1"), // Green
		Pending:    lipgloss.Color("#F9E2AF"), // Yellow
		Failed:     lipgloss.Color("#F38BA8"), // Red
		Banner:     lipgloss.Color("#FAB387"), // Peach
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title   lipgloss.Style
	Normal  lipgloss.Style
	Muted   lipgloss.Style
	Running lipgloss.Style
	Pending lipgloss.Style
	Failed  lipgloss.Style

	// EventTag renders the [UPLOAD]-style prefix in the event log.
	EventTag lipgloss.Style

	// Banner renders a delivered notification.
	Banner lipgloss.Style

	// Panel wraps the event log.
	Panel lipgloss.Style

	StatusBar lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Running: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Running),

		Pending: lipgloss.NewStyle().
			Foreground(theme.Pending),

		Failed: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Failed),

		EventTag: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(theme.Banner).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
