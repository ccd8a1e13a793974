package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.Equal(t, lipgloss.Color("#A6E3A1"), theme.Running)
	assert.Equal(t, lipgloss.Color("#F38BA8"), theme.Failed)
	assert.NotEqual(t, theme.Running, theme.Pending)
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestNewStyles_CustomTheme(t *testing.T) {
	theme := DefaultTheme()
	theme.Running = lipgloss.Color("#00FF00")

	s := NewStyles(theme)

	assert.Same(t, theme, s.Theme())
	assert.Equal(t, lipgloss.Color("#00FF00"), s.Running.GetForeground())
}

func TestStyles_Render(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Running.Render("running"), "running")
	assert.Contains(t, s.Banner.Render("Server Suspending"), "Server Suspending")
	assert.True(t, s.Failed.GetBold())
}
