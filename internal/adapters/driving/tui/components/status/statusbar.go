// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pocketserve/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pocketserve/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

// Bar shows the coordinator state on the left and key hints on the right.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   domain.CoordinatorState
	focused bool
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:  s,
		keymap:  km,
		state:   domain.StateIdle,
		focused: true,
		width:   80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	var state string
	switch s.state {
	case domain.StateRunning:
		state = s.styles.Running.Render("running")
	case domain.StateRunningBackgrounded:
		state = s.styles.Pending.Render("running (background)")
	case domain.StateStarting:
		state = s.styles.Pending.Render("starting")
	case domain.StateStopped:
		state = s.styles.Failed.Render("stopped")
	default:
		state = s.styles.Muted.Render("idle")
	}

	if !s.focused {
		state += s.styles.Muted.Render(" · unfocused")
	}
	return state
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the coordinator state shown.
func (s *Bar) SetState(state domain.CoordinatorState) {
	s.state = state
}

// State returns the coordinator state shown.
func (s *Bar) State() domain.CoordinatorState {
	return s.state
}

// SetFocused records whether the terminal has focus.
func (s *Bar) SetFocused(focused bool) {
	s.focused = focused
}

// Focused reports whether the terminal has focus.
func (s *Bar) Focused() bool {
	return s.focused
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
