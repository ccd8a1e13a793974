// Package eventlog renders the most recent file and session events.
package eventlog

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/pocketserve/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

// DefaultCapacity is how many events the log keeps.
const DefaultCapacity = 200

// Log keeps a bounded, ordered list of events.
type Log struct {
	styles   *styles.Styles
	events   []domain.FileEvent
	capacity int
	height   int
}

// New creates an event log holding up to capacity events.
// A capacity of zero or less uses DefaultCapacity.
func New(s *styles.Styles, capacity int) *Log {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{styles: s, capacity: capacity, height: 10}
}

// Append adds an event, dropping the oldest when full.
func (l *Log) Append(e domain.FileEvent) {
	l.events = append(l.events, e)
	if over := len(l.events) - l.capacity; over > 0 {
		l.events = append(l.events[:0:0], l.events[over:]...)
	}
}

// Clear removes every event.
func (l *Log) Clear() {
	l.events = nil
}

// Len returns the number of events held.
func (l *Log) Len() int {
	return len(l.events)
}

// Events returns a copy of the held events, oldest first.
func (l *Log) Events() []domain.FileEvent {
	return append([]domain.FileEvent(nil), l.events...)
}

// SetHeight sets how many lines View renders.
func (l *Log) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	l.height = h
}

// View renders the newest events that fit, oldest at the top.
func (l *Log) View() string {
	if len(l.events) == 0 {
		return l.styles.Muted.Render("No activity yet.")
	}

	start := len(l.events) - l.height
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, len(l.events)-start)
	for _, e := range l.events[start:] {
		line := l.styles.EventTag.Render(fmt.Sprintf("[%s]", e.Kind.Tag()))
		if body := e.String(); body != "" {
			line += " " + l.styles.Normal.Render(body)
		}
		if !e.At.IsZero() {
			line = l.styles.Muted.Render(e.At.Format("15:04:05")) + " " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
