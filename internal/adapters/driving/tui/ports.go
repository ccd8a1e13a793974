// Package tui provides the interactive terminal screen for pocketserve.
// The screen's appearance and focus drive the lifecycle coordinator, and
// the coordinator's status is rendered back into it.
package tui

import (
	"time"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driving"
)

// LifecyclePublisher forwards background/foreground transitions to the
// coordinator's lifecycle subscription.
type LifecyclePublisher interface {
	Publish(event domain.LifecycleEvent)
}

// WarningTracker reports notifications that are scheduled but not yet
// delivered.
type WarningTracker interface {
	Pending(identifier string) (domain.Notification, time.Time, bool)
}

// Ports aggregates what the TUI drives and observes.
type Ports struct {
	// Coordinator receives screen events and is polled for its state.
	Coordinator driving.LifecycleCoordinator

	// Lifecycle receives focus changes and the b/f keys.
	Lifecycle LifecyclePublisher

	// Warnings, if set, lets the screen tell a scheduled warning from one
	// dropped for lack of permission.
	Warnings WarningTracker
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Coordinator == nil {
		return ErrMissingCoordinator
	}
	if p.Lifecycle == nil {
		return ErrMissingLifecycle
	}
	return nil
}
