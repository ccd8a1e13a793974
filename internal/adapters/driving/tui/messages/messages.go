// Package messages defines Bubbletea message types for the TUI.
// They carry coordinator output and notifier deliveries into the model.
package messages

import (
	"time"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

// StatusReported carries a coordinator status report.
type StatusReported struct {
	Report domain.StatusReport
}

// FileEventOccurred carries a file or session event for the event log.
type FileEventOccurred struct {
	Event domain.FileEvent
}

// NotificationDelivered is sent when a scheduled notification fires.
type NotificationDelivered struct {
	Notification domain.Notification
	At           time.Time
}

// Tick refreshes time-dependent parts of the screen such as the warning
// countdown.
type Tick struct {
	At time.Time
}

// LifecycleDispatched is returned once a screen event has been handled by
// the coordinator.
type LifecycleDispatched struct {
	Event domain.LifecycleEvent
}
