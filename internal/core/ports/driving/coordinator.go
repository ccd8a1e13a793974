package driving

import (
	"context"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

// LifecycleCoordinator ties screen and application lifecycle to the local
// network service and the suspension warning.
// Dispatch never fails; events that do not apply are ignored.
type LifecycleCoordinator interface {
	// Dispatch processes a lifecycle event.
	Dispatch(ctx context.Context, event domain.LifecycleEvent)

	// Snapshot returns the coordinator's current state.
	Snapshot() CoordinatorSnapshot
}

// CoordinatorSnapshot is a point-in-time view of the coordinator.
type CoordinatorSnapshot struct {
	// State is the coordinator state.
	State domain.CoordinatorState

	// Session is the active session, nil when none exists.
	Session *domain.ServiceSession

	// Warning is the pending suspension warning, nil when none is pending.
	Warning *domain.SuspensionWarning

	// LastReport is the most recent status report, nil before the first.
	LastReport *domain.StatusReport
}
