package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

// NotificationScheduler schedules timed user notifications.
type NotificationScheduler interface {
	// RequestAuthorization asks for permission to deliver notifications.
	// A denial is not an error; scheduling simply has no visible effect.
	RequestAuthorization(ctx context.Context) (bool, error)

	// Schedule queues n to fire after n.Delay, replacing any pending
	// notification with the same identifier.
	Schedule(ctx context.Context, n domain.Notification) error

	// CancelPending removes the pending notification with identifier.
	// It is a no-op if none is pending.
	CancelPending(ctx context.Context, identifier string) error
}

// PendingNotifications is implemented by schedulers that can report whether
// a notification is still waiting to fire.
type PendingNotifications interface {
	Pending(identifier string) (domain.Notification, time.Time, bool)
}

// NotificationDeliverer shows a notification to the user when it fires.
type NotificationDeliverer interface {
	Deliver(n domain.Notification)
}
