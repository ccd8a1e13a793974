package domain

import "time"

// SuspensionWarningID is the well-known identifier of the suspension warning.
// Scheduling under this identifier supersedes any pending warning.
const SuspensionWarningID = "serverSuspending"

// Default notification text shown when the warning fires.
const (
	DefaultWarningTitle = "Server Suspending"
	DefaultWarningBody  = "Return to the app to keep the file server running."
)

// Notification is a request to deliver a message after a delay.
type Notification struct {
	// Identifier groups requests; at most one is pending per identifier.
	Identifier string

	// Title is the notification heading.
	Title string

	// Body is the notification text.
	Body string

	// Delay is how long after scheduling the notification fires.
	Delay time.Duration
}

// SuspensionWarning is a pending notification warning of imminent suspension.
type SuspensionWarning struct {
	// Identifier is always SuspensionWarningID.
	Identifier string

	// FireDelay is the grace window before the warning fires.
	FireDelay time.Duration

	// ScheduledAt is when the warning was scheduled.
	ScheduledAt time.Time
}

// NewSuspensionWarning creates a warning scheduled at now.
func NewSuspensionWarning(delay time.Duration, now time.Time) SuspensionWarning {
	return SuspensionWarning{
		Identifier:  SuspensionWarningID,
		FireDelay:   delay,
		ScheduledAt: now,
	}
}

// FiresAt returns when the warning is due.
func (w SuspensionWarning) FiresAt() time.Time {
	return w.ScheduledAt.Add(w.FireDelay)
}

// Remaining returns the time left before the warning fires, never negative.
func (w SuspensionWarning) Remaining(now time.Time) time.Duration {
	d := w.FiresAt().Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Notification builds the notification request for this warning.
func (w SuspensionWarning) Notification(title, body string) Notification {
	return Notification{
		Identifier: w.Identifier,
		Title:      title,
		Body:       body,
		Delay:      w.FireDelay,
	}
}
