package domain

import "time"

// SuspendPolicy controls how the network service behaves when the
// application is backgrounded.
type SuspendPolicy struct {
	// AllowAutoSuspendInBackground lets the service suspend itself as soon
	// as the application enters the background. The coordinator always
	// disables it so the service keeps running through the grace window.
	AllowAutoSuspendInBackground bool
}

// ServiceSession represents one run of the local network service.
// ListenPort is non-zero if and only if Running is true.
type ServiceSession struct {
	// ID is the unique identifier for the session.
	ID string

	// Running indicates the service is bound and serving.
	Running bool

	// ListenPort is the bound TCP port. Zero when not running.
	ListenPort int

	// UploadRoot is the directory exposed read/write by the service.
	UploadRoot string

	// AllowHiddenEntries exposes entries whose name starts with a dot.
	AllowHiddenEntries bool

	// SuspendPolicy is the background behaviour requested at start.
	SuspendPolicy SuspendPolicy

	// StartedAt is when the service started. Zero until running.
	StartedAt time.Time
}

// HasPort returns true if a listen port is recorded.
func (s *ServiceSession) HasPort() bool {
	return s.ListenPort > 0
}

// MarkRunning records a successful start on port.
func (s *ServiceSession) MarkRunning(port int, at time.Time) {
	s.Running = true
	s.ListenPort = port
	s.StartedAt = at
}

// MarkStopped clears the running state and the port together.
func (s *ServiceSession) MarkStopped() {
	s.Running = false
	s.ListenPort = 0
}

// Consistent reports whether the running/port invariant holds.
func (s *ServiceSession) Consistent() bool {
	return s.Running == s.HasPort()
}

// SessionRecord is the persisted history of one session attempt.
type SessionRecord struct {
	// ID matches ServiceSession.ID.
	ID string

	// UploadRoot is the directory that was exposed.
	UploadRoot string

	// Port is the port the session listened on. Zero if start failed.
	Port int

	// StartedAt is when the session was requested.
	StartedAt time.Time

	// StoppedAt is when the session ended. Zero while still running.
	StoppedAt time.Time

	// Failure contains the start failure reason, if any.
	Failure string
}

// Active returns true if the session started and has not stopped.
func (r *SessionRecord) Active() bool {
	return r.Failure == "" && r.StoppedAt.IsZero()
}
