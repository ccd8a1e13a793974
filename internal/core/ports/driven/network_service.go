package driven

import "context"

// StartOptions configures one run of the network service.
type StartOptions struct {
	// SessionID identifies the session in file events.
	SessionID string

	// UploadRoot is the directory exposed read/write.
	UploadRoot string

	// AllowHiddenEntries exposes entries whose name starts with a dot.
	AllowHiddenEntries bool

	// AllowAutoSuspendInBackground lets the service suspend itself when the
	// application is backgrounded.
	AllowAutoSuspendInBackground bool
}

// NetworkService is the handle to the embedded file-upload server.
type NetworkService interface {
	// Start binds and begins serving. Returns the bound port.
	// Failures should be *domain.StartError so the reason can be displayed.
	// Returns domain.ErrSessionActive if already running.
	Start(ctx context.Context, opts StartOptions) (int, error)

	// Stop shuts the service down. Calling Stop when not running is a no-op.
	Stop() error
}

// FileEventObserver receives informational callbacks from the network
// service. Implementations must be safe for concurrent use and must never
// call back into the lifecycle coordinator.
type FileEventObserver interface {
	OnUpload(sessionID, path string)
	OnDownload(sessionID, path string)
	OnMove(sessionID, from, to string)
	OnCreateDirectory(sessionID, path string)
	OnDelete(sessionID, path string)
}
