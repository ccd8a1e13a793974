package domain

import (
	"fmt"
	"time"
)

// FileEventKind identifies a file operation performed through the service.
type FileEventKind string

const (
	FileEventUpload          FileEventKind = "upload"
	FileEventDownload        FileEventKind = "download"
	FileEventMove            FileEventKind = "move"
	FileEventCreateDirectory FileEventKind = "create"
	FileEventDelete          FileEventKind = "delete"
)

// Session-level events stored alongside file events in history.
const (
	SessionEventBackgrounded     FileEventKind = "backgrounded"
	SessionEventForegrounded     FileEventKind = "foregrounded"
	SessionEventWarningScheduled FileEventKind = "warning_scheduled"
	SessionEventWarningCancelled FileEventKind = "warning_cancelled"
)

// Tag returns the console tag for the kind, e.g. "UPLOAD".
func (k FileEventKind) Tag() string {
	switch k {
	case FileEventUpload:
		return "UPLOAD"
	case FileEventDownload:
		return "DOWNLOAD"
	case FileEventMove:
		return "MOVE"
	case FileEventCreateDirectory:
		return "CREATE"
	case FileEventDelete:
		return "DELETE"
	case SessionEventBackgrounded:
		return "BACKGROUND"
	case SessionEventForegrounded:
		return "FOREGROUND"
	case SessionEventWarningScheduled:
		return "WARNING"
	case SessionEventWarningCancelled:
		return "WARNING-CANCELLED"
	default:
		return "EVENT"
	}
}

// FileEvent is an informational record emitted by the network service.
type FileEvent struct {
	// SessionID is the session the event occurred in. May be empty.
	SessionID string

	// Kind is the operation performed.
	Kind FileEventKind

	// Path is the affected path, relative to the upload root.
	Path string

	// ToPath is the destination path for moves.
	ToPath string

	// At is when the event happened.
	At time.Time
}

// String renders the event as a console line body.
func (e FileEvent) String() string {
	if e.Kind == FileEventMove {
		return fmt.Sprintf("%s -> %s", e.Path, e.ToPath)
	}
	return e.Path
}
