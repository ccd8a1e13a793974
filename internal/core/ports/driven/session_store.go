package driven

import (
	"context"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

// SessionStore persists session history and session events.
type SessionStore interface {
	// SaveSession creates or updates a session record.
	SaveSession(ctx context.Context, record *domain.SessionRecord) error

	// GetSession retrieves a session by ID.
	// Returns domain.ErrNotFound if the session does not exist.
	GetSession(ctx context.Context, id string) (*domain.SessionRecord, error)

	// ListSessions returns the most recent sessions, newest first.
	ListSessions(ctx context.Context, limit int) ([]domain.SessionRecord, error)

	// RecordEvent appends an event to a session's history.
	RecordEvent(ctx context.Context, event *domain.FileEvent) error

	// ListEvents returns a session's events in the order they happened.
	ListEvents(ctx context.Context, sessionID string, limit int) ([]domain.FileEvent, error)

	// PruneSessions keeps only the most recent 'keep' sessions and their events.
	PruneSessions(ctx context.Context, keep int) error
}
