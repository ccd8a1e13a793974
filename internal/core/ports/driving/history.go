package driving

import (
	"context"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

// SessionHistory provides read access to past sessions.
type SessionHistory interface {
	// Sessions lists recent sessions, newest first.
	Sessions(ctx context.Context, limit int) ([]domain.SessionRecord, error)

	// Session returns one session with its events.
	Session(ctx context.Context, id string, limit int) (*domain.SessionRecord, []domain.FileEvent, error)
}
