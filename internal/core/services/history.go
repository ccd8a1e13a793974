package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.SessionHistory = (*HistoryService)(nil)

// defaultHistoryLimit is used when callers pass a non-positive limit.
const defaultHistoryLimit = 20

// HistoryService provides read access to session history.
type HistoryService struct {
	store driven.SessionStore
}

// NewHistoryService creates a history service over store.
func NewHistoryService(store driven.SessionStore) *HistoryService {
	return &HistoryService{store: store}
}

// Sessions lists recent sessions, newest first.
func (s *HistoryService) Sessions(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	sessions, err := s.store.ListSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Session returns one session with up to limit of its events.
func (s *HistoryService) Session(
	ctx context.Context,
	id string,
	limit int,
) (*domain.SessionRecord, []domain.FileEvent, error) {
	if id == "" {
		return nil, nil, fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	record, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get session %s: %w", id, err)
	}

	events, err := s.store.ListEvents(ctx, id, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list events for %s: %w", id, err)
	}
	return record, events, nil
}

// Prune keeps only the most recent keep sessions.
func (s *HistoryService) Prune(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}
	return s.store.PruneSessions(ctx, keep)
}
