package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// Used when history persistence is disabled.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionRecord
	events   map[string][]domain.FileEvent
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]domain.SessionRecord),
		events:   make(map[string][]domain.FileEvent),
	}
}

// SaveSession creates or updates a session record.
func (s *SessionStore) SaveSession(_ context.Context, record *domain.SessionRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[record.ID] = *record
	return nil
}

// GetSession retrieves a session by ID.
func (s *SessionStore) GetSession(_ context.Context, id string) (*domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// ListSessions returns the most recent sessions, newest first.
func (s *SessionStore) ListSessions(_ context.Context, limit int) ([]domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.newestLocked(limit), nil
}

// RecordEvent appends an event to a session's history.
func (s *SessionStore) RecordEvent(_ context.Context, event *domain.FileEvent) error {
	if event == nil || event.SessionID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.SessionID] = append(s.events[event.SessionID], *event)
	return nil
}

// ListEvents returns up to limit of a session's earliest events in order.
func (s *SessionStore) ListEvents(_ context.Context, sessionID string, limit int) ([]domain.FileEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.events[sessionID]
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	result := make([]domain.FileEvent, len(events))
	copy(result, events)
	return result, nil
}

// PruneSessions keeps only the most recent keep sessions.
func (s *SessionStore) PruneSessions(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make(map[string]bool)
	for _, r := range s.newestLocked(keep) {
		kept[r.ID] = true
	}
	for id := range s.sessions {
		if !kept[id] {
			delete(s.sessions, id)
			delete(s.events, id)
		}
	}
	return nil
}

func (s *SessionStore) newestLocked(limit int) []domain.SessionRecord {
	records := make([]domain.SessionRecord, 0, len(s.sessions))
	for _, r := range s.sessions {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].StartedAt.Equal(records[j].StartedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].StartedAt.After(records[j].StartedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}
