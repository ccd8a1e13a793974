package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

func TestSessionStore_SaveAndGet(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	record := &domain.SessionRecord{
		ID:         "session-1",
		UploadRoot: "/srv/uploads",
		Port:       8080,
		StartedAt:  time.Now(),
	}
	require.NoError(t, store.SaveSession(ctx, record))

	got, err := store.GetSession(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, *record, *got)
	assert.True(t, got.Active())
}

func TestSessionStore_SaveUpdates(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	record := &domain.SessionRecord{ID: "session-1", Port: 8080, StartedAt: time.Now()}
	require.NoError(t, store.SaveSession(ctx, record))

	record.StoppedAt = record.StartedAt.Add(time.Minute)
	require.NoError(t, store.SaveSession(ctx, record))

	got, err := store.GetSession(ctx, "session-1")
	require.NoError(t, err)
	assert.False(t, got.Active())
}

func TestSessionStore_SaveInvalid(t *testing.T) {
	store := NewSessionStore()

	err := store.SaveSession(context.Background(), &domain.SessionRecord{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionStore_GetNotFound(t *testing.T) {
	store := NewSessionStore()

	_, err := store.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_ListSessionsNewestFirst(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveSession(ctx, &domain.SessionRecord{
			ID:        fmt.Sprintf("session-%d", i),
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	sessions, err := store.ListSessions(ctx, 3)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	assert.Equal(t, "session-4", sessions[0].ID)
	assert.Equal(t, "session-3", sessions[1].ID)
	assert.Equal(t, "session-2", sessions[2].ID)

	all, err := store.ListSessions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestSessionStore_EventsInOrder(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	kinds := []domain.FileEventKind{
		domain.FileEventUpload,
		domain.FileEventMove,
		domain.FileEventDelete,
	}
	for _, kind := range kinds {
		require.NoError(t, store.RecordEvent(ctx, &domain.FileEvent{
			SessionID: "session-1",
			Kind:      kind,
			Path:      "a.txt",
		}))
	}

	events, err := store.ListEvents(ctx, "session-1", 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i, kind := range kinds {
		assert.Equal(t, kind, events[i].Kind)
	}

	limited, err := store.ListEvents(ctx, "session-1", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := store.ListEvents(ctx, "other", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSessionStore_RecordEventRequiresSession(t *testing.T) {
	store := NewSessionStore()

	err := store.RecordEvent(context.Background(), &domain.FileEvent{Kind: domain.FileEventUpload})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionStore_Prune(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("session-%d", i)
		require.NoError(t, store.SaveSession(ctx, &domain.SessionRecord{
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
		require.NoError(t, store.RecordEvent(ctx, &domain.FileEvent{SessionID: id, Kind: domain.FileEventUpload}))
	}

	require.NoError(t, store.PruneSessions(ctx, 2))

	sessions, err := store.ListSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "session-3", sessions[0].ID)

	_, err = store.GetSession(ctx, "session-0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	events, err := store.ListEvents(ctx, "session-0", 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
