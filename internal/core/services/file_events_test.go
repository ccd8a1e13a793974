package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pocketserve/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
)

// mockMetrics implements driven.MetricsRecorder for testing.
type mockMetrics struct {
	mu         sync.Mutex
	fileEvents map[domain.FileEventKind]int
	started    int
	failed     int
	scheduled  int
	cancelled  int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{fileEvents: make(map[domain.FileEventKind]int)}
}

func (m *mockMetrics) SessionStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
}

func (m *mockMetrics) SessionStartFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed++
}

func (m *mockMetrics) SessionStopped() {}
func (m *mockMetrics) WarningScheduled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduled++
}

func (m *mockMetrics) WarningCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled++
}

func (m *mockMetrics) FileEvent(kind domain.FileEventKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fileEvents[kind]++
}

var _ driven.MetricsRecorder = (*mockMetrics)(nil)

// failingSessionStore fails every write.
type failingSessionStore struct {
	*memory.SessionStore
}

func (failingSessionStore) RecordEvent(_ context.Context, _ *domain.FileEvent) error {
	return errors.New("disk full")
}

func TestFileEventRecorder_RecordsAllKinds(t *testing.T) {
	store := memory.NewSessionStore()
	metrics := newMockMetrics()
	var received []domain.FileEvent
	recorder := NewFileEventRecorder(store, metrics, func(e domain.FileEvent) {
		received = append(received, e)
	})
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	recorder.now = func() time.Time { return at }

	recorder.OnUpload("session-1", "photos/a.jpg")
	recorder.OnDownload("session-1", "notes.txt")
	recorder.OnMove("session-1", "a.txt", "b.txt")
	recorder.OnCreateDirectory("session-1", "new")
	recorder.OnDelete("session-1", "old")

	events, err := store.ListEvents(context.Background(), "session-1", 0)
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, received, events)

	assert.Equal(t, domain.FileEventUpload, events[0].Kind)
	assert.Equal(t, "photos/a.jpg", events[0].Path)
	assert.Equal(t, at, events[0].At)

	assert.Equal(t, domain.FileEventMove, events[2].Kind)
	assert.Equal(t, "a.txt", events[2].Path)
	assert.Equal(t, "b.txt", events[2].ToPath)
	assert.Equal(t, "a.txt -> b.txt", events[2].String())

	assert.Equal(t, domain.FileEventCreateDirectory, events[3].Kind)
	assert.Equal(t, domain.FileEventDelete, events[4].Kind)

	for _, kind := range []domain.FileEventKind{
		domain.FileEventUpload,
		domain.FileEventDownload,
		domain.FileEventMove,
		domain.FileEventCreateDirectory,
		domain.FileEventDelete,
	} {
		assert.Equal(t, 1, metrics.fileEvents[kind], kind)
	}
}

func TestFileEventRecorder_NilCollaborators(t *testing.T) {
	recorder := NewFileEventRecorder(nil, nil, nil)

	assert.NotPanics(t, func() {
		recorder.OnUpload("session-1", "a.txt")
		recorder.OnMove("", "a", "b")
	})
}

func TestFileEventRecorder_NoSessionSkipsStore(t *testing.T) {
	store := memory.NewSessionStore()
	called := false
	recorder := NewFileEventRecorder(store, nil, func(domain.FileEvent) { called = true })

	recorder.OnUpload("", "a.txt")

	assert.True(t, called, "listener still notified")
	events, err := store.ListEvents(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFileEventRecorder_StoreErrorStillNotifies(t *testing.T) {
	store := failingSessionStore{memory.NewSessionStore()}
	var received []domain.FileEvent
	recorder := NewFileEventRecorder(store, nil, func(e domain.FileEvent) {
		received = append(received, e)
	})

	recorder.OnDelete("session-1", "gone.txt")

	require.Len(t, received, 1)
	assert.Equal(t, "gone.txt", received[0].Path)
}
