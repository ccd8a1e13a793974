package services

import (
	"context"
	"log"
	"time"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
	"github.com/custodia-labs/pocketserve/internal/logger"
)

// Ensure FileEventRecorder implements the interface.
var _ driven.FileEventObserver = (*FileEventRecorder)(nil)

// recordTimeout bounds how long a history write may take.
const recordTimeout = 5 * time.Second

// FileEventRecorder is the one-way observer registered with the network
// service. It prints each event, counts it and records it in history.
// It never touches coordinator state.
type FileEventRecorder struct {
	store    driven.SessionStore
	metrics  driven.MetricsRecorder
	listener func(domain.FileEvent)
	now      func() time.Time
}

// NewFileEventRecorder creates a recorder. store and metrics may be nil.
// listener, if set, receives every event after it is recorded.
func NewFileEventRecorder(
	store driven.SessionStore,
	metrics driven.MetricsRecorder,
	listener func(domain.FileEvent),
) *FileEventRecorder {
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	return &FileEventRecorder{
		store:    store,
		metrics:  metrics,
		listener: listener,
		now:      time.Now,
	}
}

// OnUpload records a completed upload.
func (r *FileEventRecorder) OnUpload(sessionID, path string) {
	r.record(domain.FileEvent{SessionID: sessionID, Kind: domain.FileEventUpload, Path: path})
}

// OnDownload records a completed download.
func (r *FileEventRecorder) OnDownload(sessionID, path string) {
	r.record(domain.FileEvent{SessionID: sessionID, Kind: domain.FileEventDownload, Path: path})
}

// OnMove records a move or rename.
func (r *FileEventRecorder) OnMove(sessionID, from, to string) {
	r.record(domain.FileEvent{SessionID: sessionID, Kind: domain.FileEventMove, Path: from, ToPath: to})
}

// OnCreateDirectory records a directory creation.
func (r *FileEventRecorder) OnCreateDirectory(sessionID, path string) {
	r.record(domain.FileEvent{SessionID: sessionID, Kind: domain.FileEventCreateDirectory, Path: path})
}

// OnDelete records a deletion.
func (r *FileEventRecorder) OnDelete(sessionID, path string) {
	r.record(domain.FileEvent{SessionID: sessionID, Kind: domain.FileEventDelete, Path: path})
}

func (r *FileEventRecorder) record(event domain.FileEvent) {
	event.At = r.now()

	logger.Event(event.Kind.Tag(), "%s", event.String())
	r.metrics.FileEvent(event.Kind)

	if r.store != nil && event.SessionID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := r.store.RecordEvent(ctx, &event); err != nil {
			log.Printf("file events: failed to record %s: %v", event.Kind, err)
		}
		cancel()
	}

	if r.listener != nil {
		r.listener(event)
	}
}
