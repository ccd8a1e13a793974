package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
)

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// SaveSession creates or updates a session record.
func (s *sessionStore) SaveSession(ctx context.Context, record *domain.SessionRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, upload_root, port, started_at, stopped_at, failure)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			upload_root = excluded.upload_root,
			port = excluded.port,
			started_at = excluded.started_at,
			stopped_at = excluded.stopped_at,
			failure = excluded.failure
	`, record.ID, record.UploadRoot, record.Port, record.StartedAt.UnixNano(),
		nullableTime(record.StoppedAt), nullString(record.Failure))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *sessionStore) GetSession(ctx context.Context, id string) (*domain.SessionRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, upload_root, port, started_at, stopped_at, failure
		FROM sessions WHERE id = ?
	`, id)

	record, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListSessions returns the most recent sessions, newest first.
// A limit of zero or less returns every session.
func (s *sessionStore) ListSessions(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, upload_root, port, started_at, stopped_at, failure
		FROM sessions
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var records []domain.SessionRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}

	return records, nil
}

// RecordEvent appends an event to a session's history.
func (s *sessionStore) RecordEvent(ctx context.Context, event *domain.FileEvent) error {
	if event == nil || event.SessionID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO session_events (session_id, kind, path, to_path, at)
		VALUES (?, ?, ?, ?, ?)
	`, event.SessionID, string(event.Kind), event.Path, nullString(event.ToPath), event.At.UnixNano())
	if err != nil {
		return fmt.Errorf("recording event: %w", err)
	}
	return nil
}

// ListEvents returns up to limit of a session's earliest events in order.
func (s *sessionStore) ListEvents(ctx context.Context, sessionID string, limit int) ([]domain.FileEvent, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT session_id, kind, path, to_path, at
		FROM session_events
		WHERE session_id = ?
		ORDER BY id ASC
		LIMIT ?
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := []domain.FileEvent{}
	for rows.Next() {
		var event domain.FileEvent
		var kind string
		var toPath sql.NullString
		var at int64
		if err := rows.Scan(&event.SessionID, &kind, &event.Path, &toPath, &at); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		event.Kind = domain.FileEventKind(kind)
		event.ToPath = toPath.String
		event.At = time.Unix(0, at)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// PruneSessions keeps only the most recent keep sessions and their events.
// A keep of zero or less keeps everything.
func (s *sessionStore) PruneSessions(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning prune: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		DELETE FROM sessions WHERE id NOT IN (
			SELECT id FROM sessions ORDER BY started_at DESC, id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning sessions: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM session_events WHERE session_id NOT IN (SELECT id FROM sessions)
	`)
	if err != nil {
		return fmt.Errorf("pruning session events: %w", err)
	}

	return tx.Commit()
}

// ==================== Helper Functions ====================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.SessionRecord, error) {
	var record domain.SessionRecord
	var startedAt int64
	var stoppedAt sql.NullInt64
	var failure sql.NullString

	if err := row.Scan(&record.ID, &record.UploadRoot, &record.Port,
		&startedAt, &stoppedAt, &failure); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	record.StartedAt = time.Unix(0, startedAt)
	if stoppedAt.Valid {
		record.StoppedAt = time.Unix(0, stoppedAt.Int64)
	}
	record.Failure = failure.String

	return &record, nil
}

// nullableTime stores a zero time as NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UnixNano()
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
