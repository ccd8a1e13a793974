// Package notify schedules timed notifications inside the process and
// hands them to a deliverer when they fire.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
	"github.com/custodia-labs/pocketserve/internal/logger"
)

// Ensure Local implements the interfaces.
var (
	_ driven.NotificationScheduler = (*Local)(nil)
	_ driven.PendingNotifications  = (*Local)(nil)
)

// DelivererFunc adapts a function to driven.NotificationDeliverer.
type DelivererFunc func(domain.Notification)

// Deliver calls f(n).
func (f DelivererFunc) Deliver(n domain.Notification) {
	f(n)
}

type pending struct {
	notification domain.Notification
	timer        *time.Timer
	seq          uint64
	dueAt        time.Time
}

// Local keeps at most one pending notification per identifier, each
// backed by its own timer.
type Local struct {
	deliverer driven.NotificationDeliverer

	mu         sync.Mutex
	authorized bool
	pending    map[string]*pending
	seq        uint64
}

// NewLocal creates a scheduler. authorized is the permission reported to
// callers; when false, scheduled notifications are silently dropped.
func NewLocal(authorized bool, deliverer driven.NotificationDeliverer) *Local {
	return &Local{
		deliverer:  deliverer,
		authorized: authorized,
		pending:    make(map[string]*pending),
	}
}

// RequestAuthorization reports whether notifications may be shown.
func (l *Local) RequestAuthorization(_ context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.authorized, nil
}

// SetAuthorized changes the permission. Revoking it drops everything pending.
func (l *Local) SetAuthorized(authorized bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.authorized = authorized
	if !authorized {
		for id := range l.pending {
			l.cancelLocked(id)
		}
	}
}

// Schedule replaces any pending notification with the same identifier.
func (l *Local) Schedule(_ context.Context, n domain.Notification) error {
	if n.Identifier == "" {
		return fmt.Errorf("%w: notification identifier is required", domain.ErrInvalidInput)
	}
	if n.Delay < 0 {
		return fmt.Errorf("%w: negative delay %s", domain.ErrInvalidInput, n.Delay)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.cancelLocked(n.Identifier)
	if !l.authorized {
		logger.Debug("notify: permission denied, dropping %q", n.Identifier)
		return nil
	}

	l.seq++
	seq := l.seq
	l.pending[n.Identifier] = &pending{
		notification: n,
		seq:          seq,
		dueAt:        time.Now().Add(n.Delay),
		timer: time.AfterFunc(n.Delay, func() {
			l.fire(n.Identifier, seq)
		}),
	}
	logger.Debug("notify: %q due in %s", n.Identifier, n.Delay)
	return nil
}

// CancelPending removes the pending notification for identifier, if any.
func (l *Local) CancelPending(_ context.Context, identifier string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancelLocked(identifier)
	return nil
}

// Pending returns the pending notification for identifier and when it is due.
func (l *Local) Pending(identifier string) (domain.Notification, time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.pending[identifier]
	if !ok {
		return domain.Notification{}, time.Time{}, false
	}
	return p.notification, p.dueAt, true
}

// Close cancels everything pending.
func (l *Local) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id := range l.pending {
		l.cancelLocked(id)
	}
}

func (l *Local) cancelLocked(identifier string) {
	p, ok := l.pending[identifier]
	if !ok {
		return
	}
	p.timer.Stop()
	delete(l.pending, identifier)
}

// fire delivers a notification unless it was cancelled or replaced after
// its timer started.
func (l *Local) fire(identifier string, seq uint64) {
	l.mu.Lock()
	p, ok := l.pending[identifier]
	if !ok || p.seq != seq {
		l.mu.Unlock()
		return
	}
	delete(l.pending, identifier)
	l.mu.Unlock()

	if l.deliverer != nil {
		l.deliverer.Deliver(p.notification)
	}
}
