// Package lifecycle provides an in-process source of application
// background and foreground events.
package lifecycle

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
	"github.com/custodia-labs/pocketserve/internal/logger"
)

// Ensure Broker implements the interface.
var _ driven.LifecycleSource = (*Broker)(nil)

// Broker fans lifecycle events out to subscribers.
// Deliveries are serialized: a handler never runs concurrently with
// another handler of the same broker.
type Broker struct {
	mu     sync.Mutex
	subs   map[uint64]*subscription
	nextID uint64
	closed bool

	// deliverMu is held for the duration of a Publish. It is separate from
	// mu so that handlers may Subscribe or Close without deadlocking.
	deliverMu sync.Mutex
}

// NewBroker creates a broker with no subscribers.
func NewBroker() *Broker {
	return &Broker{subs: make(map[uint64]*subscription)}
}

// Subscribe registers handler for future events.
func (b *Broker) Subscribe(handler driven.LifecycleHandler) (driven.Subscription, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: handler is nil", domain.ErrInvalidInput)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, domain.ErrSubscriptionClosed
	}

	b.nextID++
	sub := &subscription{broker: b, id: b.nextID, handler: handler}
	sub.active.Store(true)
	b.subs[sub.id] = sub
	return sub, nil
}

// Publish delivers event to every active subscriber and returns once all
// handlers have run. Subscriptions closed before delivery reaches them
// are skipped.
func (b *Broker) Publish(event domain.LifecycleEvent) {
	b.deliverMu.Lock()
	defer b.deliverMu.Unlock()

	b.mu.Lock()
	subs := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	logger.Debug("lifecycle: publishing %s to %d subscriber(s)", event, len(subs))
	for _, s := range subs {
		if s.active.Load() {
			s.handler(event)
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close releases every subscription. Later Subscribe calls fail.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for id, s := range b.subs {
		s.active.Store(false)
		delete(b.subs, id)
	}
}

func (b *Broker) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
}

type subscription struct {
	broker  *Broker
	id      uint64
	handler driven.LifecycleHandler
	active  atomic.Bool
}

// Close stops delivery to this subscription. Safe to call more than once.
func (s *subscription) Close() error {
	if s.active.Swap(false) {
		s.broker.remove(s.id)
	}
	return nil
}
