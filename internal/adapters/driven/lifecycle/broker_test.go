package lifecycle

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
)

type eventLog struct {
	mu     sync.Mutex
	events []domain.LifecycleEvent
}

func (l *eventLog) handle(e domain.LifecycleEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) all() []domain.LifecycleEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.LifecycleEvent(nil), l.events...)
}

func TestBroker_PublishDelivers(t *testing.T) {
	b := NewBroker()
	var first, second eventLog

	_, err := b.Subscribe(first.handle)
	require.NoError(t, err)
	_, err = b.Subscribe(second.handle)
	require.NoError(t, err)

	b.Publish(domain.EventEnteredBackground)
	b.Publish(domain.EventEnteredForeground)

	want := []domain.LifecycleEvent{domain.EventEnteredBackground, domain.EventEnteredForeground}
	assert.Equal(t, want, first.all())
	assert.Equal(t, want, second.all())
	assert.Equal(t, 2, b.Subscribers())
}

func TestBroker_NoDeliveryAfterClose(t *testing.T) {
	b := NewBroker()
	var log eventLog

	sub, err := b.Subscribe(log.handle)
	require.NoError(t, err)

	b.Publish(domain.EventEnteredBackground)
	require.NoError(t, sub.Close())
	b.Publish(domain.EventEnteredForeground)

	assert.Equal(t, []domain.LifecycleEvent{domain.EventEnteredBackground}, log.all())
	assert.Zero(t, b.Subscribers())
}

func TestBroker_CloseIdempotent(t *testing.T) {
	b := NewBroker()
	sub, err := b.Subscribe(func(domain.LifecycleEvent) {})
	require.NoError(t, err)

	assert.NoError(t, sub.Close())
	assert.NoError(t, sub.Close())
	assert.Zero(t, b.Subscribers())
}

func TestBroker_CloseFromHandler(t *testing.T) {
	b := NewBroker()
	var sub driven.Subscription
	var calls atomic.Int32

	sub, err := b.Subscribe(func(domain.LifecycleEvent) {
		calls.Add(1)
		_ = sub.Close()
	})
	require.NoError(t, err)

	b.Publish(domain.EventEnteredBackground)
	b.Publish(domain.EventEnteredForeground)

	assert.Equal(t, int32(1), calls.Load())
}

func TestBroker_SubscribeFromHandler(t *testing.T) {
	b := NewBroker()
	var late eventLog

	_, err := b.Subscribe(func(domain.LifecycleEvent) {
		if b.Subscribers() == 1 {
			_, _ = b.Subscribe(late.handle)
		}
	})
	require.NoError(t, err)

	b.Publish(domain.EventEnteredBackground)
	assert.Empty(t, late.all(), "not part of the in-flight publish")

	b.Publish(domain.EventEnteredForeground)
	assert.Equal(t, []domain.LifecycleEvent{domain.EventEnteredForeground}, late.all())
}

func TestBroker_DeliveriesSerialized(t *testing.T) {
	b := NewBroker()
	var inFlight, maxInFlight, total atomic.Int32

	_, err := b.Subscribe(func(domain.LifecycleEvent) {
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		total.Add(1)
		inFlight.Add(-1)
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				b.Publish(domain.EventEnteredBackground)
			} else {
				b.Publish(domain.EventEnteredForeground)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(50), total.Load())
	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker()
	var log eventLog
	_, err := b.Subscribe(log.handle)
	require.NoError(t, err)

	b.Close()
	b.Publish(domain.EventEnteredBackground)

	assert.Empty(t, log.all())
	_, err = b.Subscribe(log.handle)
	assert.ErrorIs(t, err, domain.ErrSubscriptionClosed)
}

func TestBroker_NilHandler(t *testing.T) {
	_, err := NewBroker().Subscribe(nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
