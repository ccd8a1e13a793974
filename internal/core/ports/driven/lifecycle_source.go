package driven

import "github.com/custodia-labs/pocketserve/internal/core/domain"

// LifecycleHandler receives application lifecycle events.
type LifecycleHandler func(event domain.LifecycleEvent)

// LifecycleSource delivers background/foreground transitions.
// Registration returns an explicit Subscription that must be closed on
// teardown; no events are delivered to a closed subscription.
type LifecycleSource interface {
	// Subscribe registers handler for background/foreground events.
	Subscribe(handler LifecycleHandler) (Subscription, error)
}

// Subscription is a live registration with a LifecycleSource.
type Subscription interface {
	// Close releases the registration. Closing twice is a no-op.
	Close() error
}
