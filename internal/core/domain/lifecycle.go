package domain

// LifecycleEvent is an inbound signal from the hosting screen or application.
type LifecycleEvent string

const (
	// EventScreenAppeared is sent when the hosting screen becomes visible.
	EventScreenAppeared LifecycleEvent = "screen_appeared"

	// EventScreenDisappeared is sent when the hosting screen is dismissed.
	EventScreenDisappeared LifecycleEvent = "screen_disappeared"

	// EventEnteredBackground is sent when the application loses the foreground.
	EventEnteredBackground LifecycleEvent = "entered_background"

	// EventEnteredForeground is sent when the application regains the foreground.
	EventEnteredForeground LifecycleEvent = "entered_foreground"
)

// AllLifecycleEvents returns every known lifecycle event.
func AllLifecycleEvents() []LifecycleEvent {
	return []LifecycleEvent{
		EventScreenAppeared,
		EventScreenDisappeared,
		EventEnteredBackground,
		EventEnteredForeground,
	}
}

// IsValid returns true if the event is a known lifecycle event.
func (e LifecycleEvent) IsValid() bool {
	switch e {
	case EventScreenAppeared, EventScreenDisappeared, EventEnteredBackground, EventEnteredForeground:
		return true
	default:
		return false
	}
}

// IsAppEvent returns true for events delivered through a lifecycle
// subscription rather than by the screen itself.
func (e LifecycleEvent) IsAppEvent() bool {
	return e == EventEnteredBackground || e == EventEnteredForeground
}

// String returns the event identifier.
func (e LifecycleEvent) String() string {
	return string(e)
}

// CoordinatorState is a state of the lifecycle coordinator.
type CoordinatorState string

const (
	// StateIdle is the initial state before the screen appears.
	StateIdle CoordinatorState = "idle"

	// StateStarting means a start request is in flight.
	StateStarting CoordinatorState = "starting"

	// StateRunning means the service is serving in the foreground.
	StateRunning CoordinatorState = "running"

	// StateRunningBackgrounded means the service is serving while the
	// application is in the background and a warning is pending.
	StateRunningBackgrounded CoordinatorState = "running_backgrounded"

	// StateStopped is terminal for a coordinator instance.
	StateStopped CoordinatorState = "stopped"
)

// String returns the state identifier.
func (s CoordinatorState) String() string {
	return string(s)
}

// IsRunning returns true if the service is serving in either sub-state.
func (s CoordinatorState) IsRunning() bool {
	return s == StateRunning || s == StateRunningBackgrounded
}

// IsTerminal returns true if no further transitions are possible.
func (s CoordinatorState) IsTerminal() bool {
	return s == StateStopped
}
