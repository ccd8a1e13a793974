package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleEvent_IsValid(t *testing.T) {
	for _, e := range AllLifecycleEvents() {
		assert.True(t, e.IsValid(), e)
	}
	assert.False(t, LifecycleEvent("").IsValid())
	assert.False(t, LifecycleEvent("screen_rotated").IsValid())
}

func TestLifecycleEvent_IsAppEvent(t *testing.T) {
	tests := []struct {
		event LifecycleEvent
		want  bool
	}{
		{EventScreenAppeared, false},
		{EventScreenDisappeared, false},
		{EventEnteredBackground, true},
		{EventEnteredForeground, true},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.IsAppEvent())
		})
	}
}

func TestCoordinatorState_Predicates(t *testing.T) {
	tests := []struct {
		state    CoordinatorState
		running  bool
		terminal bool
	}{
		{StateIdle, false, false},
		{StateStarting, false, false},
		{StateRunning, true, false},
		{StateRunningBackgrounded, true, false},
		{StateStopped, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.running, tt.state.IsRunning())
			assert.Equal(t, tt.terminal, tt.state.IsTerminal())
		})
	}
}
