package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"nil", nil, ErrMissingCoordinator},
		{"no coordinator", &Ports{Lifecycle: &mockPublisher{}}, ErrMissingCoordinator},
		{"no lifecycle", &Ports{Coordinator: &mockCoordinator{}}, ErrMissingLifecycle},
		{"complete", &Ports{Coordinator: &mockCoordinator{}, Lifecycle: &mockPublisher{}}, nil},
		{"with tracker", &Ports{Coordinator: &mockCoordinator{}, Lifecycle: &mockPublisher{}, Warnings: &mockTracker{}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
