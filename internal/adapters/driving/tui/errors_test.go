package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Messages(t *testing.T) {
	assert.Equal(t, "tui: lifecycle coordinator is required", ErrMissingCoordinator.Error())
	assert.Equal(t, "tui: lifecycle publisher is required", ErrMissingLifecycle.Error())
	assert.NotErrorIs(t, ErrMissingCoordinator, ErrMissingLifecycle)
}
