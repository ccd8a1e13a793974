package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are distinct
func TestErrors_Existence(t *testing.T) {
	all := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrSessionActive,
		ErrServiceNotRunning,
		ErrPermissionDenied,
		ErrRedundantTransition,
		ErrSubscriptionClosed,
		ErrAlreadySubscribed,
		ErrPathOutsideRoot,
		ErrHiddenEntry,
	}

	for i, err := range all {
		assert.NotEmpty(t, err.Error())
		for j, other := range all {
			if i != j {
				assert.False(t, errors.Is(err, other), "%v should not match %v", err, other)
			}
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("upload a.txt: %w", ErrPathOutsideRoot)

	assert.True(t, errors.Is(wrapped, ErrPathOutsideRoot))
	assert.Equal(t, "upload a.txt: path outside upload root", wrapped.Error())
}

func TestStartError(t *testing.T) {
	cause := errors.New("bind: address already in use")
	err := NewStartError("port 8080 in use", cause)

	assert.Equal(t, "port 8080 in use: bind: address already in use", err.Error())
	assert.True(t, errors.Is(err, cause))

	var se *StartError
	assert.True(t, errors.As(fmt.Errorf("start: %w", err), &se))
	assert.Equal(t, "port 8080 in use", se.Reason)
}

func TestStartError_NoCause(t *testing.T) {
	err := NewStartError("another session is active", nil)

	assert.Equal(t, "another session is active", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestStartFailureReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"start error", NewStartError("upload root missing", errors.New("stat: no such file")), "upload root missing"},
		{"wrapped start error", fmt.Errorf("serve: %w", NewStartError("port in use", nil)), "port in use"},
		{"plain error", errors.New("permission denied"), "permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StartFailureReason(tt.err))
		})
	}
}
