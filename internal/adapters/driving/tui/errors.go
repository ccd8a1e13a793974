package tui

import "errors"

// ErrMissingCoordinator is returned when the coordinator is not provided.
var ErrMissingCoordinator = errors.New("tui: lifecycle coordinator is required")

// ErrMissingLifecycle is returned when the lifecycle publisher is not provided.
var ErrMissingLifecycle = errors.New("tui: lifecycle publisher is required")
