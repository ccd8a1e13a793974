//go:build windows

package lifecycle

import "context"

// ForwardSignals is a no-op on Windows, which has no user signals.
func ForwardSignals(_ context.Context, _ *Broker) {}
