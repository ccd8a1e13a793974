//go:build !windows

package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

// ForwardSignals publishes SIGUSR1 as EnteredBackground and SIGUSR2 as
// EnteredForeground until ctx is cancelled. Lets a headless process be
// backgrounded by a supervisor.
func ForwardSignals(ctx context.Context, b *Broker) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1, syscall.SIGUSR2)

	go func() {
		defer signal.Stop(sigCh)
		for {
			select {
			case <-ctx.Done():
				return
			case sig := <-sigCh:
				if event, ok := eventForSignal(sig); ok {
					b.Publish(event)
				}
			}
		}
	}()
}

func eventForSignal(sig os.Signal) (domain.LifecycleEvent, bool) {
	switch sig {
	case syscall.SIGUSR1:
		return domain.EventEnteredBackground, true
	case syscall.SIGUSR2:
		return domain.EventEnteredForeground, true
	default:
		return "", false
	}
}
