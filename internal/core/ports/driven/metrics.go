package driven

import "github.com/custodia-labs/pocketserve/internal/core/domain"

// MetricsRecorder records coordinator and service counters.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	SessionStarted()
	SessionStartFailed()
	SessionStopped()
	FileEvent(kind domain.FileEventKind)
	WarningScheduled()
	WarningCancelled()
}

// NopMetrics is a MetricsRecorder that records nothing.
type NopMetrics struct{}

var _ MetricsRecorder = NopMetrics{}

func (NopMetrics) SessionStarted() {}
func (NopMetrics) SessionStartFailed() {}
func (NopMetrics) SessionStopped() {}
func (NopMetrics) FileEvent(_ domain.FileEventKind) {}
func (NopMetrics) WarningScheduled() {}
func (NopMetrics) WarningCancelled() {}
