// Package metrics implements driven.MetricsRecorder with Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "pocketserve"

// Recorder records session and file event metrics.
// All methods are nil-safe: calls on a nil *Recorder are no-ops.
type Recorder struct {
	// SessionsStarted counts sessions that began serving.
	SessionsStarted prometheus.Counter

	// StartFailures counts sessions that failed to start.
	StartFailures prometheus.Counter

	// FileEvents counts file operations, labeled by kind.
	FileEvents *prometheus.CounterVec

	// WarningsScheduled counts suspension warnings scheduled.
	WarningsScheduled prometheus.Counter

	// WarningsCancelled counts suspension warnings cancelled before firing.
	WarningsCancelled prometheus.Counter

	// Active is 1 while a session is serving.
	Active prometheus.Gauge
}

// NewRecorder creates the collectors and registers them with reg.
// If reg is nil the collectors are created but not registered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Total number of sessions that started serving",
		}),
		StartFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_start_failures_total",
			Help:      "Total number of sessions that failed to start",
		}),
		FileEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "file_events_total",
			Help:      "Total number of file operations by kind",
		}, []string{"kind"}),
		WarningsScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suspension_warnings_scheduled_total",
			Help:      "Total number of suspension warnings scheduled",
		}),
		WarningsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suspension_warnings_cancelled_total",
			Help:      "Total number of suspension warnings cancelled",
		}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "session_active",
			Help:      "Whether a session is currently serving",
		}),
	}

	if reg != nil {
		r.SessionsStarted = registerOrReuse(reg, r.SessionsStarted).(prometheus.Counter)
		r.StartFailures = registerOrReuse(reg, r.StartFailures).(prometheus.Counter)
		r.FileEvents = registerOrReuse(reg, r.FileEvents).(*prometheus.CounterVec)
		r.WarningsScheduled = registerOrReuse(reg, r.WarningsScheduled).(prometheus.Counter)
		r.WarningsCancelled = registerOrReuse(reg, r.WarningsCancelled).(prometheus.Counter)
		r.Active = registerOrReuse(reg, r.Active).(prometheus.Gauge)
	}

	return r
}

// SessionStarted records a session that began serving.
func (r *Recorder) SessionStarted() {
	if r == nil {
		return
	}
	r.SessionsStarted.Inc()
	r.Active.Set(1)
}

// SessionStartFailed records a failed start.
func (r *Recorder) SessionStartFailed() {
	if r == nil {
		return
	}
	r.StartFailures.Inc()
}

// SessionStopped records the end of a session.
func (r *Recorder) SessionStopped() {
	if r == nil {
		return
	}
	r.Active.Set(0)
}

// FileEvent records one file operation.
func (r *Recorder) FileEvent(kind domain.FileEventKind) {
	if r == nil {
		return
	}
	r.FileEvents.WithLabelValues(string(kind)).Inc()
}

// WarningScheduled records a scheduled suspension warning.
func (r *Recorder) WarningScheduled() {
	if r == nil {
		return
	}
	r.WarningsScheduled.Inc()
}

// WarningCancelled records a cancelled suspension warning.
func (r *Recorder) WarningCancelled() {
	if r == nil {
		return
	}
	r.WarningsCancelled.Inc()
}

// registerOrReuse registers c with reg. If an identical collector is
// already registered, the existing one is returned so that a recorder
// created twice keeps exporting through the first registration.
// Panics on any other registration failure.
func registerOrReuse(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}
