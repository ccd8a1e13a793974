package domain

import "fmt"

// StatusKind distinguishes running and failed reports.
type StatusKind string

const (
	// StatusRunning reports the service is serving on a port.
	StatusRunning StatusKind = "running"

	// StatusFailed reports the service could not start.
	StatusFailed StatusKind = "failed"
)

// StatusReport is an outbound, human-readable service status.
type StatusReport struct {
	Kind   StatusKind
	Port   int
	Reason string
}

// RunningReport creates a report for a service listening on port.
func RunningReport(port int) StatusReport {
	return StatusReport{Kind: StatusRunning, Port: port}
}

// FailedReport creates a report for a service that failed to start.
func FailedReport(reason string) StatusReport {
	return StatusReport{Kind: StatusFailed, Reason: reason}
}

// String renders the report for display.
func (r StatusReport) String() string {
	switch r.Kind {
	case StatusRunning:
		return fmt.Sprintf("running locally on port %d", r.Port)
	case StatusFailed:
		return fmt.Sprintf("not running: %s", r.Reason)
	default:
		return "not running"
	}
}
