package driven

import "github.com/custodia-labs/pocketserve/internal/core/domain"

// StatusSink displays the service status, e.g. a UI label or console line.
type StatusSink interface {
	Report(report domain.StatusReport)
}
