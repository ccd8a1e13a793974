package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
)

// Ensure Console implements the interface.
var _ driven.NotificationDeliverer = (*Console)(nil)

// Console prints delivered notifications as a tagged line, optionally
// ringing the terminal bell.
type Console struct {
	mu   sync.Mutex
	out  io.Writer
	bell bool
}

// NewConsole creates a console deliverer. A nil out writes to stderr.
func NewConsole(out io.Writer, bell bool) *Console {
	if out == nil {
		out = os.Stderr
	}
	return &Console{out: out, bell: bell}
}

// Deliver writes the notification.
func (c *Console) Deliver(n domain.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bell {
		fmt.Fprint(c.out, "\a")
	}
	fmt.Fprintf(c.out, "[NOTIFY] %s: %s\n", n.Title, n.Body)
}
