package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/pocketserve/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
	"github.com/custodia-labs/pocketserve/internal/logger"
)

// Ensure ProgramSink implements the interfaces.
var (
	_ driven.StatusSink            = (*ProgramSink)(nil)
	_ driven.NotificationDeliverer = (*ProgramSink)(nil)
)

// Sender is the part of *tea.Program the sink needs.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramSink turns coordinator reports, notifier deliveries and file
// events into messages for a running program. It is created before the
// program exists and attached once it does; anything sent before that is
// dropped.
//
// Send blocks until the program's event loop reads the message, so callers
// must not be running inside Update.
type ProgramSink struct {
	mu     sync.RWMutex
	sender Sender
	now    func() time.Time
}

// NewProgramSink creates an unattached sink.
func NewProgramSink() *ProgramSink {
	return &ProgramSink{now: time.Now}
}

// Attach routes future messages to sender.
func (s *ProgramSink) Attach(sender Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sender = sender
}

// Report forwards a status report.
func (s *ProgramSink) Report(report domain.StatusReport) {
	s.send(messages.StatusReported{Report: report})
}

// Deliver forwards a fired notification.
func (s *ProgramSink) Deliver(n domain.Notification) {
	s.send(messages.NotificationDelivered{Notification: n, At: s.now()})
}

// FileEvent forwards a file event for the event log.
func (s *ProgramSink) FileEvent(e domain.FileEvent) {
	s.send(messages.FileEventOccurred{Event: e})
}

func (s *ProgramSink) send(msg tea.Msg) {
	s.mu.RLock()
	sender := s.sender
	s.mu.RUnlock()

	if sender == nil {
		logger.Debug("tui: dropping %T, no program attached", msg)
		return
	}
	sender.Send(msg)
}
