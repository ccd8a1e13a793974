package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pocketserve/internal/adapters/driving/tui/components/eventlog"
	"github.com/custodia-labs/pocketserve/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pocketserve/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pocketserve/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pocketserve/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driving"
)

// tickInterval is how often the warning countdown refreshes.
const tickInterval = time.Second

// Config holds display options for the screen.
type Config struct {
	// Bell rings the terminal bell when a notification is delivered.
	Bell bool

	// BellOut receives the bell character. Defaults to stderr.
	BellOut io.Writer

	// Now is the clock used for the countdown. Defaults to time.Now.
	Now func() time.Time
}

// App is the pocketserve screen following the Elm architecture.
// Starting the program is the screen appearing; the caller dispatches the
// disappearance once the program exits.
type App struct {
	ports  *Ports
	ctx    context.Context
	config Config

	styles *styles.Styles
	keymap *keymap.KeyMap
	bar    *status.Bar
	log    *eventlog.Log

	snapshot driving.CoordinatorSnapshot
	report   *domain.StatusReport
	banner   *messages.NotificationDelivered
	now      time.Time
	focused  bool
	showHelp bool

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the screen.
func NewApp(ports *Ports, config Config) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if config.BellOut == nil {
		config.BellOut = os.Stderr
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:    ports,
		ctx:      context.Background(),
		config:   config,
		styles:   s,
		keymap:   km,
		bar:      status.NewBar(s, km),
		log:      eventlog.New(s, 0),
		snapshot: driving.CoordinatorSnapshot{State: domain.StateIdle},
		now:      config.Now(),
		focused:  true,
	}, nil
}

// WithContext sets the context passed to the coordinator.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init reports the screen as appeared and starts the countdown ticker.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("pocketserve"),
		a.dispatch(domain.EventScreenAppeared),
		a.tick(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.bar.SetWidth(msg.Width)
		a.log.SetHeight(msg.Height - 12)
		return a, nil

	case tea.FocusMsg:
		a.focused = true
		a.bar.SetFocused(true)
		return a, a.publish(domain.EventEnteredForeground)

	case tea.BlurMsg:
		a.focused = false
		a.bar.SetFocused(false)
		return a, a.publish(domain.EventEnteredBackground)

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case messages.StatusReported:
		report := msg.Report
		a.report = &report
		a.refresh()
		return a, nil

	case messages.FileEventOccurred:
		a.log.Append(msg.Event)
		return a, nil

	case messages.NotificationDelivered:
		a.banner = &msg
		a.refresh()
		if a.config.Bell {
			return a, a.ringBell()
		}
		return a, nil

	case messages.LifecycleDispatched:
		a.refresh()
		return a, nil

	case messages.Tick:
		a.now = msg.At
		a.refresh()
		return a, a.tick()
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return tea.Quit
	case key.Matches(msg, a.keymap.Help):
		a.showHelp = !a.showHelp
	case key.Matches(msg, a.keymap.Background):
		return a.publish(domain.EventEnteredBackground)
	case key.Matches(msg, a.keymap.Foreground):
		return a.publish(domain.EventEnteredForeground)
	case key.Matches(msg, a.keymap.Dismiss):
		a.banner = nil
	case key.Matches(msg, a.keymap.ClearLog):
		a.log.Clear()
	}
	return nil
}

// dispatch hands a screen event to the coordinator off the event loop,
// since starting the server binds a socket and reports back via Send.
func (a *App) dispatch(event domain.LifecycleEvent) tea.Cmd {
	coordinator := a.ports.Coordinator
	ctx := a.ctx
	return func() tea.Msg {
		coordinator.Dispatch(ctx, event)
		return messages.LifecycleDispatched{Event: event}
	}
}

func (a *App) publish(event domain.LifecycleEvent) tea.Cmd {
	lifecycle := a.ports.Lifecycle
	return func() tea.Msg {
		lifecycle.Publish(event)
		return messages.LifecycleDispatched{Event: event}
	}
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return messages.Tick{At: t}
	})
}

func (a *App) ringBell() tea.Cmd {
	out := a.config.BellOut
	return func() tea.Msg {
		fmt.Fprint(out, "\a")
		return nil
	}
}

func (a *App) refresh() {
	a.snapshot = a.ports.Coordinator.Snapshot()
	a.bar.SetState(a.snapshot.State)
}

// View renders the screen.
func (a *App) View() string {
	if !a.ready {
		return "Starting..."
	}

	sections := []string{
		a.styles.Title.Render("pocketserve"),
		a.viewStatus(),
	}
	if root := a.viewRoot(); root != "" {
		sections = append(sections, root)
	}
	if warning := a.viewWarning(); warning != "" {
		sections = append(sections, warning)
	}
	if a.banner != nil {
		n := a.banner.Notification
		sections = append(sections, a.styles.Banner.Render(fmt.Sprintf("%s: %s", n.Title, n.Body)))
	}

	panelWidth := a.width - 4
	if panelWidth < 20 {
		panelWidth = 20
	}
	sections = append(sections,
		"",
		a.styles.Muted.Render("Activity"),
		a.styles.Panel.Width(panelWidth).Render(a.log.View()),
	)

	if a.showHelp {
		sections = append(sections, a.viewHelp())
	}

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return body + "\n" + a.bar.View()
}

func (a *App) viewStatus() string {
	if a.report == nil {
		if a.snapshot.State == domain.StateStarting || a.snapshot.State == domain.StateIdle {
			return a.styles.Pending.Render("Starting server...")
		}
		return a.styles.Muted.Render("Server not running")
	}

	text := "Server " + a.report.String()
	if a.report.Kind == domain.StatusRunning && a.snapshot.State.IsRunning() {
		return a.styles.Running.Render(text)
	}
	if a.report.Kind == domain.StatusRunning {
		return a.styles.Muted.Render("Server stopped")
	}
	return a.styles.Failed.Render(text)
}

func (a *App) viewRoot() string {
	session := a.snapshot.Session
	if session == nil || !session.Running {
		return ""
	}
	return a.styles.Muted.Render(fmt.Sprintf("Serving %s on port %d", session.UploadRoot, session.ListenPort))
}

func (a *App) viewWarning() string {
	w := a.snapshot.Warning
	if w == nil {
		return ""
	}
	if a.ports.Warnings != nil {
		if _, _, ok := a.ports.Warnings.Pending(w.Identifier); !ok {
			if w.Remaining(a.now) > 0 {
				return a.styles.Muted.Render("In background; notifications are disabled")
			}
			return a.styles.Pending.Render("In background; suspension warning sent")
		}
	}
	remaining := w.Remaining(a.now).Round(time.Second)
	return a.styles.Pending.Render(fmt.Sprintf("In background; suspension warning in %s", remaining))
}

func (a *App) viewHelp() string {
	var lines []string
	for _, group := range a.keymap.FullHelp() {
		hints := make([]string, 0, len(group))
		for _, b := range group {
			h := b.Help()
			hints = append(hints, fmt.Sprintf("%-6s %s", h.Key, h.Desc))
		}
		lines = append(lines, strings.Join(hints, "    "))
	}
	return a.styles.Help.Render(strings.Join(lines, "\n"))
}

// Events returns the event log contents.
func (a *App) Events() []domain.FileEvent {
	return a.log.Events()
}

// Report returns the last status report, nil before the first.
func (a *App) Report() *domain.StatusReport {
	return a.report
}

// Banner returns the delivered notification on screen, if any.
func (a *App) Banner() *domain.Notification {
	if a.banner == nil {
		return nil
	}
	n := a.banner.Notification
	return &n
}

// Focused reports whether the terminal last reported focus.
func (a *App) Focused() bool {
	return a.focused
}

// ShowingHelp reports whether the help panel is open.
func (a *App) ShowingHelp() bool {
	return a.showHelp
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.Update(tea.WindowSizeMsg{Width: width, Height: height})
}
