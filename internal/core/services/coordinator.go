package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driving"
	"github.com/custodia-labs/pocketserve/internal/logger"
)

// Ensure Coordinator implements the interface.
var _ driving.LifecycleCoordinator = (*Coordinator)(nil)

// Stopper is the part of *time.Timer the coordinator needs.
type Stopper interface {
	Stop() bool
}

// CoordinatorConfig holds what the coordinator needs to build a session.
type CoordinatorConfig struct {
	Settings           domain.CoordinatorSettings
	UploadRoot         string
	AllowHiddenEntries bool
}

// CoordinatorOption configures optional coordinator collaborators.
type CoordinatorOption func(*Coordinator)

// WithSessionStore records session history to store.
func WithSessionStore(store driven.SessionStore) CoordinatorOption {
	return func(c *Coordinator) {
		c.store = store
	}
}

// WithMetrics records counters to m.
func WithMetrics(m driven.MetricsRecorder) CoordinatorOption {
	return func(c *Coordinator) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithIDGenerator sets the function used to create session IDs.
func WithIDGenerator(fn func() string) CoordinatorOption {
	return func(c *Coordinator) {
		c.newID = fn
	}
}

// WithClock replaces the wall clock and timer factory. Used by tests.
func WithClock(now func() time.Time, afterFunc func(time.Duration, func()) Stopper) CoordinatorOption {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
		if afterFunc != nil {
			c.afterFunc = afterFunc
		}
	}
}

// Coordinator is the lifecycle state machine for one screen instance.
// It owns the service session and the suspension warning; nothing else
// mutates them.
type Coordinator struct {
	service   driven.NetworkService
	notifier  driven.NotificationScheduler
	lifecycle driven.LifecycleSource
	sink      driven.StatusSink
	store     driven.SessionStore
	metrics   driven.MetricsRecorder

	uploadRoot         string
	allowHiddenEntries bool

	now       func() time.Time
	afterFunc func(time.Duration, func()) Stopper
	newID     func() string

	mu           sync.Mutex
	settings     domain.CoordinatorSettings
	state        domain.CoordinatorState
	session      *domain.ServiceSession
	warning      *domain.SuspensionWarning
	subscription driven.Subscription
	budgetTimer  Stopper
	episode      uint64
	backgrounded bool
	stopQueued   bool
	lastReport   *domain.StatusReport
}

// NewCoordinator creates a coordinator in the Idle state.
func NewCoordinator(
	config CoordinatorConfig,
	service driven.NetworkService,
	notifier driven.NotificationScheduler,
	lifecycle driven.LifecycleSource,
	sink driven.StatusSink,
	opts ...CoordinatorOption,
) *Coordinator {
	c := &Coordinator{
		service:            service,
		notifier:           notifier,
		lifecycle:          lifecycle,
		sink:               sink,
		metrics:            driven.NopMetrics{},
		uploadRoot:         config.UploadRoot,
		allowHiddenEntries: config.AllowHiddenEntries,
		settings:           config.Settings,
		state:              domain.StateIdle,
		now:                time.Now,
		afterFunc: func(d time.Duration, f func()) Stopper {
			return time.AfterFunc(d, f)
		},
	}
	c.newID = func() string {
		return uuid.New().String()
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetSettings replaces the timing settings. Takes effect at the next
// background episode; a pending warning keeps its original delay.
func (c *Coordinator) SetSettings(settings domain.CoordinatorSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = settings
	return nil
}

// Dispatch processes a lifecycle event. Events are applied in the order
// they are dispatched; ones that do not apply to the current state are
// ignored.
func (c *Coordinator) Dispatch(ctx context.Context, event domain.LifecycleEvent) {
	logger.Debug("coordinator: %s in state %s", event, c.State())

	switch event {
	case domain.EventScreenAppeared:
		c.appear(ctx)
	case domain.EventScreenDisappeared:
		c.disappear(ctx)
	case domain.EventEnteredBackground:
		c.enterBackground(ctx)
	case domain.EventEnteredForeground:
		c.enterForeground(ctx)
	default:
		logger.Warn("coordinator: unknown lifecycle event %q", event)
	}
}

// State returns the current coordinator state.
func (c *Coordinator) State() domain.CoordinatorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the coordinator's current state.
func (c *Coordinator) Snapshot() driving.CoordinatorSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := driving.CoordinatorSnapshot{State: c.state}
	if c.session != nil {
		session := *c.session
		snap.Session = &session
	}
	if c.warning != nil {
		warning := *c.warning
		snap.Warning = &warning
	}
	if c.lastReport != nil {
		report := *c.lastReport
		snap.LastReport = &report
	}
	return snap
}

// appear handles ScreenAppeared: Idle -> Starting -> Running | Stopped.
// The start request runs without the lock held so that a disappearance
// arriving meanwhile can be queued.
func (c *Coordinator) appear(ctx context.Context) {
	c.mu.Lock()
	if c.state != domain.StateIdle {
		c.mu.Unlock()
		c.redundant(domain.EventScreenAppeared)
		return
	}

	// Permission only affects whether warnings are visible.
	if granted, err := c.notifier.RequestAuthorization(ctx); err != nil {
		logger.Warn("coordinator: notification authorisation failed: %v", err)
	} else if !granted {
		logger.Info("coordinator: notifications not permitted, suspension warnings will not be shown")
	}

	c.subscribeLocked()

	session := &domain.ServiceSession{
		ID:                 c.newID(),
		UploadRoot:         c.uploadRoot,
		AllowHiddenEntries: c.allowHiddenEntries,
		SuspendPolicy:      domain.SuspendPolicy{AllowAutoSuspendInBackground: false},
	}
	c.session = session
	c.state = domain.StateStarting
	requestedAt := c.now()
	c.mu.Unlock()

	port, err := c.service.Start(ctx, driven.StartOptions{
		SessionID:                    session.ID,
		UploadRoot:                   session.UploadRoot,
		AllowHiddenEntries:           session.AllowHiddenEntries,
		AllowAutoSuspendInBackground: session.SuspendPolicy.AllowAutoSuspendInBackground,
	})

	c.emit(c.completeStart(ctx, requestedAt, port, err))
}

// completeStart applies the outcome of a start request.
func (c *Coordinator) completeStart(ctx context.Context, requestedAt time.Time, port int, startErr error) []domain.StatusReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	session := c.session
	record := &domain.SessionRecord{
		ID:         session.ID,
		UploadRoot: session.UploadRoot,
		StartedAt:  requestedAt,
	}

	if startErr != nil {
		reason := domain.StartFailureReason(startErr)
		log.Printf("coordinator: service failed to start: %v", startErr)

		c.releaseSubscriptionLocked()
		c.session = nil
		c.state = domain.StateStopped
		c.metrics.SessionStartFailed()

		record.Failure = reason
		record.StoppedAt = c.now()
		c.saveSessionLocked(ctx, record)

		return []domain.StatusReport{c.reportLocked(domain.FailedReport(reason))}
	}

	session.MarkRunning(port, c.now())
	c.state = domain.StateRunning
	c.metrics.SessionStarted()
	record.Port = port
	c.saveSessionLocked(ctx, record)

	if c.stopQueued {
		logger.Info("coordinator: screen dismissed during start, stopping session %s", session.ID)
		c.teardownLocked(ctx)
		return nil
	}

	report := c.reportLocked(domain.RunningReport(port))
	if c.backgrounded {
		c.enterBackgroundLocked(ctx)
	}
	return []domain.StatusReport{report}
}

// disappear handles ScreenDisappeared. It always wins: any running
// session and any pending warning are torn down regardless of sub-state.
func (c *Coordinator) disappear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case domain.StateRunning, domain.StateRunningBackgrounded:
		c.teardownLocked(ctx)
	case domain.StateStarting:
		// Applied by completeStart once the in-flight start returns.
		c.stopQueued = true
		c.releaseSubscriptionLocked()
	default:
		c.redundantLocked(domain.EventScreenDisappeared)
	}
}

func (c *Coordinator) enterBackground(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enterBackgroundLocked(ctx)
}

// enterBackgroundLocked handles Running -> RunningBackgrounded.
func (c *Coordinator) enterBackgroundLocked(ctx context.Context) {
	switch c.state {
	case domain.StateStarting:
		c.backgrounded = true
		return
	case domain.StateRunning:
	default:
		c.redundantLocked(domain.EventEnteredBackground)
		return
	}

	c.backgrounded = true

	// A warning left over from an earlier episode must never linger.
	c.cancelWarningLocked(ctx)

	now := c.now()
	warning := domain.NewSuspensionWarning(c.settings.GraceWindow, now)
	notification := warning.Notification(c.settings.WarningTitle, c.settings.WarningBody)
	if err := c.notifier.Schedule(ctx, notification); err != nil {
		log.Printf("coordinator: failed to schedule suspension warning: %v", err)
	} else {
		c.warning = &warning
		c.metrics.WarningScheduled()
	}

	c.startBudgetTimerLocked()
	c.state = domain.StateRunningBackgrounded

	c.recordLocked(ctx, domain.SessionEventBackgrounded, "")
	if c.warning != nil {
		c.recordLocked(ctx, domain.SessionEventWarningScheduled, domain.SuspensionWarningID)
	}
	logger.Info("coordinator: backgrounded, warning due in %s", c.settings.GraceWindow)
}

// enterForeground handles RunningBackgrounded -> Running.
func (c *Coordinator) enterForeground(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case domain.StateStarting:
		c.backgrounded = false
		return
	case domain.StateRunningBackgrounded:
	default:
		c.redundantLocked(domain.EventEnteredForeground)
		return
	}

	c.backgrounded = false
	c.stopBudgetTimerLocked()
	cancelled := c.cancelWarningLocked(ctx)
	c.state = domain.StateRunning

	c.recordLocked(ctx, domain.SessionEventForegrounded, "")
	if cancelled {
		c.recordLocked(ctx, domain.SessionEventWarningCancelled, domain.SuspensionWarningID)
	}
	logger.Info("coordinator: foregrounded, suspension warning cancelled")
}

// teardownLocked stops everything owned by the coordinator and moves to
// the terminal Stopped state.
func (c *Coordinator) teardownLocked(ctx context.Context) {
	c.releaseSubscriptionLocked()
	c.stopBudgetTimerLocked()
	c.cancelWarningLocked(ctx)

	if err := c.service.Stop(); err != nil {
		log.Printf("coordinator: failed to stop service: %v", err)
	}

	if c.session != nil {
		c.session.MarkStopped()
		c.finishSessionLocked(ctx, c.session.ID)
		c.session = nil
		c.metrics.SessionStopped()
	}

	c.backgrounded = false
	c.state = domain.StateStopped
	logger.Info("coordinator: stopped")
}

// subscribeLocked registers for background/foreground events once.
func (c *Coordinator) subscribeLocked() {
	if c.subscription != nil || c.lifecycle == nil {
		return
	}

	sub, err := c.lifecycle.Subscribe(func(event domain.LifecycleEvent) {
		if !event.IsAppEvent() {
			return
		}
		c.Dispatch(context.Background(), event)
	})
	if err != nil {
		log.Printf("coordinator: failed to subscribe to lifecycle events: %v", err)
		return
	}
	c.subscription = sub
}

func (c *Coordinator) releaseSubscriptionLocked() {
	if c.subscription == nil {
		return
	}
	if err := c.subscription.Close(); err != nil {
		log.Printf("coordinator: failed to release lifecycle subscription: %v", err)
	}
	c.subscription = nil
}

// cancelWarningLocked cancels the pending warning. Cancelling when none is
// pending is harmless and is always attempted. It reports whether a warning
// that had not yet been delivered was withdrawn.
func (c *Coordinator) cancelWarningLocked(ctx context.Context) bool {
	pending := c.warningPendingLocked()
	if err := c.notifier.CancelPending(ctx, domain.SuspensionWarningID); err != nil {
		log.Printf("coordinator: failed to cancel suspension warning: %v", err)
	}
	c.warning = nil
	if pending {
		c.metrics.WarningCancelled()
	}
	return pending
}

// warningPendingLocked reports whether the tracked warning is still waiting
// to fire. Schedulers that cannot tell are trusted to still hold it.
func (c *Coordinator) warningPendingLocked() bool {
	if c.warning == nil {
		return false
	}
	tracker, ok := c.notifier.(driven.PendingNotifications)
	if !ok {
		return true
	}
	_, _, pending := tracker.Pending(c.warning.Identifier)
	return pending
}

// startBudgetTimerLocked arms the watchdog for the host's background
// budget. The callback only logs and ignores stale episodes.
func (c *Coordinator) startBudgetTimerLocked() {
	c.stopBudgetTimerLocked()

	episode := c.episode
	budget := c.settings.SuspensionBudget
	c.budgetTimer = c.afterFunc(budget, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.episode != episode || c.state != domain.StateRunningBackgrounded {
			return
		}
		c.budgetTimer = nil
		logger.Warn("coordinator: background budget of %s elapsed, the host may suspend the service", budget)
	})
}

// stopBudgetTimerLocked stops the watchdog before dropping its reference.
func (c *Coordinator) stopBudgetTimerLocked() {
	if c.budgetTimer != nil {
		c.budgetTimer.Stop()
		c.budgetTimer = nil
	}
	c.episode++
}

func (c *Coordinator) reportLocked(report domain.StatusReport) domain.StatusReport {
	c.lastReport = &report
	return report
}

// emit sends reports to the sink without holding the lock.
func (c *Coordinator) emit(reports []domain.StatusReport) {
	if c.sink == nil {
		return
	}
	for _, r := range reports {
		c.sink.Report(r)
	}
}

func (c *Coordinator) redundant(event domain.LifecycleEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.redundantLocked(event)
}

func (c *Coordinator) redundantLocked(event domain.LifecycleEvent) {
	logger.Debug("coordinator: ignoring %s in state %s: %v", event, c.state, domain.ErrRedundantTransition)
}

// ==================== History ====================

func (c *Coordinator) saveSessionLocked(ctx context.Context, record *domain.SessionRecord) {
	if c.store == nil {
		return
	}
	if err := c.store.SaveSession(ctx, record); err != nil {
		log.Printf("coordinator: failed to save session %s: %v", record.ID, err)
	}
}

func (c *Coordinator) finishSessionLocked(ctx context.Context, id string) {
	if c.store == nil {
		return
	}
	record, err := c.store.GetSession(ctx, id)
	if err != nil {
		log.Printf("coordinator: failed to load session %s: %v", id, err)
		return
	}
	record.StoppedAt = c.now()
	c.saveSessionLocked(ctx, record)
}

func (c *Coordinator) recordLocked(ctx context.Context, kind domain.FileEventKind, path string) {
	if c.store == nil || c.session == nil {
		return
	}
	event := &domain.FileEvent{
		SessionID: c.session.ID,
		Kind:      kind,
		Path:      path,
		At:        c.now(),
	}
	if err := c.store.RecordEvent(ctx, event); err != nil {
		log.Printf("coordinator: failed to record %s event: %v", kind, err)
	}
}
