package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pocketserve/internal/adapters/driven/lifecycle"
	"github.com/custodia-labs/pocketserve/internal/adapters/driven/notify"
	"github.com/custodia-labs/pocketserve/internal/adapters/driven/uploader"
	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driving"
	"github.com/custodia-labs/pocketserve/internal/core/services"
	"github.com/custodia-labs/pocketserve/internal/logger"
)

// LockFileName guards against two sessions sharing a data directory.
const LockFileName = "server.lock"

// Runtime holds the collaborators shared by every command. It is built in
// main and handed over with SetRuntime.
type Runtime struct {
	// DataDir is ~/.pocketserve unless overridden.
	DataDir string

	Settings driving.SettingsService
	History  driving.SessionHistory

	// Watcher reloads settings when the config file changes. Optional.
	Watcher driven.ConfigWatcher

	Store   driven.SessionStore
	Metrics driven.MetricsRecorder

	// Gatherer is served at /metrics when set.
	Gatherer prometheus.Gatherer

	// NewID generates session IDs. Optional.
	NewID func() string
}

var rt *Runtime

// SetRuntime sets the collaborators used by the commands.
func SetRuntime(r *Runtime) {
	rt = r
}

var errNotConfigured = errors.New("pocketserve is not configured")

// outputs are the parts of a session that differ between the headless
// server and the interactive screen.
type outputs struct {
	sink      driven.StatusSink
	deliverer driven.NotificationDeliverer
	onEvent   func(domain.FileEvent)
}

// session is one screen instance: a coordinator and the adapters it owns.
type session struct {
	settings    domain.AppSettings
	coordinator *services.Coordinator
	broker      *lifecycle.Broker
	notifier    *notify.Local
	server      *uploader.Server
}

// loadSettings reads the stored settings and applies --port and --root.
func loadSettings(cmd *cobra.Command) (domain.AppSettings, error) {
	if rt == nil || rt.Settings == nil {
		return domain.AppSettings{}, errNotConfigured
	}

	stored, err := rt.Settings.Get()
	if err != nil {
		return domain.AppSettings{}, fmt.Errorf("loading settings: %w", err)
	}
	settings := *stored

	if cmd.Flags().Changed("port") {
		settings.Server.Port = portFlag
	}
	if rootFlag != "" {
		settings.Server.UploadRoot = rootFlag
	}
	if settings.Server.UploadRoot == "" {
		settings.Server.UploadRoot = filepath.Join(rt.DataDir, "uploads")
	}

	if err := settings.Validate(); err != nil {
		return domain.AppSettings{}, err
	}
	return settings, nil
}

// newSession builds a session; build chooses the outputs once the
// settings are known.
func newSession(cmd *cobra.Command, build func(domain.AppSettings) outputs) (*session, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	out := build(settings)

	broker := lifecycle.NewBroker()
	notifier := notify.NewLocal(settings.Notifications.Enabled, out.deliverer)
	recorder := services.NewFileEventRecorder(rt.Store, rt.Metrics, out.onEvent)

	serverConfig := uploader.ConfigFromSettings(settings.Server, filepath.Join(rt.DataDir, LockFileName))
	serverConfig.Gatherer = rt.Gatherer
	server := uploader.New(serverConfig, recorder)

	opts := []services.CoordinatorOption{
		services.WithSessionStore(rt.Store),
		services.WithMetrics(rt.Metrics),
	}
	if rt.NewID != nil {
		opts = append(opts, services.WithIDGenerator(rt.NewID))
	}

	coordinator := services.NewCoordinator(
		services.CoordinatorConfig{
			Settings:           settings.Coordinator,
			UploadRoot:         settings.Server.UploadRoot,
			AllowHiddenEntries: settings.Server.AllowHiddenEntries,
		},
		server, notifier, broker, out.sink, opts...,
	)

	return &session{
		settings:    settings,
		coordinator: coordinator,
		broker:      broker,
		notifier:    notifier,
		server:      server,
	}, nil
}

// watchConfig applies edited timing and notification settings until ctx
// is cancelled. Server settings need a new session and are not reapplied.
func (s *session) watchConfig(ctx context.Context) {
	if rt.Watcher == nil {
		return
	}
	go func() {
		err := rt.Watcher.Watch(ctx, s.reload)
		if err != nil {
			logger.Warn("config: watcher stopped: %v", err)
		}
	}()
}

func (s *session) reload() {
	settings, err := rt.Settings.Get()
	if err != nil {
		logger.Warn("config: %v", err)
		return
	}
	if err := s.coordinator.SetSettings(settings.Coordinator); err != nil {
		logger.Warn("config: ignoring coordinator settings: %v", err)
	} else {
		logger.Info("config: grace window is now %s", settings.Coordinator.GraceWindow)
	}
	s.notifier.SetAuthorized(settings.Notifications.Enabled)
}

func (s *session) close() {
	s.notifier.Close()
	s.broker.Close()
}
