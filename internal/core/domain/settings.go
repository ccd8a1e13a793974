package domain

import (
	"fmt"
	"time"
)

// Defaults for the suspension timing. The host is assumed to revoke
// background execution after roughly thirty seconds; the warning must fire
// strictly before that.
const (
	DefaultGraceWindow      = 25 * time.Second
	DefaultSuspensionBudget = 30 * time.Second
)

// Defaults for the network service.
const (
	DefaultPort              = 8080
	DefaultBindAddress       = "0.0.0.0"
	DefaultMaxUploadBytes    = int64(10 << 30)
	DefaultRequestsPerSecond = 50
	DefaultRequestBurst      = 100
)

// ServerSettings configures the local upload server.
type ServerSettings struct {
	// UploadRoot is the directory exposed by the server.
	// Empty means the default under the data directory.
	UploadRoot string

	// BindAddress is the interface to listen on.
	BindAddress string

	// Port is the preferred TCP port. Zero picks any free port.
	Port int

	// PortFallbackRange is how many ports after Port to probe when Port is
	// taken. Zero disables fallback so a busy port fails the start.
	PortFallbackRange int

	// AllowHiddenEntries exposes dot-files and dot-directories.
	AllowHiddenEntries bool

	// MaxUploadBytes caps a single upload request body.
	MaxUploadBytes int64

	// RequestsPerSecond and Burst configure the request rate limiter.
	RequestsPerSecond int
	Burst             int
}

// Validate checks the server settings.
func (s ServerSettings) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidInput, s.Port)
	}
	if s.PortFallbackRange < 0 {
		return fmt.Errorf("%w: port fallback range must not be negative", ErrInvalidInput)
	}
	if s.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max upload bytes must be positive", ErrInvalidInput)
	}
	if s.RequestsPerSecond <= 0 || s.Burst <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidInput)
	}
	return nil
}

// CoordinatorSettings configures the lifecycle coordinator's timing.
type CoordinatorSettings struct {
	// GraceWindow is the delay between entering the background and the
	// suspension warning firing.
	GraceWindow time.Duration

	// SuspensionBudget is the assumed background execution budget of the
	// host. It is platform dependent and not guaranteed.
	SuspensionBudget time.Duration

	// WarningTitle and WarningBody are the notification text.
	WarningTitle string
	WarningBody  string
}

// Validate checks the grace window fires strictly inside the budget.
func (c CoordinatorSettings) Validate() error {
	if c.GraceWindow <= 0 {
		return fmt.Errorf("%w: grace window must be positive", ErrInvalidInput)
	}
	if c.SuspensionBudget <= 0 {
		return fmt.Errorf("%w: suspension budget must be positive", ErrInvalidInput)
	}
	if c.GraceWindow >= c.SuspensionBudget {
		return fmt.Errorf("%w: grace window %s must be shorter than suspension budget %s",
			ErrInvalidInput, c.GraceWindow, c.SuspensionBudget)
	}
	return nil
}

// NotificationSettings configures warning delivery.
type NotificationSettings struct {
	// Enabled grants notification permission. When false, warnings are
	// scheduled into the void, as with a denied permission.
	Enabled bool

	// Bell rings the terminal bell when a warning is delivered.
	Bell bool
}

// HistorySettings configures session history persistence.
type HistorySettings struct {
	// Enabled persists sessions to SQLite. When false history is in memory.
	Enabled bool

	// Retain is how many sessions to keep.
	Retain int
}

// AppSettings aggregates all application settings.
type AppSettings struct {
	Server        ServerSettings
	Coordinator   CoordinatorSettings
	Notifications NotificationSettings
	History       HistorySettings
}

// Validate checks all settings sections.
func (a AppSettings) Validate() error {
	if err := a.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := a.Coordinator.Validate(); err != nil {
		return fmt.Errorf("coordinator: %w", err)
	}
	return nil
}

// DefaultServerSettings returns the server defaults.
func DefaultServerSettings() ServerSettings {
	return ServerSettings{
		BindAddress:        DefaultBindAddress,
		Port:               DefaultPort,
		AllowHiddenEntries: true,
		MaxUploadBytes:     DefaultMaxUploadBytes,
		RequestsPerSecond:  DefaultRequestsPerSecond,
		Burst:              DefaultRequestBurst,
	}
}

// DefaultCoordinatorSettings returns the coordinator defaults.
func DefaultCoordinatorSettings() CoordinatorSettings {
	return CoordinatorSettings{
		GraceWindow:      DefaultGraceWindow,
		SuspensionBudget: DefaultSuspensionBudget,
		WarningTitle:     DefaultWarningTitle,
		WarningBody:      DefaultWarningBody,
	}
}

// DefaultAppSettings returns sensible defaults for all settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Server:      DefaultServerSettings(),
		Coordinator: DefaultCoordinatorSettings(),
		Notifications: NotificationSettings{
			Enabled: true,
			Bell:    true,
		},
		History: HistorySettings{
			Enabled: true,
			Retain:  100,
		},
	}
}
