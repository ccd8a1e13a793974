package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driven"
	"github.com/custodia-labs/pocketserve/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyUploadRoot        = "server.upload_root"
	keyBindAddress       = "server.bind_address"
	keyPort              = "server.port"
	keyPortFallback      = "server.port_fallback_range"
	keyAllowHidden       = "server.allow_hidden_entries"
	keyMaxUploadBytes    = "server.max_upload_bytes"
	keyRequestsPerSecond = "server.requests_per_second"
	keyBurst             = "server.burst"
	keyGraceWindow       = "coordinator.grace_window_seconds"
	keySuspensionBudget  = "coordinator.suspension_budget_seconds"
	keyWarningTitle      = "coordinator.warning_title"
	keyWarningBody       = "coordinator.warning_body"
	keyNotifyEnabled     = "notifications.enabled"
	keyNotifyBell        = "notifications.bell"
	keyHistoryEnabled    = "history.enabled"
	keyHistoryRetain     = "history.retain"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Missing keys fall back to domain.DefaultAppSettings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Server: domain.ServerSettings{
			UploadRoot:         s.configStore.GetString(keyUploadRoot),
			BindAddress:        s.getString(keyBindAddress, defaults.Server.BindAddress),
			Port:               s.getInt(keyPort, defaults.Server.Port),
			PortFallbackRange:  s.getInt(keyPortFallback, defaults.Server.PortFallbackRange),
			AllowHiddenEntries: s.getBool(keyAllowHidden, defaults.Server.AllowHiddenEntries),
			MaxUploadBytes:     int64(s.getInt(keyMaxUploadBytes, int(defaults.Server.MaxUploadBytes))),
			RequestsPerSecond:  s.getInt(keyRequestsPerSecond, defaults.Server.RequestsPerSecond),
			Burst:              s.getInt(keyBurst, defaults.Server.Burst),
		},
		Coordinator: domain.CoordinatorSettings{
			GraceWindow:      s.getSeconds(keyGraceWindow, defaults.Coordinator.GraceWindow),
			SuspensionBudget: s.getSeconds(keySuspensionBudget, defaults.Coordinator.SuspensionBudget),
			WarningTitle:     s.getString(keyWarningTitle, defaults.Coordinator.WarningTitle),
			WarningBody:      s.getString(keyWarningBody, defaults.Coordinator.WarningBody),
		},
		Notifications: domain.NotificationSettings{
			Enabled: s.getBool(keyNotifyEnabled, defaults.Notifications.Enabled),
			Bell:    s.getBool(keyNotifyBell, defaults.Notifications.Bell),
		},
		History: domain.HistorySettings{
			Enabled: s.getBool(keyHistoryEnabled, defaults.History.Enabled),
			Retain:  s.getInt(keyHistoryRetain, defaults.History.Retain),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyUploadRoot, settings.Server.UploadRoot},
		{keyBindAddress, settings.Server.BindAddress},
		{keyPort, settings.Server.Port},
		{keyPortFallback, settings.Server.PortFallbackRange},
		{keyAllowHidden, settings.Server.AllowHiddenEntries},
		{keyMaxUploadBytes, settings.Server.MaxUploadBytes},
		{keyRequestsPerSecond, settings.Server.RequestsPerSecond},
		{keyBurst, settings.Server.Burst},
		{keyGraceWindow, int(settings.Coordinator.GraceWindow / time.Second)},
		{keySuspensionBudget, int(settings.Coordinator.SuspensionBudget / time.Second)},
		{keyWarningTitle, settings.Coordinator.WarningTitle},
		{keyWarningBody, settings.Coordinator.WarningBody},
		{keyNotifyEnabled, settings.Notifications.Enabled},
		{keyNotifyBell, settings.Notifications.Bell},
		{keyHistoryEnabled, settings.History.Enabled},
		{keyHistoryRetain, settings.History.Retain},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetGraceWindow updates the suspension warning delay.
func (s *SettingsService) SetGraceWindow(d time.Duration) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Coordinator.GraceWindow = d
	if err := settings.Coordinator.Validate(); err != nil {
		return err
	}
	return s.configStore.Set(keyGraceWindow, int(d/time.Second))
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getInt distinguishes a missing key from an explicit zero, since a zero
// port is meaningful.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}
