package driving

import (
	"time"

	"github.com/custodia-labs/pocketserve/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current settings, falling back to defaults.
	Get() (*domain.AppSettings, error)

	// Save validates and persists settings.
	Save(settings *domain.AppSettings) error

	// SetGraceWindow updates the suspension warning delay.
	SetGraceWindow(d time.Duration) error
}
