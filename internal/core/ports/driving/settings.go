package driving

import "github.com/custodia-labs/pitrseek/internal/core/domain"

// SettingsService manages persisted application settings.
type SettingsService interface {
	// Get returns the stored settings merged over the defaults.
	Get() (*domain.AppSettings, error)

	// Set validates and stores one setting by its dotted key.
	Set(key, value string) error

	// Keys lists the settable keys.
	Keys() []string

	// Path returns the location of the settings file.
	Path() string
}
