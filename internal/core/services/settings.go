package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driven"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeySpannerProject   = "spanner.project"
	KeySpannerInstance  = "spanner.instance"
	KeySpannerDatabase  = "spanner.database"
	KeySpannerEndpoint  = "spanner.endpoint"
	KeySearchAccuracyMS = "search.accuracy_ms"
	KeySearchProbeRate  = "search.probes_per_second"
	KeySearchProbeBurst = "search.probe_burst"
)

// settingKind is the value type a key accepts.
type settingKind int

const (
	kindString settingKind = iota
	kindPositiveInt
	kindPositiveFloat
)

var settingKinds = map[string]settingKind{
	KeySpannerProject:   kindString,
	KeySpannerInstance:  kindString,
	KeySpannerDatabase:  kindString,
	KeySpannerEndpoint:  kindString,
	KeySearchAccuracyMS: kindPositiveInt,
	KeySearchProbeRate:  kindPositiveFloat,
	KeySearchProbeBurst: kindPositiveInt,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Spanner: domain.SpannerSettings{
			Project:  s.configStore.GetString(KeySpannerProject),
			Instance: s.configStore.GetString(KeySpannerInstance),
			Database: s.configStore.GetString(KeySpannerDatabase),
			Endpoint: s.configStore.GetString(KeySpannerEndpoint),
		},
		Search: domain.SearchSettings{
			Accuracy:        s.getAccuracy(defaults.Search.Accuracy),
			ProbesPerSecond: s.getPositiveFloat(KeySearchProbeRate, defaults.Search.ProbesPerSecond),
			ProbeBurst:      s.getPositiveInt(KeySearchProbeBurst, defaults.Search.ProbeBurst),
		},
	}

	return settings, nil
}

// Set validates value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var stored any
	switch kind {
	case kindPositiveInt:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case kindPositiveFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s must be a positive number", domain.ErrInvalidInput, key)
		}
		stored = f
	default:
		stored = value
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys lists the settable keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) getAccuracy(defaultValue time.Duration) time.Duration {
	ms := s.configStore.GetInt(KeySearchAccuracyMS)
	if ms <= 0 {
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *SettingsService) getPositiveInt(key string, defaultValue int) int {
	if n := s.configStore.GetInt(key); n > 0 {
		return n
	}
	return defaultValue
}

func (s *SettingsService) getPositiveFloat(key string, defaultValue float64) float64 {
	if f := s.configStore.GetFloat(key); f > 0 {
		return f
	}
	return defaultValue
}
