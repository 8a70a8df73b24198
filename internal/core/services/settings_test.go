package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pitrseek/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeySpannerProject, "acme")
	_ = store.Set(KeySpannerInstance, "prod")
	_ = store.Set(KeySpannerDatabase, "orders")
	_ = store.Set(KeySpannerEndpoint, "localhost:9020")
	_ = store.Set(KeySearchAccuracyMS, 250)
	_ = store.Set(KeySearchProbeRate, 2.5)
	_ = store.Set(KeySearchProbeBurst, 3)

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DatabaseTarget{Project: "acme", Instance: "prod", Database: "orders"},
		settings.Spanner.Target())
	assert.Equal(t, "localhost:9020", settings.Spanner.Endpoint)
	assert.Equal(t, 250*time.Millisecond, settings.Search.Accuracy)
	assert.InDelta(t, 2.5, settings.Search.ProbesPerSecond, 1e-9)
	assert.Equal(t, 3, settings.Search.ProbeBurst)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeySearchAccuracyMS, -5)
	_ = store.Set(KeySearchProbeRate, "fast")
	_ = store.Set(KeySearchProbeBurst, 0)

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings().Search, settings.Search)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		want    any
		wantErr bool
	}{
		{"string", KeySpannerProject, "acme", "acme", false},
		{"empty string clears", KeySpannerEndpoint, "", "", false},
		{"positive int", KeySearchAccuracyMS, "25", 25, false},
		{"zero int", KeySearchAccuracyMS, "0", nil, true},
		{"not an int", KeySearchProbeBurst, "two", nil, true},
		{"positive float", KeySearchProbeRate, "0.5", 0.5, false},
		{"negative float", KeySearchProbeRate, "-1", nil, true},
		{"unknown key", "search.mode", "hybrid", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			err := service.Set(tt.key, tt.value)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				_, ok := store.Get(tt.key)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			got, ok := store.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_KeysAndPath(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.Equal(t, []string{
		KeySearchAccuracyMS,
		KeySearchProbeBurst,
		KeySearchProbeRate,
		KeySpannerDatabase,
		KeySpannerEndpoint,
		KeySpannerInstance,
		KeySpannerProject,
	}, service.Keys())
	assert.Equal(t, ":memory:", service.Path())
}
