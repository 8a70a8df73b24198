package spanner

import (
	"net/http"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/pitrseek/internal/connectors/google"
	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

// Config holds everything needed to open a Client.
type Config struct {
	// Target is the database to read.
	Target domain.DatabaseTarget

	// Endpoint overrides the API endpoint (emulator REST gateway).
	Endpoint string

	// RateLimit paces requests. Zero values use google.DefaultRateLimit.
	RateLimit google.RateLimitConfig

	// TokenSource authenticates requests. When nil and no Endpoint or
	// HTTPClient is set, Application Default Credentials are used.
	TokenSource oauth2.TokenSource

	// HTTPClient replaces the transport. Used by tests.
	HTTPClient *http.Client
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(settings domain.AppSettings) Config {
	return Config{
		Target:   settings.Spanner.Target(),
		Endpoint: settings.Spanner.Endpoint,
		RateLimit: google.RateLimitConfig{
			RequestsPerSecond: settings.Search.ProbesPerSecond,
			BurstSize:         settings.Search.ProbeBurst,
		},
	}
}
