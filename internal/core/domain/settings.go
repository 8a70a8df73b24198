package domain

import "time"

// AppSettings is the persisted configuration of pitrseek.
type AppSettings struct {
	Spanner SpannerSettings
	Search  SearchSettings
}

// SpannerSettings selects the database and how to reach it.
type SpannerSettings struct {
	// Project, Instance and Database default the global flags.
	Project  string
	Instance string
	Database string

	// Endpoint overrides the REST endpoint, e.g. an emulator.
	// Empty means the public Spanner endpoint.
	Endpoint string
}

// Target returns the database target described by the settings.
func (s SpannerSettings) Target() DatabaseTarget {
	return DatabaseTarget{Project: s.Project, Instance: s.Instance, Database: s.Database}
}

// SearchSettings tunes the search.
type SearchSettings struct {
	// Accuracy is the default window width at which a search stops.
	Accuracy time.Duration

	// ProbesPerSecond caps the rate of requests sent to the database.
	ProbesPerSecond float64

	// ProbeBurst is the number of requests allowed back to back.
	ProbeBurst int
}

// DefaultAppSettings returns the built-in defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Search: SearchSettings{
			Accuracy:        DefaultAccuracy,
			ProbesPerSecond: 10,
			ProbeBurst:      1,
		},
	}
}
