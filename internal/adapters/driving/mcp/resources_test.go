package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

func TestExtractDatabasePath(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
		ok       bool
	}{
		{"all databases", "pitrseek://history", "", true},
		{"one database", "pitrseek://history/projects/p/instances/i/databases/d", "projects/p/instances/i/databases/d", true},
		{"invalid prefix", "file://history", "", false},
		{"partial path", "pitrseek://history/projects/p/instances/i", "", false},
		{"wrong segment", "pitrseek://history/projects/p/zones/i/databases/d", "", false},
		{"empty component", "pitrseek://history/projects//instances/i/databases/d", "", false},
		{"empty URI", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := extractDatabasePath(tt.uri)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists searches for one database", func(t *testing.T) {
		f := newFixture()
		server := f.server(t)
		for _, db := range []string{"projects/p/instances/i/databases/a", "projects/p/instances/i/databases/b"} {
			require.NoError(t, f.history.Add(ctx, &domain.SearchRecord{
				Database:  db,
				Query:     "SELECT TRUE",
				Timestamp: midnight,
				StartedAt: midnight.Add(time.Hour),
			}))
		}

		result, err := server.handleHistoryResource(ctx,
			makeReadResourceRequest("pitrseek://history/projects/p/instances/i/databases/a"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		var entries []historyEntry
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "projects/p/instances/i/databases/a", entries[0].Database)
		assert.Equal(t, "2024-03-01T00:00:00Z", entries[0].Timestamp)
	})

	t.Run("lists every database", func(t *testing.T) {
		f := newFixture()
		server := f.server(t)
		require.NoError(t, f.history.Add(ctx, &domain.SearchRecord{Database: "x", Error: "boom"}))

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("pitrseek://history"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"error": "boom"`)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("no history returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Open: newFixture().open})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("pitrseek://history"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("unknown URI is not found", func(t *testing.T) {
		server := newFixture().server(t)

		_, err := server.handleHistoryResource(ctx, makeReadResourceRequest("pitrseek://sources"))

		assert.Error(t, err)
	})
}
