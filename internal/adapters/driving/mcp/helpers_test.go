package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pitrseek/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/services"
)

var midnight = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

var defaultTarget = domain.DatabaseTarget{Project: "proj", Instance: "inst", Database: "db"}

// fixture serves every database from one in-memory timeline.
type fixture struct {
	timeline *memory.Timeline
	history  *memory.HistoryStore
	opened   []domain.DatabaseTarget
	closed   int
	openErr  error
}

func newFixture() *fixture {
	f := &fixture{
		timeline: memory.NewTimeline(midnight.Add(-time.Hour), midnight.Add(time.Hour)),
		history:  memory.NewHistoryStore(),
	}
	f.timeline.SetAnswer(memory.HoldsBefore(midnight.Add(30 * time.Second)))
	return f
}

func (f *fixture) open(_ context.Context, target domain.DatabaseTarget) (*Database, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened = append(f.opened, target)
	return &Database{
		Finder:   services.NewFinderService(f.timeline),
		Database: services.NewDatabaseService(f.timeline),
		Close: func() error {
			f.closed++
			return errors.New("ignored")
		},
	}, nil
}

func (f *fixture) server(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(&Ports{
		Open:          f.open,
		History:       services.NewHistoryService(f.history),
		DefaultTarget: defaultTarget,
		Version:       "1.0.0",
	})
	require.NoError(t, err)
	return s
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}
