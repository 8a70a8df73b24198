package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
)

const (
	uriScheme = "pitrseek://"

	// historyLimit is the number of searches a history resource lists.
	historyLimit = 50
)

// historyEntry is the JSON form of a recorded search.
type historyEntry struct {
	ID          int64  `json:"id"`
	Database    string `json:"database"`
	Query       string `json:"query"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	StartedAt   string `json:"started_at"`
	Timestamp   string `json:"timestamp,omitempty"`
	Probes      int    `json:"probes"`
	Budget      int    `json:"budget"`
	Error       string `json:"error,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recent timestamp searches against every database",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/projects/{project}/instances/{instance}/databases/{database}",
		Name:        "database-history",
		Description: "Recent timestamp searches against one database",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleHistoryResource lists recent searches, for one database when the
// URI names one.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	database, ok := extractDatabasePath(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entries := []historyEntry{}
	if s.ports.History != nil {
		records, err := s.ports.History.Recent(ctx, database, historyLimit)
		if err != nil {
			return nil, fmt.Errorf("listing history: %w", err)
		}
		for i := range records {
			entries = append(entries, toHistoryEntry(&records[i]))
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling history: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

func toHistoryEntry(rec *domain.SearchRecord) historyEntry {
	entry := historyEntry{
		ID:          rec.ID,
		Database:    rec.Database,
		Query:       rec.Query,
		WindowStart: domain.FormatTimestamp(rec.Window.Start),
		WindowEnd:   domain.FormatTimestamp(rec.Window.End),
		StartedAt:   domain.FormatTimestamp(rec.StartedAt),
		Probes:      rec.Probes,
		Budget:      rec.Budget,
		Error:       rec.Error,
	}
	if !rec.Timestamp.IsZero() {
		entry.Timestamp = domain.FormatTimestamp(rec.Timestamp)
	}
	return entry
}

// extractDatabasePath returns the database path named by a history URI:
// empty for pitrseek://history, projects/P/instances/I/databases/D for
// pitrseek://history/projects/P/instances/I/databases/D.
func extractDatabasePath(uri string) (string, bool) {
	const root = uriScheme + "history"

	if uri == root {
		return "", true
	}
	if !strings.HasPrefix(uri, root+"/") {
		return "", false
	}

	path := strings.TrimPrefix(uri, root+"/")
	parts := strings.Split(path, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "instances" || parts[4] != "databases" {
		return "", false
	}
	for _, p := range parts {
		if p == "" {
			return "", false
		}
	}
	return path, true
}
