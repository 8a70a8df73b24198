package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driving"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

// TargetInput selects a database. Empty components use the server defaults.
type TargetInput struct {
	Project  string `json:"project,omitempty" jsonschema:"Google Cloud project (default from configuration)"`
	Instance string `json:"instance,omitempty" jsonschema:"Cloud Spanner instance (default from configuration)"`
	Database string `json:"database,omitempty" jsonschema:"Cloud Spanner database (default from configuration)"`
}

// FindInput is the input schema for the find_recovery_timestamp tool.
type FindInput struct {
	Project    string `json:"project,omitempty" jsonschema:"Google Cloud project (default from configuration)"`
	Instance   string `json:"instance,omitempty" jsonschema:"Cloud Spanner instance (default from configuration)"`
	Database   string `json:"database,omitempty" jsonschema:"Cloud Spanner database (default from configuration)"`
	Query      string `json:"query" jsonschema:"SQL query returning a single BOOL, true while the database is healthy"`
	Start      string `json:"start,omitempty" jsonschema:"window start, RFC 3339 (default earliest version time)"`
	End        string `json:"end,omitempty" jsonschema:"window end, RFC 3339 (default database time)"`
	AccuracyMS int    `json:"accuracy_ms,omitempty" jsonschema:"accuracy in milliseconds (default 10)"`
}

// FindOutput is the output schema for the find_recovery_timestamp tool.
type FindOutput struct {
	Timestamp          string `json:"timestamp"`
	Database           string `json:"database"`
	WindowStart        string `json:"window_start"`
	WindowEnd          string `json:"window_end"`
	AccuracyMS         int64  `json:"accuracy_ms"`
	Probes             int    `json:"probes"`
	Budget             int    `json:"budget"`
	InconclusiveProbes int    `json:"inconclusive_probes"`
}

// DescribeOutput is the output schema for the describe_database tool.
type DescribeOutput struct {
	Database            string `json:"database"`
	State               string `json:"state"`
	RetentionPeriod     string `json:"retention_period"`
	EarliestVersionTime string `json:"earliest_version_time,omitempty"`
	DatabaseTime        string `json:"database_time"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "find_recovery_timestamp",
		Description: "Find the latest timestamp at which a diagnostic query still returned true, " +
			"by bisecting point-in-time reads over the database's version history",
	}, s.handleFind)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "describe_database",
		Description: "Show the recoverable time range of a database",
	}, s.handleDescribe)
}

// handleFind handles the find_recovery_timestamp tool invocation.
func (s *Server) handleFind(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindInput,
) (*mcp.CallToolResult, FindOutput, error) {
	if input.Query == "" {
		return nil, FindOutput{}, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if input.AccuracyMS < 0 {
		return nil, FindOutput{}, fmt.Errorf("%w: accuracy_ms must be positive", domain.ErrInvalidInput)
	}
	start, err := parseOptionalTime(input.Start)
	if err != nil {
		return nil, FindOutput{}, err
	}
	end, err := parseOptionalTime(input.End)
	if err != nil {
		return nil, FindOutput{}, err
	}

	defaultTarget, defaultAccuracy := s.Defaults()
	target, err := mergeTarget(defaultTarget, TargetInput{
		Project:  input.Project,
		Instance: input.Instance,
		Database: input.Database,
	})
	if err != nil {
		return nil, FindOutput{}, err
	}

	db, err := s.ports.Open(ctx, target)
	if err != nil {
		return nil, FindOutput{}, fmt.Errorf("opening database: %w", err)
	}
	defer closeDatabase(db)

	req := domain.SearchRequest{
		Query:    input.Query,
		Accuracy: time.Duration(input.AccuracyMS) * time.Millisecond,
	}
	if req.Accuracy == 0 {
		req.Accuracy = defaultAccuracy
	}
	if req.Accuracy == 0 {
		req.Accuracy = domain.DefaultAccuracy
	}

	req.Window, err = db.Database.ResolveWindow(ctx, start, end)
	if err != nil {
		return nil, FindOutput{}, err
	}

	started := time.Now()
	result, err := db.Finder.Find(ctx, req, contextReporter(ctx))
	s.record(ctx, domain.NewSearchRecord(target, req, started, time.Now(), result, err))
	if err != nil {
		return nil, FindOutput{}, err
	}

	return nil, FindOutput{
		Timestamp:          domain.FormatTimestamp(result.Timestamp),
		Database:           target.Path(),
		WindowStart:        domain.FormatTimestamp(req.Window.Start),
		WindowEnd:          domain.FormatTimestamp(req.Window.End),
		AccuracyMS:         req.Accuracy.Milliseconds(),
		Probes:             result.Probes,
		Budget:             result.Budget,
		InconclusiveProbes: result.InconclusiveProbes,
	}, nil
}

// handleDescribe handles the describe_database tool invocation.
func (s *Server) handleDescribe(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TargetInput,
) (*mcp.CallToolResult, DescribeOutput, error) {
	defaultTarget, _ := s.Defaults()
	target, err := mergeTarget(defaultTarget, input)
	if err != nil {
		return nil, DescribeOutput{}, err
	}

	db, err := s.ports.Open(ctx, target)
	if err != nil {
		return nil, DescribeOutput{}, fmt.Errorf("opening database: %w", err)
	}
	defer closeDatabase(db)

	info, err := db.Database.Describe(ctx)
	if err != nil {
		return nil, DescribeOutput{}, err
	}
	now, err := db.Database.ServerTime(ctx)
	if err != nil {
		return nil, DescribeOutput{}, err
	}

	out := DescribeOutput{
		Database:        info.Name,
		State:           info.State,
		RetentionPeriod: info.RetentionPeriod,
		DatabaseTime:    domain.FormatTimestamp(now),
	}
	if !info.EarliestVersionTime.IsZero() {
		out.EarliestVersionTime = domain.FormatTimestamp(info.EarliestVersionTime)
	}
	return nil, out, nil
}

// record adds rec to the history when one is configured. Canceled
// searches are recorded too, so the call's cancellation is not passed on.
func (s *Server) record(ctx context.Context, rec *domain.SearchRecord) {
	if s.ports.History == nil {
		return
	}
	if err := s.ports.History.Record(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("Could not record search: %v", err)
	}
}

// contextReporter stops the search once the tool call is cancelled.
func contextReporter(ctx context.Context) driving.ProgressReporter {
	return driving.ProgressFunc(func(p domain.Progress) error {
		if ctx.Err() != nil {
			return domain.ErrCanceled
		}
		logger.Debug("Probe %d/%d at %s: %s", p.Step, p.Budget, domain.FormatTimestamp(p.Midpoint), p.Outcome)
		return nil
	})
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := domain.ParseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func closeDatabase(db *Database) {
	if db.Close == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Debug("Closing database: %v", err)
	}
}
