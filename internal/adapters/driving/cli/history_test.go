package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pitrseek/internal/adapters/driven/storage/memory"
)

func recorded(t *testing.T, env *testEnv) int {
	t.Helper()
	records, err := env.history.List(context.Background(), "", 100)
	require.NoError(t, err)
	return len(records)
}

func TestQueryCmd_RecordsSearch(t *testing.T) {
	env := setupCLI(t)

	require.NoError(t, env.run(minuteWindow("--no-progress")...))

	records, err := env.history.List(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "projects/proj/instances/inst/databases/db", rec.Database)
	assert.Equal(t, "SELECT COUNT(*) > 0 FROM Orders", rec.Query)
	assert.Equal(t, midnight, rec.Window.Start)
	assert.Equal(t, 10*time.Millisecond, rec.Accuracy)
	assert.True(t, rec.Succeeded())
	assert.Equal(t, 14, rec.Budget)
	assert.True(t, env.history.Closed())
}

func TestQueryCmd_RecordsFailedSearch(t *testing.T) {
	env := setupCLI(t)
	env.timeline.SetAnswer(memory.HoldsBefore(midnight.Add(-time.Minute)))

	require.Error(t, env.run(minuteWindow()...))

	records, err := env.history.List(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Succeeded())
	assert.Contains(t, records[0].Error, "condition already false at window start")
}

func TestQueryCmd_UsageErrorsAreNotRecorded(t *testing.T) {
	env := setupCLI(t)

	require.Error(t, env.run(target("query")...))

	assert.Equal(t, 0, recorded(t, env))
}

func TestQueryCmd_WithoutHistory(t *testing.T) {
	env := setupCLI(t)
	cliConfig.OpenHistory = nil

	require.NoError(t, env.run(minuteWindow("--no-progress")...))

	assert.Contains(t, env.stdout.String(), "Found closest recovery timestamp")
}

func TestHistoryCmd_ListsSelectedDatabase(t *testing.T) {
	env := setupCLI(t)
	require.NoError(t, env.run(minuteWindow("--no-progress")...))
	resetFlags(rootCmd)
	require.NoError(t, env.run("-p", "other", "-i", "inst", "-d", "db",
		"query", "-q", "SELECT TRUE", "-s", "2024-03-01T00:00:00Z", "-e", "2024-03-01T00:01:00Z", "--no-progress"))
	resetFlags(rootCmd)
	env.stdout.Reset()

	require.NoError(t, env.run(target("history")...))

	out := env.stdout.String()
	assert.Contains(t, out, "#1  ")
	assert.NotContains(t, out, "#2  ")
	assert.Contains(t, out, "Query:    SELECT COUNT(*) > 0 FROM Orders")
	assert.Contains(t, out, "Result:   2024-03-01T00:00:29.99")
	assert.NotContains(t, out, "Database:")
	assert.Contains(t, out, "Total: 1 searches")
}

func TestHistoryCmd_All(t *testing.T) {
	env := setupCLI(t)
	env.timeline.SetAnswer(memory.HoldsBefore(midnight.Add(time.Hour)))
	require.Error(t, env.run(minuteWindow()...))
	resetFlags(rootCmd)
	env.stdout.Reset()

	require.NoError(t, env.run(target("history", "--all")...))

	out := env.stdout.String()
	assert.Contains(t, out, "Database: projects/proj/instances/inst/databases/db")
	assert.Contains(t, out, "Failed:   invariant violation: condition still true at window end")
}

func TestHistoryCmd_JSON(t *testing.T) {
	env := setupCLI(t)
	require.NoError(t, env.run(minuteWindow("--no-progress")...))
	resetFlags(rootCmd)
	env.stdout.Reset()

	require.NoError(t, env.run("history", "--json"))

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &entries), env.stdout.String())
	require.Len(t, entries, 1)
	assert.EqualValues(t, 1, entries[0]["id"])
	assert.Equal(t, "2024-03-01T00:00:00Z", entries[0]["window_start"])
	assert.EqualValues(t, 10, entries[0]["accuracy_ms"])
	assert.NotEmpty(t, entries[0]["timestamp"])
	assert.NotContains(t, entries[0], "error")
}

func TestHistoryCmd_Empty(t *testing.T) {
	env := setupCLI(t)

	require.NoError(t, env.run("history"))

	assert.Equal(t, "No searches recorded.\n", env.stdout.String())
}

func TestHistoryCmd_InvalidLimit(t *testing.T) {
	env := setupCLI(t)

	err := env.run("history", "-n", "0")

	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))
}

func TestHistoryCmd_NotConfigured(t *testing.T) {
	env := setupCLI(t)
	cliConfig.OpenHistory = nil

	err := env.run("history")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search history not configured")
}

func TestHistoryClearCmd(t *testing.T) {
	env := setupCLI(t)
	require.NoError(t, env.run(minuteWindow("--no-progress")...))
	resetFlags(rootCmd)

	require.NoError(t, env.run("history", "clear"))

	assert.Contains(t, env.stdout.String(), "Search history cleared.")
	assert.Equal(t, 0, recorded(t, env))
}
