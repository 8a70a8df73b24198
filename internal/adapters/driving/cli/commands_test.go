package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoCmd(t *testing.T) {
	env := setupCLI(t)

	err := env.run(target("info")...)

	require.NoError(t, err)
	out := env.stdout.String()
	assert.Contains(t, out, "State:             READY")
	assert.Contains(t, out, "Retention period:  2h0m0s")
	assert.Contains(t, out, "Earliest version:  2024-02-29T23:00:00Z")
	assert.Contains(t, out, "Database time:     2024-03-01T01:00:00Z")
	assert.Contains(t, out, "Recoverable span:  2h0m0s")
	assert.Equal(t, 1, env.closed)
}

func TestInfoCmd_RequiresTarget(t *testing.T) {
	env := setupCLI(t)

	err := env.run("info", "-p", "proj")

	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))
	assert.Contains(t, err.Error(), "missing instance, database")
	assert.Nil(t, env.connected)
}

func TestConfigSetAndShow(t *testing.T) {
	env := setupCLI(t)

	require.NoError(t, env.run("config", "set", "spanner.project", "proj"))
	require.NoError(t, env.run("config", "set", "search.accuracy_ms", "250"))
	assert.Contains(t, env.stdout.String(), "Set spanner.project = proj")
	assert.Equal(t, "proj", env.store.GetString("spanner.project"))

	env.stdout.Reset()
	require.NoError(t, env.run("config", "show"))

	out := env.stdout.String()
	assert.Contains(t, out, "Project:  proj")
	assert.Contains(t, out, "Instance: (not set)")
	assert.Contains(t, out, "Endpoint: (Google Cloud)")
	assert.Contains(t, out, "Accuracy: 250ms")
	assert.Contains(t, out, "Warning: invalid input: missing instance, database")
}

func TestConfigShow_FlagsSelectTarget(t *testing.T) {
	env := setupCLI(t)

	require.NoError(t, env.run(target("config")...))

	assert.Contains(t, env.stdout.String(), "Target: projects/proj/instances/inst/databases/db")
}

func TestConfigSet_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"config", "set", "spanner.region", "eu"}},
		{"non numeric accuracy", []string{"config", "set", "search.accuracy_ms", "fast"}},
		{"zero rate", []string{"config", "set", "search.probes_per_second", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupCLI(t)

			err := env.run(tt.args...)

			require.Error(t, err)
			assert.Equal(t, ExitUsage, ExitCode(err))
		})
	}
}

func TestConfigPath(t *testing.T) {
	env := setupCLI(t)

	require.NoError(t, env.run("--config-dir", "/tmp/pitrseek-test", "config", "path"))

	assert.Equal(t, ":memory:\n", env.stdout.String())
	assert.Equal(t, "/tmp/pitrseek-test", env.configDir)
}

func TestCommands_NotConfigured(t *testing.T) {
	env := setupCLI(t)
	SetConfig(nil)

	err := env.run(target("info")...)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
