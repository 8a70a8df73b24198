package file

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsConfigChange(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want bool
	}{
		{fsnotify.Create, true},
		{fsnotify.Write, true},
		{fsnotify.Remove, true},
		{fsnotify.Rename, true},
		{fsnotify.Chmod, false},
		{fsnotify.Write | fsnotify.Chmod, true},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, isConfigChange(tt.op))
		})
	}
}

func TestWatch_ReportsConfigChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes atomic.Int32
	require.NoError(t, Watch(ctx, path, func() { changes.Add(1) }))

	require.NoError(t, os.WriteFile(path, []byte("[spanner]\nproject = \"a\"\n"), 0600))

	require.Eventually(t, func() bool { return changes.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
}

func TestWatch_CallsOnChangeSerially(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var running, maxRunning, calls atomic.Int32
	require.NoError(t, Watch(ctx, path, func() {
		n := running.Add(1)
		if n > maxRunning.Load() {
			maxRunning.Store(n)
		}
		time.Sleep(3 * watchDebounce)
		calls.Add(1)
		running.Add(-1)
	}))

	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0600))
	require.Eventually(t, func() bool { return running.Load() == 1 }, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("x = 2\n"), 0600))

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, int32(1), maxRunning.Load())
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes atomic.Int32
	require.NoError(t, Watch(ctx, filepath.Join(dir, "config.toml"), func() { changes.Add(1) }))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.db"), []byte("x"), 0600))

	time.Sleep(3 * watchDebounce)
	assert.Equal(t, int32(0), changes.Load())
}

func TestWatch_StopsWithContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	ctx, cancel := context.WithCancel(context.Background())

	var changes atomic.Int32
	require.NoError(t, Watch(ctx, path, func() { changes.Add(1) }))
	cancel()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0600))

	time.Sleep(3 * watchDebounce)
	assert.Equal(t, int32(0), changes.Load())
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing", "config.toml"), func() {})

	assert.Error(t, err)
}
