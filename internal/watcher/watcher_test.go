package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReportsWritesToWatchedFile(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "technologies.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(watched, []byte("version: 1.0.0\n"), 0600))

	var calls atomic.Int32
	var lastPath atomic.Value
	w := New(nil, func(path string) {
		lastPath.Store(path)
		calls.Add(1)
	}, watched).WithDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// the watch is registered asynchronously, so keep writing until seen
	require.Eventually(t, func() bool {
		_ = os.WriteFile(other, []byte("ignored"), 0600)
		_ = os.WriteFile(watched, []byte("version: 1.1.0\n"), 0600)
		return calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	abs, err := filepath.Abs(watched)
	require.NoError(t, err)
	assert.Equal(t, abs, lastPath.Load())

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	w := New(nil, func(string) {}, filepath.Join(t.TempDir(), "missing", "file.yaml"))
	assert.Error(t, w.Watch(context.Background()))
}
