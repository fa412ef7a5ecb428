package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

func createTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.pptx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func updateFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func nextEvent(t *testing.T, events <-chan ports.FileChangeEvent) ports.FileChangeEvent {
	t.Helper()
	select {
	case event, ok := <-events:
		require.True(t, ok, "events channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
	return ports.FileChangeEvent{}
}

func startWatcher(t *testing.T, path string, debounce time.Duration) <-chan ports.FileChangeEvent {
	t.Helper()
	watcher := NewPollingWatcher(20*time.Millisecond, debounce, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = watcher.Stop()
	})

	events, err := watcher.Watch(ctx, path)
	require.NoError(t, err)
	return events
}

func TestPollingWatcher(t *testing.T) {
	t.Run("create new watcher", func(t *testing.T) {
		watcher := NewPollingWatcher(100*time.Millisecond, 500*time.Millisecond, nil)
		assert.Equal(t, 100*time.Millisecond, watcher.interval)
		assert.Equal(t, 500*time.Millisecond, watcher.debounce)
	})

	t.Run("watch file changes", func(t *testing.T) {
		path := createTempFile(t, "initial content")
		events := startWatcher(t, path, 0)

		time.Sleep(50 * time.Millisecond)
		updateFile(t, path, "updated content")

		event := nextEvent(t, events)
		assert.Equal(t, path, event.Path)
		assert.Equal(t, ports.Modified, event.Type)
		assert.WithinDuration(t, time.Now(), event.Timestamp, 2*time.Second)
	})

	t.Run("rewrite with same content is not a change", func(t *testing.T) {
		path := createTempFile(t, "same")
		events := startWatcher(t, path, 0)

		time.Sleep(50 * time.Millisecond)
		future := time.Now().Add(time.Hour)
		require.NoError(t, os.Chtimes(path, future, future))

		select {
		case event := <-events:
			t.Fatalf("unexpected event %v", event.Type)
		case <-time.After(200 * time.Millisecond):
		}
	})

	t.Run("missing file is created later", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "template.pptx")
		events := startWatcher(t, path, 0)

		time.Sleep(50 * time.Millisecond)
		updateFile(t, path, "now here")

		assert.Equal(t, ports.Created, nextEvent(t, events).Type)
	})

	t.Run("file deletion", func(t *testing.T) {
		path := createTempFile(t, "content")
		events := startWatcher(t, path, 0)

		time.Sleep(50 * time.Millisecond)
		require.NoError(t, os.Remove(path))

		assert.Equal(t, ports.Deleted, nextEvent(t, events).Type)
	})

	t.Run("debouncing collapses bursts", func(t *testing.T) {
		path := createTempFile(t, "initial")
		events := startWatcher(t, path, 300*time.Millisecond)

		time.Sleep(50 * time.Millisecond)
		updateFile(t, path, "change 0")
		first := nextEvent(t, events)
		assert.Equal(t, ports.Modified, first.Type)

		for i := 1; i < 4; i++ {
			updateFile(t, path, fmt.Sprintf("change %d", i))
			time.Sleep(30 * time.Millisecond)
		}

		second := nextEvent(t, events)
		assert.GreaterOrEqual(t, second.Timestamp.Sub(first.Timestamp), 300*time.Millisecond)

		select {
		case <-events:
			t.Fatal("got unexpected third event")
		case <-time.After(400 * time.Millisecond):
		}
	})

	t.Run("stop closes channel and is idempotent", func(t *testing.T) {
		path := createTempFile(t, "content")
		watcher := NewPollingWatcher(20*time.Millisecond, 0, nil)

		events, err := watcher.Watch(context.Background(), path)
		require.NoError(t, err)

		require.NoError(t, watcher.Stop())
		require.NoError(t, watcher.Stop())

		_, ok := <-events
		assert.False(t, ok)
	})
}

func TestChangeType_String(t *testing.T) {
	assert.Equal(t, "modified", ports.Modified.String())
	assert.Equal(t, "created", ports.Created.String())
	assert.Equal(t, "deleted", ports.Deleted.String())
	assert.Equal(t, "unknown", ports.ChangeType(99).String())
}
