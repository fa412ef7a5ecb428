package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

// PollingWatcher watches a single file by polling. The file does not need
// to exist when watching starts.
type PollingWatcher struct {
	interval time.Duration
	debounce time.Duration
	logger   *logging.Logger

	mu       sync.Mutex
	last     *FileInfo
	events   chan ports.FileChangeEvent
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopCh   chan struct{}
}

// FileInfo stores what the watcher last saw of the file
type FileInfo struct {
	Size     int64
	ModTime  time.Time
	Checksum string
}

// NewPollingWatcher creates a new polling-based file watcher
func NewPollingWatcher(interval, debounce time.Duration, logger *logging.Logger) *PollingWatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &PollingWatcher{
		interval: interval,
		debounce: debounce,
		logger:   logger,
		events:   make(chan ports.FileChangeEvent, 10),
		stopCh:   make(chan struct{}),
	}
}

// Watch starts polling path. The returned channel closes after Stop.
func (w *PollingWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := w.scan(absPath)
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}
	w.mu.Lock()
	w.last = info
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx, absPath)
	}()

	return w.events, nil
}

// Stop stops polling and closes the event channel
func (w *PollingWatcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		close(w.events)
	})
	return nil
}

// scan returns nil info for a missing file
func (w *PollingWatcher) scan(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	checksum, err := calculateChecksum(path)
	if err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}
	return &FileInfo{Size: stat.Size(), ModTime: stat.ModTime(), Checksum: checksum}, nil
}

func (w *PollingWatcher) pollLoop(ctx context.Context, path string) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastEventTime time.Time
	var pending *ports.FileChangeEvent

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			changeType, changed, err := w.checkForChanges(path)
			if err != nil {
				w.logger.Warn("watch error: %v", err)
				continue
			}
			if changed {
				pending = &ports.FileChangeEvent{Path: path, Type: changeType, Timestamp: time.Now()}
			}

			// a burst of writes collapses into its last event
			if pending == nil || time.Since(lastEventTime) < w.debounce {
				continue
			}

			select {
			case w.events <- *pending:
				w.logger.Debug("%s %s", path, pending.Type)
				lastEventTime = time.Now()
				pending = nil
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}
}

// checkForChanges compares the file against the last scan
func (w *PollingWatcher) checkForChanges(path string) (ports.ChangeType, bool, error) {
	stat, err := os.Stat(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return 0, false, fmt.Errorf("stat file: %w", err)
	}

	w.mu.Lock()
	old := w.last
	w.mu.Unlock()

	if err != nil {
		if old == nil {
			return 0, false, nil
		}
		w.setLast(nil)
		return ports.Deleted, true, nil
	}

	// skip the checksum while size and mtime are unchanged
	if old != nil && old.Size == stat.Size() && old.ModTime.Equal(stat.ModTime()) {
		return 0, false, nil
	}

	checksum, err := calculateChecksum(path)
	if err != nil {
		return 0, false, fmt.Errorf("calculate checksum: %w", err)
	}
	info := &FileInfo{Size: stat.Size(), ModTime: stat.ModTime(), Checksum: checksum}
	w.setLast(info)

	if old == nil {
		return ports.Created, true, nil
	}
	return ports.Modified, old.Checksum != checksum, nil
}

func (w *PollingWatcher) setLast(info *FileInfo) {
	w.mu.Lock()
	w.last = info
	w.mu.Unlock()
}

// calculateChecksum calculates SHA256 checksum of a file
func calculateChecksum(path string) (string, error) {
	file, err := os.Open(path) // #nosec G304 - path comes from configuration
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

var _ ports.FileWatcher = (*PollingWatcher)(nil)
