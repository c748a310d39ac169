// Package intake watches a drop directory for patient record files and
// hands settled files to a handler. Records are plain text; anything
// that is not a .txt or .md file is ignored.
package intake

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"careguide/internal/logging"
)

// Handler receives the path and contents of a settled record file.
type Handler func(ctx context.Context, path string, record string)

// RecordWatcher monitors a directory for new or modified record files.
// Rapid saves are debounced so an editor writing in chunks triggers one
// run, not five.
type RecordWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	dir         string
	handler     Handler
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewRecordWatcher creates a watcher for the given drop directory. The
// directory is created if it does not exist.
func NewRecordWatcher(dir string, handler Handler) (*RecordWatcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &RecordWatcher{
		watcher:     watcher,
		dir:         dir,
		handler:     handler,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching in a goroutine. Calling Start twice is a no-op.
func (w *RecordWatcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	logging.Intake("watching %s for record files", w.dir)
	go w.run(ctx)
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *RecordWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.IntakeError("closing watcher: %v", err)
	}
	logging.Intake("stopped watching %s", w.dir)
}

func (w *RecordWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.IntakeError("watch error: %v", err)

		case <-ticker.C:
			w.processSettled(ctx)
		}
	}
}

func (w *RecordWatcher) handleEvent(event fsnotify.Event) {
	if !isRecordFile(event.Name) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	w.mu.Lock()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *RecordWatcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		content, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			logging.IntakeError("reading %s: %v", path, err)
			continue
		}
		if len(strings.TrimSpace(string(content))) == 0 {
			continue
		}

		logging.Intake("record file settled: %s (%d bytes)", filepath.Base(path), len(content))
		w.handler(ctx, path, string(content))
	}
}

func isRecordFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	}
	return false
}
