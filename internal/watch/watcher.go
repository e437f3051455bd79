// Package watch re-runs the export whenever the in-game dumper rewrites the
// snapshot file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is how long the watcher waits for the dumper to finish writing
const DefaultDelay = 500 * time.Millisecond

// SnapshotWatcher monitors one snapshot file and calls onChange after it settles
type SnapshotWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	path      string
	ignored   []string
	logger    *zap.Logger
	onChange  func(path string) error
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewSnapshotWatcher creates a watcher for the snapshot at path. The callback runs
// on the debouncer's goroutine, at most once per settled burst of writes.
func NewSnapshotWatcher(path string, delay time.Duration, logger *zap.Logger, onChange func(string) error) (*SnapshotWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	sw := &SnapshotWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(delay),
		path:      abs,
		ignored:   []string{"*.swp", "*.tmp", "*~"},
		logger:    logger,
		onChange:  onChange,
		stopChan:  make(chan struct{}),
	}

	sw.debouncer.SetCallback(func([]string) {
		if err := sw.onChange(sw.path); err != nil {
			sw.logger.Error("snapshot change handler failed", zap.String("snapshot", sw.path), zap.Error(err))
		}
	})

	return sw, nil
}

// Start watches the snapshot's directory. Dumpers commonly write a temp file and
// rename it over the snapshot, which a watch on the file itself would miss.
func (sw *SnapshotWatcher) Start() error {
	dir := filepath.Dir(sw.path)
	if err := sw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	sw.logger.Info("watching snapshot", zap.String("snapshot", sw.path))

	sw.wg.Add(1)
	go sw.watch()

	return nil
}

// Run starts the watcher and blocks until ctx is done
func (sw *SnapshotWatcher) Run(ctx context.Context) error {
	if err := sw.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return sw.Stop()
}

// Stop stops the watcher, waiting for an export already in progress to finish.
// Stopping twice is a no-op.
func (sw *SnapshotWatcher) Stop() error {
	select {
	case <-sw.stopChan:
		return nil
	default:
		close(sw.stopChan)
	}

	sw.wg.Wait()
	sw.debouncer.Stop()
	return sw.watcher.Close()
}

func (sw *SnapshotWatcher) watch() {
	defer sw.wg.Done()

	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.isSnapshot(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				sw.logger.Debug("snapshot changed", zap.String("snapshot", event.Name), zap.String("op", event.Op.String()))
				sw.debouncer.Add(event.Name)
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn("watch error", zap.Error(err))

		case <-sw.stopChan:
			return
		}
	}
}

// isSnapshot reports whether an event path is the snapshot file itself
func (sw *SnapshotWatcher) isSnapshot(path string) bool {
	if sw.shouldIgnore(path) {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == sw.path
}

func (sw *SnapshotWatcher) shouldIgnore(path string) bool {
	baseName := filepath.Base(path)
	if strings.HasPrefix(baseName, ".") {
		return true
	}
	for _, pattern := range sw.ignored {
		if matched, _ := filepath.Match(pattern, baseName); matched {
			return true
		}
	}
	return false
}

// Debouncer collects changes and triggers the callback once they stop arriving
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopChan chan struct{}
	running  sync.WaitGroup
}

// NewDebouncer creates a new debouncer instance
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
		stopChan: make(chan struct{}),
	}
}

// Add records a change and restarts the delay
func (d *Debouncer) Add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	select {
	case <-d.stopChan:
		return
	default:
	}

	d.files[file] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush hands the accumulated changes to the callback. The callback runs without
// the lock held so it may take as long as an export does.
func (d *Debouncer) flush() {
	d.mutex.Lock()
	select {
	case <-d.stopChan:
		d.mutex.Unlock()
		return
	default:
	}
	if len(d.files) == 0 {
		d.mutex.Unlock()
		return
	}
	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	d.files = make(map[string]struct{})
	callback := d.callback
	d.running.Add(1)
	d.mutex.Unlock()
	defer d.running.Done()

	if callback != nil {
		callback(files)
	}
}

// SetCallback sets the callback function
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop cancels any pending flush and waits for a running callback to return.
// It must not be called from the callback.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	select {
	case <-d.stopChan:
	default:
		close(d.stopChan)
	}
	d.mutex.Unlock()

	d.running.Wait()
}
