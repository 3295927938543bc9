package common

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"resumake/internal/errors"
)

// FileWatcher watches a set of files and invokes a callback when any of
// them changes, with debouncing so editor write bursts trigger one rebuild.
// Watches are placed on the parent directories because many editors replace
// files on save, which drops inode-level watches.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool // absolute paths of watched files
	debounce time.Duration
	onChange func(path string)
	logger   *errors.Logger

	mu        sync.Mutex
	lastFired time.Time
	running   bool
	done      chan struct{}
}

// NewFileWatcher creates a watcher for the given files. onChange runs on the
// watcher goroutine; keep it short or hand off.
func NewFileWatcher(files []string, debounce time.Duration, onChange func(path string), logger *errors.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewIOError("WATCHER_CREATE_FAILED", "Cannot create file watcher", err)
	}

	fw := &FileWatcher{
		watcher:  w,
		files:    make(map[string]bool),
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = w.Close()
			return nil, errors.NewIOError("WATCHER_PATH_INVALID", "Cannot resolve watch path: "+f, err)
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, errors.NewIOError("WATCHER_ADD_FAILED", "Cannot watch directory: "+dir, err)
		}
	}

	return fw, nil
}

// Start begins watching until the context is canceled or Stop is called.
func (fw *FileWatcher) Start(ctx context.Context) {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return
	}
	fw.running = true
	fw.mu.Unlock()

	go fw.loop(ctx)
}

func (fw *FileWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.done:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			if fw.logger != nil {
				fw.logger.Warn("File watcher error", "error", err)
			}
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil || !fw.files[abs] {
		return
	}

	fw.mu.Lock()
	now := time.Now()
	if now.Sub(fw.lastFired) < fw.debounce {
		fw.mu.Unlock()
		return
	}
	fw.lastFired = now
	fw.mu.Unlock()

	if fw.logger != nil {
		fw.logger.Debug("Watched file changed", "path", abs, "op", event.Op.String())
	}
	fw.onChange(abs)
}

// Stop stops watching and releases the underlying watcher.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if !fw.running {
		return fw.watcher.Close()
	}
	fw.running = false
	close(fw.done)
	return fw.watcher.Close()
}
