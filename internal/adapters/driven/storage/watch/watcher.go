// Package watch reloads the corpus when its CSV export changes on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/SamiaIslam22/ucsb-rag-chatbot/internal/logger"
)

// debounceDelay coalesces the burst of events a single file save emits.
const debounceDelay = 500 * time.Millisecond

// Watcher monitors a chunk CSV export and triggers a reload callback when
// the file is written or recreated.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(path string)
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewWatcher creates a watcher for the CSV at path. The parent directory
// is watched rather than the file itself so replace-by-rename saves are
// still observed.
func NewWatcher(path string, onChange func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		watcher:  fsw,
		path:     abs,
		onChange: onChange,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
	logger.Info("Watching %s for corpus changes", w.path)
}

// Stop stops watching and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()
	})
}

func (w *Watcher) watchLoop() {
	var mu sync.Mutex
	var pending *time.Timer

	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			// Debounce: editors and exporters emit several events per save.
			mu.Lock()
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounceDelay, func() {
				logger.Debug("Corpus file changed: %s", w.path)
				w.onChange(w.path)
			})
			mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error: %v", err)
		}
	}
}
