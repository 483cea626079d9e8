package story

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/chime/internal/log"
)

// EventType distinguishes watcher notifications.
type EventType int

const (
	// VarsReloaded is sent after the store was replaced from disk.
	VarsReloaded EventType = iota
	// ReloadFailed is sent when the file changed but could not be read.
	ReloadFailed
)

// WatchEvent reports the outcome of a reload.
type WatchEvent struct {
	Type  EventType
	Error error
}

// WatchConfig configures a Watcher.
type WatchConfig struct {
	Path        string
	DebounceDur time.Duration
}

// DefaultWatchConfig returns a config with a 100ms debounce.
func DefaultWatchConfig(path string) WatchConfig {
	return WatchConfig{Path: path, DebounceDur: 100 * time.Millisecond}
}

// Watcher reloads a Store whenever its variables file changes.
type Watcher struct {
	cfg    WatchConfig
	store  *Store
	fsw    *fsnotify.Watcher
	events chan WatchEvent

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewWatcher creates a watcher. The file is not read until Start.
func NewWatcher(cfg WatchConfig, store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	return &Watcher{
		cfg:    cfg,
		store:  store,
		fsw:    fsw,
		events: make(chan WatchEvent, 8),
		done:   make(chan struct{}),
	}, nil
}

// Events delivers reload outcomes. Events are dropped when the buffer is full.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start loads the file once and then watches its directory, so editors that
// replace the file on save are still followed.
func (w *Watcher) Start() error {
	vars, err := ReadVars(w.cfg.Path)
	if err != nil {
		return err
	}
	w.store.Replace(vars)

	if err := w.fsw.Add(filepath.Dir(w.cfg.Path)); err != nil {
		return fmt.Errorf("watching %s: %w", w.cfg.Path, err)
	}
	w.wg.Add(1)
	go w.loop()
	log.Debug(log.CatStory, "Watching story variables", "path", w.cfg.Path)
	return nil
}

// Stop ends the watch loop and releases the watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	target := filepath.Clean(w.cfg.Path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.cfg.DebounceDur)
			} else {
				timer.Reset(w.cfg.DebounceDur)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatStory, "File watcher error", "error", err)
			w.publish(WatchEvent{Type: ReloadFailed, Error: err})
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	vars, err := ReadVars(w.cfg.Path)
	if err != nil {
		log.Warn(log.CatStory, "Keeping previous story variables", "path", w.cfg.Path, "error", err)
		w.publish(WatchEvent{Type: ReloadFailed, Error: err})
		return
	}
	w.store.Replace(vars)
	log.Info(log.CatStory, "Reloaded story variables", "path", w.cfg.Path, "count", len(vars))
	w.publish(WatchEvent{Type: VarsReloaded})
}

func (w *Watcher) publish(ev WatchEvent) {
	select {
	case w.events <- ev:
	default:
	}
}
