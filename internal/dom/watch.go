package dom

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig configures a TemplateWatcher.
type WatchConfig struct {
	// Delay coalesces bursts of writes into one reload.
	Delay time.Duration

	// OnChange runs on the watcher goroutine after each coalesced change.
	OnChange func(path string)

	// OnError receives fsnotify errors.
	OnError func(err error)
}

// TemplateWatcher reports changes to a template file. The parent directory
// is watched so that editors replacing the file by rename are seen.
type TemplateWatcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	path    string
	config  WatchConfig

	timer   *time.Timer
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// WatchTemplates starts watching path.
func WatchTemplates(path string, config WatchConfig) (*TemplateWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(absPath); err != nil {
		return nil, err
	}
	if config.Delay <= 0 {
		config.Delay = 100 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &TemplateWatcher{
		watcher: fsw,
		path:    absPath,
		config:  config,
		closeCh: make(chan struct{}),
	}
	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the watched file.
func (w *TemplateWatcher) Path() string {
	return w.path
}

func (w *TemplateWatcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.config.OnError != nil {
				w.config.OnError(err)
			}
		}
	}
}

// schedule restarts the debounce timer.
func (w *TemplateWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.Delay, w.fire)
}

func (w *TemplateWatcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()

	if !closed && w.config.OnChange != nil {
		w.config.OnChange(w.path)
	}
}

// Close stops the watcher.
func (w *TemplateWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	return w.watcher.Close()
}
