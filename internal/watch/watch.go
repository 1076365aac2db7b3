// Package watch reports changes to a single file.
package watch

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher invokes a callback when a file's modification time or size changes.
// It listens for events on the parent directory, so files replaced by rename
// are seen, and also polls every interval for filesystems without
// notifications.
type Watcher struct {
	path     string
	interval time.Duration

	mu       sync.Mutex
	modTime  time.Time
	size     int64
	onChange func()
	stopCh   chan struct{}
	running  bool
}

// New creates a watcher for path. The file's current state is the baseline;
// a file that does not exist yet counts as changed once it appears.
func New(path string, interval time.Duration) *Watcher {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	path = filepath.Clean(path)
	w := &Watcher{
		path:     path,
		interval: interval,
	}
	w.ResetBaseline()
	return w
}

// Path returns the watched path.
func (w *Watcher) Path() string { return w.path }

// OnChange sets the callback invoked after a change is detected. The callback
// runs on the watcher goroutine; UI code must hop to its own thread.
func (w *Watcher) OnChange(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Start begins watching in a background goroutine. When directory
// notifications are unavailable it falls back to polling alone. Calling Start
// on a running watcher does nothing.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}

	fw, err := fsnotify.NewWatcher()
	if err == nil {
		if err = fw.Add(filepath.Dir(w.path)); err != nil {
			fw.Close()
			fw = nil
		}
	}
	if err != nil {
		log.Printf("Watch: %s: %v, polling only", w.path, err)
	}

	w.stopCh = make(chan struct{})
	w.running = true
	go w.loop(w.stopCh, fw)
}

// Stop stops the watching goroutine.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	close(w.stopCh)
	w.running = false
}

func (w *Watcher) loop(stop chan struct{}, fw *fsnotify.Watcher) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	var errs <-chan error
	if fw != nil {
		defer fw.Close()
		events, errs = fw.Events, fw.Errors
	}

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.poll()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) == w.path {
				w.poll()
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			log.Printf("Watch: %s: %v", w.path, err)
		}
	}
}

func (w *Watcher) poll() {
	if !w.Check() {
		return
	}
	w.mu.Lock()
	cb := w.onChange
	w.mu.Unlock()
	if cb != nil {
		cb()
	}
}

// Check stats the file once and reports whether it changed since the last
// baseline. A detected change becomes the new baseline. A missing file is
// never a change.
func (w *Watcher) Check() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if info.ModTime().Equal(w.modTime) && info.Size() == w.size {
		return false
	}
	w.modTime = info.ModTime()
	w.size = info.Size()
	return true
}

// ResetBaseline records the file's current state without reporting a change.
func (w *Watcher) ResetBaseline() {
	info, err := os.Stat(w.path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.modTime = time.Time{}
		w.size = -1
		return
	}
	w.modTime = info.ModTime()
	w.size = info.Size()
}
