// Package devloop watches source files and re-runs an action when they
// change, with debouncing so editor write bursts trigger one rebuild.
package devloop

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-runs OnChange when a watched file is written or created.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	exts     map[string]bool

	// OnChange is called with the changed path after the debounce window.
	OnChange func(path string)
}

// New creates a Watcher over the given paths, reacting only to files with
// the given extensions (e.g. ".ruchy", ".rchy").
func New(paths []string, exts []string, debounce time.Duration) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{fs: fs, debounce: debounce, exts: map[string]bool{}}
	for _, e := range exts {
		w.exts[e] = true
	}
	for _, p := range paths {
		if err := fs.Add(p); err != nil {
			fs.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run blocks, dispatching debounced change events until stop is closed.
func (w *Watcher) Run(stop <-chan struct{}) error {
	var timer *time.Timer
	var pending string
	fire := make(chan struct{}, 1)

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if len(w.exts) > 0 && !w.exts[filepath.Ext(ev.Name)] {
				continue
			}
			pending = ev.Name
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			if w.OnChange != nil {
				w.OnChange(pending)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return err
		case <-stop:
			return w.fs.Close()
		}
	}
}
