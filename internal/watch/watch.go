// Package watch re-runs an export whenever its input file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher runs a callback each time a file is written.
type Watcher struct {
	Path     string
	Debounce time.Duration
	Log      *zap.Logger
}

// New returns a Watcher for path with the default debounce.
func New(path string, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{Path: path, Debounce: DefaultDebounce, Log: log}
}

// relevant reports whether an event touches the watched file. Sibling .bin
// files count too, since .gltf documents keep their buffers beside them.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if name == filepath.Clean(w.Path) {
		return true
	}
	return strings.EqualFold(filepath.Ext(w.Path), ".gltf") && strings.EqualFold(filepath.Ext(name), ".bin")
}

// Run calls fn once, then again after every change to the file, until ctx
// is done. Errors from fn are logged and do not stop the watch.
func (w *Watcher) Run(ctx context.Context, fn func() error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	dir := filepath.Dir(w.Path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.run(fn)

	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				w.Log.Debug("change detected", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
				timer.Reset(w.Debounce)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.Log.Warn("watch error", zap.Error(err))
		case <-timer.C:
			w.run(fn)
		}
	}
}

func (w *Watcher) run(fn func() error) {
	if err := fn(); err != nil {
		w.Log.Error("export failed", zap.String("input", w.Path), zap.Error(err))
	}
}
