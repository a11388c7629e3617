// Package watch re-runs metadata reconciliation whenever prompts.md changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gorewood/pmc/internal/ledger"
	"github.com/gorewood/pmc/internal/prompt"
)

// Store is the part of ledger.Storage the watcher drives.
type Store interface {
	ParseDocument() ([]prompt.Entry, error)
	Reconcile(oldEntries, newEntries []prompt.Entry) ([]ledger.Change, error)
	Record() error
}

// Update describes one completed pass.
type Update struct {
	At      time.Time
	Entries int
	Changes []ledger.Change
}

// Watcher polls the document's modification time and also wakes on
// filesystem events for its directory.
type Watcher struct {
	path     string
	store    Store
	interval time.Duration
	logger   *slog.Logger
	onUpdate func(Update)

	last    []prompt.Entry
	modTime time.Time
	size    int64
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the polling interval. Defaults to one second.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithLogger sets the logger for tick errors and events.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// OnUpdate registers fn to run after each pass that saw a changed file.
func OnUpdate(fn func(Update)) Option {
	return func(w *Watcher) { w.onUpdate = fn }
}

// New returns a Watcher for the document at path.
func New(path string, store Store, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		store:    store,
		interval: time.Second,
		logger:   slog.New(slog.DiscardHandler),
		onUpdate: func(Update) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start takes the initial snapshot and returns how many entries it holds.
// Run calls it when it has not been called yet.
func (w *Watcher) Start() (int, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", w.path, err)
	}
	entries, err := w.store.ParseDocument()
	if err != nil {
		return 0, err
	}
	w.last = entries
	w.modTime = info.ModTime()
	w.size = info.Size()
	return len(entries), nil
}

// Run watches until ctx is cancelled. Errors during a pass are logged and the
// pass is retried on the next wake-up. Returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if w.modTime.IsZero() {
		if _, err := w.Start(); err != nil {
			return err
		}
	}

	var events chan fsnotify.Event
	var errs chan error
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("filesystem events unavailable, polling only", "error", err)
	} else {
		defer func() { _ = fsw.Close() }()
		if err := fsw.Add(filepath.Dir(w.path)); err != nil {
			w.logger.Warn("cannot watch directory, polling only", "dir", filepath.Dir(w.path), "error", err)
		} else {
			events, errs = fsw.Events, fsw.Errors
		}
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.check()
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(event.Name) == w.path && !event.Has(fsnotify.Chmod) {
				w.logger.Debug("document event", "op", event.Op.String())
				w.check()
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.logger.Warn("filesystem watcher error", "error", err)
		}
	}
}

// check runs one pass if the document's mtime advanced or its size changed.
func (w *Watcher) check() {
	info, err := os.Stat(w.path)
	if err != nil {
		w.logger.Debug("error checking file", "path", w.path, "error", err)
		return
	}
	if !info.ModTime().After(w.modTime) && info.Size() == w.size {
		return
	}

	current, err := w.store.ParseDocument()
	if err != nil {
		w.logger.Debug("error reading document", "error", err)
		return
	}
	changes, err := w.store.Reconcile(w.last, current)
	if err != nil {
		w.logger.Debug("error updating metadata", "error", err)
		return
	}

	w.last = current
	w.modTime = info.ModTime()
	w.size = info.Size()

	if err := w.store.Record(); err != nil {
		w.logger.Warn("cannot record fingerprint", "error", err)
	}

	w.onUpdate(Update{At: time.Now(), Entries: len(current), Changes: changes})
}
