package ledger

import (
	"log/slog"
	"os"
	"time"

	"github.com/gorewood/pmc/internal/prompt"
)

// ChangeKind classifies a reconciled title.
type ChangeKind int

const (
	// Added means the title had no store record.
	Added ChangeKind = iota
	// Modified means the title's content differs from the previous entry set.
	Modified
	// Removed means the title left the document and its record was deleted.
	Removed
)

// String returns the lowercase kind name.
func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k ChangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Change is one title touched by a reconciliation pass.
type Change struct {
	Title string     `json:"title"`
	Kind  ChangeKind `json:"kind"`
}

// String renders the title, suffixed with " (deleted)" for removals.
func (c Change) String() string {
	if c.Kind == Removed {
		return c.Title + " (deleted)"
	}
	return c.Title
}

// Titles renders each change with String.
func Titles(changes []Change) []string {
	titles := make([]string, len(changes))
	for i, c := range changes {
		titles[i] = c.String()
	}
	return titles
}

// Reconciler keeps the metadata store in step with the document.
type Reconciler struct {
	store   *MetaStore
	now     func() time.Time
	workDir func() (string, error)
	logger  *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithClock sets the time source for created/updated stamps.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithWorkDir fixes the directory recorded as cwd.
func WithWorkDir(dir string) Option {
	return func(r *Reconciler) {
		r.workDir = func() (string, error) { return dir, nil }
	}
}

// WithLogger sets the reconciler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = logger }
}

// NewReconciler returns a Reconciler over store.
func NewReconciler(store *MetaStore, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:   store,
		now:     time.Now,
		workDir: os.Getwd,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile diffs oldEntries against newEntries and updates the store.
//
// A title without a record is Added with created = updated = now. A title
// with a record whose content differs from the same title in oldEntries is
// Modified: updated and cwd are refreshed, created is kept. Titles missing
// from oldEntries, or with identical content, are left alone. Records whose
// title is absent from newEntries are Removed.
//
// The store is rewritten, in newEntries order, only when something changed.
func (r *Reconciler) Reconcile(oldEntries, newEntries []prompt.Entry) ([]Change, error) {
	idx, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	now := FormatTimestamp(r.now())
	cwd, err := r.workDir()
	if err != nil {
		r.logger.Warn("cannot determine working directory", "error", err)
		cwd = ""
	}

	oldContent := make(map[string]string, len(oldEntries))
	for _, e := range oldEntries {
		if _, seen := oldContent[e.Title]; !seen {
			oldContent[e.Title] = e.Content
		}
	}

	var changes []Change
	newTitles := make(map[string]bool, len(newEntries))
	for _, e := range newEntries {
		newTitles[e.Title] = true

		existing, ok := idx.Get(e.Title)
		if !ok {
			idx.Set(e.Title, prompt.SystemMeta{Created: now, Updated: now, Cwd: cwd})
			changes = append(changes, Change{Title: e.Title, Kind: Added})
			continue
		}
		if prev, found := oldContent[e.Title]; found && prev != e.Content {
			existing.Updated = now
			existing.Cwd = cwd
			idx.Set(e.Title, existing)
			changes = append(changes, Change{Title: e.Title, Kind: Modified})
		}
	}

	for _, title := range idx.Titles() {
		if !newTitles[title] {
			idx.Delete(title)
			changes = append(changes, Change{Title: title, Kind: Removed})
		}
	}

	if len(changes) == 0 {
		return nil, nil
	}

	ordered := NewIndex()
	for _, e := range newEntries {
		if meta, ok := idx.Get(e.Title); ok {
			ordered.Set(e.Title, meta)
		}
	}
	if err := r.store.Save(ordered); err != nil {
		return nil, err
	}

	r.logger.Debug("metadata reconciled", "changes", len(changes), "records", ordered.Len())
	return changes, nil
}
