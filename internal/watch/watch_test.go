package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorewood/pmc/internal/ledger"
)

func newTestStorage(t *testing.T, doc string) *ledger.Storage {
	t.Helper()
	s := ledger.NewStorage(ledger.DefaultPaths(t.TempDir()), nil, nil, ledger.WithWorkDir("/work"))
	require.NoError(t, s.Init())
	require.NoError(t, s.WriteDocument(doc))
	_, err := s.Sync()
	require.NoError(t, err)
	return s
}

// touch rewrites path and pushes its mtime forward so the change is visible
// even on filesystems with coarse timestamps.
func touch(t *testing.T, path, content string, offset time.Duration) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	future := time.Now().Add(offset)
	require.NoError(t, os.Chtimes(path, future, future))
}

func TestWatcher_ReconcilesEdits(t *testing.T) {
	storage := newTestStorage(t, "# A\nx\n# B\ny\n")
	docPath := storage.Paths().Document

	updates := make(chan Update, 4)
	w := New(docPath, storage,
		WithInterval(10*time.Millisecond),
		OnUpdate(func(u Update) { updates <- u }),
	)
	count, err := w.Start()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	touch(t, docPath, "# A\nx edited\n# C\nz\n", time.Minute)

	select {
	case u := <-updates:
		assert.Equal(t, 2, u.Entries)
		assert.Equal(t, []ledger.Change{
			{Title: "A", Kind: ledger.Modified},
			{Title: "C", Kind: ledger.Added},
			{Title: "B", Kind: ledger.Removed},
		}, u.Changes)
	case <-time.After(5 * time.Second):
		t.Fatal("no update received")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// The fingerprint was recorded, so a later sync has nothing to do.
	changes, err := storage.Sync()
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestWatcher_TouchWithoutEdit(t *testing.T) {
	storage := newTestStorage(t, "# A\nx\n")
	docPath := storage.Paths().Document

	updates := make(chan Update, 4)
	w := New(docPath, storage, WithInterval(10*time.Millisecond), OnUpdate(func(u Update) { updates <- u }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Same bytes, newer mtime: a pass runs but reconciles nothing.
	time.Sleep(30 * time.Millisecond)
	touch(t, docPath, "# A\nx\n", time.Minute)

	select {
	case u := <-updates:
		assert.Empty(t, u.Changes)
		assert.Equal(t, 1, u.Entries)
	case <-time.After(5 * time.Second):
		t.Fatal("no update received")
	}
}

func TestWatcher_MissingDocument(t *testing.T) {
	storage := newTestStorage(t, "# A\nx\n")
	w := New(filepath.Join(t.TempDir(), "gone.md"), storage)

	_, err := w.Start()
	require.Error(t, err)
	require.Error(t, w.Run(context.Background()))
}

func TestWatcher_RetriesAfterTransientError(t *testing.T) {
	storage := newTestStorage(t, "# A\nx\n")
	docPath := storage.Paths().Document

	updates := make(chan Update, 4)
	w := New(docPath, storage, WithInterval(10*time.Millisecond), OnUpdate(func(u Update) { updates <- u }))
	_, err := w.Start()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// Removing the file makes every tick fail; restoring it lets the next tick succeed.
	require.NoError(t, os.Remove(docPath))
	time.Sleep(50 * time.Millisecond)
	touch(t, docPath, "# A\nx\n# New\nbody\n", time.Minute)

	select {
	case u := <-updates:
		assert.Equal(t, []ledger.Change{{Title: "New", Kind: ledger.Added}}, u.Changes)
	case <-time.After(5 * time.Second):
		t.Fatal("no update received after the file came back")
	}
}
