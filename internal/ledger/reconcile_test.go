package ledger

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorewood/pmc/internal/prompt"
)

// stepClock advances by step on every call.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newClock() *stepClock {
	return &stepClock{t: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC), step: time.Minute}
}

func entries(pairs ...string) []prompt.Entry {
	var out []prompt.Entry
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, prompt.Entry{Title: pairs[i], Content: pairs[i+1]})
	}
	return out
}

func newTestReconciler(t *testing.T) (*Reconciler, *MetaStore) {
	t.Helper()
	store := newTestStore(t)
	return NewReconciler(store, WithClock(newClock().Now), WithWorkDir("/work")), store
}

func TestReconcile_AddThenModify(t *testing.T) {
	r, store := newTestReconciler(t)

	changes, err := r.Reconcile(nil, entries("A", "x"))
	require.NoError(t, err)
	assert.Equal(t, []Change{{Title: "A", Kind: Added}}, changes)

	changes, err = r.Reconcile(entries("A", "x"), entries("A", "y"))
	require.NoError(t, err)
	assert.Equal(t, []Change{{Title: "A", Kind: Modified}}, changes)

	idx, err := store.Load()
	require.NoError(t, err)
	meta, ok := idx.Get("A")
	require.True(t, ok)
	assert.Equal(t, "2026-01-15T09:01:00.000Z", meta.Created)
	assert.Equal(t, "2026-01-15T09:02:00.000Z", meta.Updated)
	assert.NotEqual(t, meta.Created, meta.Updated)
	assert.Equal(t, "/work", meta.Cwd)
}

func TestReconcile_Remove(t *testing.T) {
	r, store := newTestReconciler(t)

	_, err := r.Reconcile(nil, entries("A", "x"))
	require.NoError(t, err)

	changes, err := r.Reconcile(entries("A", "x"), nil)
	require.NoError(t, err)
	assert.Equal(t, []Change{{Title: "A", Kind: Removed}}, changes)
	assert.Equal(t, []string{"A (deleted)"}, Titles(changes))

	idx, err := store.Load()
	require.NoError(t, err)
	_, ok := idx.Get("A")
	assert.False(t, ok)
}

func TestReconcile_Idempotent(t *testing.T) {
	r, _ := newTestReconciler(t)
	doc := entries("A", "x", "B", "y")

	first, err := r.Reconcile(nil, doc)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := r.Reconcile(doc, doc)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestReconcile_NoChangeLeavesStoreUntouched(t *testing.T) {
	r, store := newTestReconciler(t)

	changes, err := r.Reconcile(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, changes)

	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "store file must not be written")
}

func TestReconcile_UnknownOldEntryIsNotModified(t *testing.T) {
	r, _ := newTestReconciler(t)

	_, err := r.Reconcile(nil, entries("A", "x"))
	require.NoError(t, err)

	// The previous set does not mention A, so no content comparison is possible.
	changes, err := r.Reconcile(entries("B", "z"), entries("A", "changed"))
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestReconcile_MixedChangesAndOrder(t *testing.T) {
	r, store := newTestReconciler(t)

	_, err := r.Reconcile(nil, entries("A", "1", "B", "2", "C", "3"))
	require.NoError(t, err)

	changes, err := r.Reconcile(
		entries("A", "1", "B", "2", "C", "3"),
		entries("D", "4", "C", "3", "A", "1 edited"),
	)
	require.NoError(t, err)
	assert.Equal(t, []Change{
		{Title: "D", Kind: Added},
		{Title: "A", Kind: Modified},
		{Title: "B", Kind: Removed},
	}, changes)

	idx, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "C", "A"}, idx.Titles(), "records follow document order")
}

func TestReconcile_DuplicateTitlesCollapse(t *testing.T) {
	r, store := newTestReconciler(t)

	_, err := r.Reconcile(nil, entries("A", "1", "A", "2"))
	require.NoError(t, err)

	idx, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, idx.Titles())
}

func TestChange_JSON(t *testing.T) {
	data, err := json.Marshal(Change{Title: "A", Kind: Removed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"A","kind":"removed"}`, string(data))
}
