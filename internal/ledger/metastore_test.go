package ledger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorewood/pmc/internal/prompt"
)

func newTestStore(t *testing.T) *MetaStore {
	t.Helper()
	return NewMetaStore(filepath.Join(t.TempDir(), MetaStoreFile), nil)
}

func indexMap(idx *Index) map[string]prompt.SystemMeta {
	out := make(map[string]prompt.SystemMeta, idx.Len())
	for _, title := range idx.Titles() {
		meta, _ := idx.Get(title)
		out[title] = meta
	}
	return out
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 890_000_000, time.FixedZone("X", 2*3600))
	assert.Equal(t, "2026-03-04T03:06:07.890Z", FormatTimestamp(ts))
}

func TestMetaStore_LoadMissingFile(t *testing.T) {
	idx, err := newTestStore(t).Load()
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestMetaStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	idx := NewIndex()
	idx.Set("Docker Setup", prompt.SystemMeta{Created: "2024-01-15T10:00:00.000Z", Updated: "2024-01-16T10:00:00.000Z", Cwd: "/project1"})
	idx.Set("Git <Workflow> & more", prompt.SystemMeta{Created: "2024-02-01T00:00:00.000Z", Updated: "2024-02-01T00:00:00.000Z", Cwd: "/project2"})
	idx.Set("no provenance", prompt.SystemMeta{})

	require.NoError(t, store.Save(idx))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, indexMap(idx), indexMap(loaded))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"title":"Git <Workflow> & more"`)
	assert.Equal(t, 3, bytes.Count(raw, []byte("\n")))
}

func TestMetaStore_SkipsBadLines(t *testing.T) {
	var logs bytes.Buffer
	path := filepath.Join(t.TempDir(), MetaStoreFile)
	content := `{"title":"A","created":"c1","updated":"u1","cwd":"/a"}
not json

{"created":"orphan"}
{"title":"B","created":"c2","updated":"u2","cwd":"/b"}
{"title":"A","created":"c3","updated":"u3","cwd":"/a2"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store := NewMetaStore(path, slog.New(slog.NewTextHandler(&logs, nil)))
	idx, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, idx.Titles())
	a, _ := idx.Get("A")
	assert.Equal(t, prompt.SystemMeta{Created: "c3", Updated: "u3", Cwd: "/a2"}, a)
	assert.Contains(t, logs.String(), "invalid JSON line in metadata store")
	assert.Contains(t, logs.String(), "line=2")
	assert.Contains(t, logs.String(), "metadata record without title")
}

func TestIndex_SetDelete(t *testing.T) {
	idx := NewIndex()
	idx.Set("a", prompt.SystemMeta{Cwd: "1"})
	idx.Set("b", prompt.SystemMeta{Cwd: "2"})
	idx.Set("a", prompt.SystemMeta{Cwd: "3"})

	assert.Equal(t, []string{"a", "b"}, idx.Titles())
	meta, ok := idx.Get("a")
	require.True(t, ok)
	assert.Equal(t, "3", meta.Cwd)

	idx.Delete("a")
	idx.Delete("missing")
	assert.Equal(t, []string{"b"}, idx.Titles())
	_, ok = idx.Get("a")
	assert.False(t, ok)
}
