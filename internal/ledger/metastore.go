package ledger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gorewood/pmc/internal/prompt"
)

// TimestampLayout is the stored form of created/updated: UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Record is one line of the metadata store.
type Record struct {
	Title   string `json:"title"`
	Created string `json:"created"`
	Updated string `json:"updated"`
	Cwd     string `json:"cwd"`
}

// Index is the in-memory metadata store: title to provenance, in insertion order.
type Index struct {
	order   []string
	byTitle map[string]prompt.SystemMeta
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byTitle: make(map[string]prompt.SystemMeta)}
}

// Get returns the provenance stored for title.
func (idx *Index) Get(title string) (prompt.SystemMeta, bool) {
	meta, ok := idx.byTitle[title]
	return meta, ok
}

// Set stores meta under title. New titles are appended to the order.
func (idx *Index) Set(title string, meta prompt.SystemMeta) {
	if _, ok := idx.byTitle[title]; !ok {
		idx.order = append(idx.order, title)
	}
	idx.byTitle[title] = meta
}

// Delete removes title.
func (idx *Index) Delete(title string) {
	if _, ok := idx.byTitle[title]; !ok {
		return
	}
	delete(idx.byTitle, title)
	idx.order = slices.DeleteFunc(idx.order, func(t string) bool { return t == title })
}

// Titles returns a copy of the stored titles in order.
func (idx *Index) Titles() []string {
	return slices.Clone(idx.order)
}

// Len returns the number of records.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Records returns the index as store records, in order.
func (idx *Index) Records() []Record {
	records := make([]Record, 0, len(idx.order))
	for _, title := range idx.order {
		meta := idx.byTitle[title]
		records = append(records, Record{
			Title:   title,
			Created: meta.Created,
			Updated: meta.Updated,
			Cwd:     meta.Cwd,
		})
	}
	return records
}

// MetaStore persists an Index as JSON lines.
type MetaStore struct {
	path   string
	logger *slog.Logger
}

// NewMetaStore returns a store backed by path.
func NewMetaStore(path string, logger *slog.Logger) *MetaStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MetaStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *MetaStore) Path() string {
	return s.path
}

// Load reads the store. A missing file is an empty store. Lines that are not
// valid JSON, or have no title, are logged and skipped; a title seen twice
// keeps the later record.
func (s *MetaStore) Load() (*Index, error) {
	data, err := readOptional(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata store: %w", err)
	}

	idx := NewIndex()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			s.logger.Warn("invalid JSON line in metadata store", "line", lineNo, "error", err)
			continue
		}
		if rec.Title == "" {
			s.logger.Warn("metadata record without title", "line", lineNo)
			continue
		}
		idx.Set(rec.Title, prompt.SystemMeta{Created: rec.Created, Updated: rec.Updated, Cwd: rec.Cwd})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning metadata store: %w", err)
	}
	return idx, nil
}

// Save rewrites the whole store from idx.
func (s *MetaStore) Save(idx *Index) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, rec := range idx.Records() {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encoding record %q: %w", rec.Title, err)
		}
	}
	if err := atomicWrite(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("writing metadata store: %w", err)
	}
	return nil
}
