// Package ledger keeps the metadata store and fingerprint of prompts.md in
// step with the document.
package ledger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorewood/pmc/internal/config"
	"github.com/gorewood/pmc/internal/output"
	"github.com/gorewood/pmc/internal/prompt"
)

// File names inside the storage directory.
const (
	DocumentFile    = "prompts.md"
	MetaStoreFile   = "prompts-system-meta.jsonl"
	FingerprintFile = ".prompts-hash"
)

// ToolFiles are the files owned by pmc that never go into version control.
var ToolFiles = []string{MetaStoreFile, FingerprintFile, config.FileName}

// Paths locates the files pmc works with.
type Paths struct {
	Dir         string
	Document    string
	MetaStore   string
	Fingerprint string
	Config      string
}

// DefaultPaths returns the standard layout under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Dir:         dir,
		Document:    filepath.Join(dir, DocumentFile),
		MetaStore:   filepath.Join(dir, MetaStoreFile),
		Fingerprint: filepath.Join(dir, FingerprintFile),
		Config:      filepath.Join(dir, config.FileName),
	}
}

// VersionControl records document revisions.
// Storage works without it; a nil VersionControl disables commits.
type VersionControl interface {
	Commit(message string, paths ...string) error
}

// Storage is the entry point commands use to read prompts.
type Storage struct {
	paths      Paths
	vcs        VersionControl
	store      *MetaStore
	reconciler *Reconciler
	detector   *Detector
	logger     *slog.Logger
}

// NewStorage returns a Storage over paths. vcs may be nil.
// Options are applied to the underlying Reconciler.
func NewStorage(paths Paths, vcs VersionControl, logger *slog.Logger, opts ...Option) *Storage {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store := NewMetaStore(paths.MetaStore, logger)
	reconciler := NewReconciler(store, append([]Option{WithLogger(logger)}, opts...)...)
	return &Storage{
		paths:      paths,
		vcs:        vcs,
		store:      store,
		reconciler: reconciler,
		detector:   NewDetector(paths.Document, paths.Fingerprint, store, reconciler, logger),
		logger:     logger,
	}
}

// Paths returns the file layout.
func (s *Storage) Paths() Paths {
	return s.paths
}

// SetVersionControl replaces the version-control backend; nil disables it.
func (s *Storage) SetVersionControl(vcs VersionControl) {
	s.vcs = vcs
}

// Init creates the storage directory and any missing core file: the welcome
// document, an empty metadata store and a default config file.
// Failures are system errors.
func (s *Storage) Init() error {
	if err := os.MkdirAll(s.paths.Dir, 0o755); err != nil {
		return output.NewSystemErrorWithCause("cannot create storage directory "+s.paths.Dir, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.paths.Document), 0o755); err != nil {
		return output.NewSystemErrorWithCause("cannot create document directory", err)
	}
	created, err := writeIfMissing(s.paths.Document, []byte(prompt.WelcomeDocument()))
	if err != nil {
		return output.NewSystemErrorWithCause("cannot create "+s.paths.Document, err)
	}
	if created {
		s.logger.Info("created document", "path", s.paths.Document)
	}

	if _, err := writeIfMissing(s.paths.MetaStore, nil); err != nil {
		return output.NewSystemErrorWithCause("cannot create "+s.paths.MetaStore, err)
	}

	defaults, err := config.Default().Marshal()
	if err != nil {
		return output.NewSystemErrorWithCause("cannot encode default config", err)
	}
	if _, err := writeIfMissing(s.paths.Config, defaults); err != nil {
		return output.NewSystemErrorWithCause("cannot create "+s.paths.Config, err)
	}
	return nil
}

// Sync runs the change detector. Read or write failures on core files are
// system errors.
func (s *Storage) Sync() ([]Change, error) {
	changes, err := s.detector.Sync()
	if err != nil {
		return nil, output.NewSystemErrorWithCause("cannot synchronize metadata", err)
	}
	return changes, nil
}

// Reconcile runs a pass between two known entry sets.
func (s *Storage) Reconcile(oldEntries, newEntries []prompt.Entry) ([]Change, error) {
	return s.reconciler.Reconcile(oldEntries, newEntries)
}

// Record stores the current document fingerprint.
func (s *Storage) Record() error {
	return s.detector.Record()
}

// ReadDocument returns the raw document.
func (s *Storage) ReadDocument() (string, error) {
	data, err := os.ReadFile(s.paths.Document)
	if err != nil {
		return "", output.NewSystemErrorWithCause("cannot read "+s.paths.Document, err)
	}
	return string(data), nil
}

// WriteDocument replaces the document atomically.
func (s *Storage) WriteDocument(content string) error {
	if err := atomicWrite(s.paths.Document, []byte(content)); err != nil {
		return output.NewSystemErrorWithCause("cannot write "+s.paths.Document, err)
	}
	return nil
}

// ParseDocument parses the document without provenance.
func (s *Storage) ParseDocument() ([]prompt.Entry, error) {
	doc, err := s.ReadDocument()
	if err != nil {
		return nil, err
	}
	return prompt.Parse(doc, s.logger), nil
}

// Entries parses the document and attaches provenance from the store.
// Titles without a record get empty provenance.
func (s *Storage) Entries() ([]prompt.Entry, error) {
	entries, err := s.ParseDocument()
	if err != nil {
		return nil, err
	}
	idx, err := s.store.Load()
	if err != nil {
		return nil, output.NewSystemErrorWithCause("cannot read metadata store", err)
	}
	for i := range entries {
		if meta, ok := idx.Get(entries[i].Title); ok {
			entries[i].SystemMeta = meta
		}
	}
	return entries, nil
}

// Commit records the document in version control. No-op without a backend.
func (s *Storage) Commit(message string) error {
	if s.vcs == nil {
		return nil
	}
	if err := s.vcs.Commit(message, s.documentRel()); err != nil {
		return fmt.Errorf("committing %s: %w", DocumentFile, err)
	}
	return nil
}

// CommitChanges commits the document with template applied to the changed
// titles. No-op when changes is empty.
func (s *Storage) CommitChanges(changes []Change, template string) error {
	if len(changes) == 0 {
		return nil
	}
	return s.Commit(config.FormatCommitMessage(template, strings.Join(Titles(changes), ", ")))
}

// documentRel is the document path relative to the storage directory, which
// is the repository root for version control.
func (s *Storage) documentRel() string {
	rel, err := filepath.Rel(s.paths.Dir, s.paths.Document)
	if err != nil || strings.HasPrefix(rel, "..") {
		return s.paths.Document
	}
	return rel
}
