package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gorewood/pmc/internal/prompt"
)

// Fingerprint returns the hex sha256 of data.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Detector runs a reconciliation pass whenever the document bytes differ
// from the last recorded fingerprint.
type Detector struct {
	document    string
	fingerprint string
	store       *MetaStore
	reconciler  *Reconciler
	logger      *slog.Logger
}

// NewDetector returns a Detector for the document at documentPath, keeping
// its fingerprint at fingerprintPath.
func NewDetector(documentPath, fingerprintPath string, store *MetaStore, reconciler *Reconciler, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Detector{
		document:    documentPath,
		fingerprint: fingerprintPath,
		store:       store,
		reconciler:  reconciler,
		logger:      logger,
	}
}

// Sync reconciles the store with the document if the document changed.
//
// The previous content of each known title is not stored, so the old side of
// the pass is built from store titles with empty content. Every known title
// therefore reports Modified whenever the fingerprint changes.
func (d *Detector) Sync() ([]Change, error) {
	data, err := os.ReadFile(d.document)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	current := Fingerprint(data)
	stored, err := d.storedFingerprint()
	if err != nil {
		return nil, err
	}
	if current == stored {
		return nil, nil
	}

	idx, err := d.store.Load()
	if err != nil {
		return nil, err
	}
	old := make([]prompt.Entry, 0, idx.Len())
	for _, title := range idx.Titles() {
		old = append(old, prompt.Entry{Title: title})
	}

	changes, err := d.reconciler.Reconcile(old, prompt.Parse(string(data), d.logger))
	if err != nil {
		return nil, err
	}
	if err := d.write(current); err != nil {
		return nil, err
	}

	d.logger.Debug("document changed", "fingerprint", current[:12], "changes", len(changes))
	return changes, nil
}

// Record stores the fingerprint of the document as it is now.
func (d *Detector) Record() error {
	data, err := os.ReadFile(d.document)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	return d.write(Fingerprint(data))
}

func (d *Detector) storedFingerprint() (string, error) {
	data, err := readOptional(d.fingerprint)
	if err != nil {
		return "", fmt.Errorf("reading fingerprint: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (d *Detector) write(sum string) error {
	if err := atomicWrite(d.fingerprint, []byte(sum)); err != nil {
		return fmt.Errorf("writing fingerprint: %w", err)
	}
	return nil
}
