package mcp

import (
	"fmt"

	"github.com/gorewood/pmc/internal/ledger"
	"github.com/gorewood/pmc/internal/prompt"
)

// PromptResult is a prompt as returned by the tools.
type PromptResult struct {
	Title   string         `json:"title"             jsonschema:"prompt title"`
	Content string         `json:"content,omitempty" jsonschema:"prompt body, possibly truncated"`
	Created string         `json:"created,omitempty" jsonschema:"creation timestamp"`
	Updated string         `json:"updated,omitempty" jsonschema:"last update timestamp"`
	Cwd     string         `json:"cwd,omitempty"     jsonschema:"working directory of the last change"`
	Meta    map[string]any `json:"meta,omitempty"    jsonschema:"user metadata from the [meta] block"`
}

// currentEntries syncs the metadata store with any manual edits, then returns
// the document's entries with provenance attached.
func currentEntries(storage *ledger.Storage) ([]prompt.Entry, error) {
	if _, err := storage.Sync(); err != nil {
		return nil, fmt.Errorf("synchronizing metadata: %w", err)
	}
	entries, err := storage.Entries()
	if err != nil {
		return nil, fmt.Errorf("reading prompts: %w", err)
	}
	return entries, nil
}

// toPromptResult converts an entry; contentLimit follows prompt.Truncate and
// zero drops the content.
func toPromptResult(e prompt.Entry, contentLimit int) PromptResult {
	result := PromptResult{
		Title:   e.Title,
		Created: e.SystemMeta.Created,
		Updated: e.SystemMeta.Updated,
		Cwd:     e.SystemMeta.Cwd,
	}
	if contentLimit != 0 {
		result.Content = prompt.Truncate(e.Content, contentLimit)
	}
	if len(e.UserMeta) > 0 {
		result.Meta = make(map[string]any, len(e.UserMeta))
		for _, f := range e.UserMeta {
			if f.List {
				result.Meta[f.Key] = append([]string{}, f.Values...)
			} else {
				result.Meta[f.Key] = f.Value()
			}
		}
	}
	return result
}

func toPromptResults(entries []prompt.Entry, contentLimit int) []PromptResult {
	results := make([]PromptResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, toPromptResult(e, contentLimit))
	}
	return results
}
