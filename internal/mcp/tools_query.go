package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/pmc/internal/ledger"
	"github.com/gorewood/pmc/internal/query"
)

// SearchInput is the input for the search_prompts tool.
type SearchInput struct {
	Dir              string `json:"dir,omitempty"                jsonschema:"substring of the directory the prompt was last changed in"`
	DirInverse       bool   `json:"dir_inverse,omitempty"        jsonschema:"exclude prompts matching dir"`
	Text             string `json:"text,omitempty"               jsonschema:"case-insensitive regex over the content"`
	TextLiteral      bool   `json:"text_literal,omitempty"       jsonschema:"treat text as a literal string"`
	TextInverse      bool   `json:"text_inverse,omitempty"       jsonschema:"exclude prompts matching text"`
	Title            string `json:"title,omitempty"              jsonschema:"case-insensitive regex over the title"`
	Meta             string `json:"meta,omitempty"               jsonschema:"user metadata filter written as key=value"`
	MetaInverse      bool   `json:"meta_inverse,omitempty"       jsonschema:"exclude prompts matching meta"`
	DateAfter        string `json:"date_after,omitempty"         jsonschema:"created on or after: YYYY-MM-DD, MM/DD/YYYY, today, yesterday, '3 days ago'"`
	DateBefore       string `json:"date_before,omitempty"        jsonschema:"created on or before, same formats as date_after"`
	ContentMaxLength int    `json:"content_max_length,omitempty" jsonschema:"truncate content to this many characters (default 100, -1 for full)"`
}

// SearchOutput is the output for the search_prompts tool.
type SearchOutput struct {
	Count    int            `json:"count"              jsonschema:"number of matching prompts"`
	Prompts  []PromptResult `json:"prompts"            jsonschema:"matching prompts in document order"`
	Warnings []string       `json:"warnings,omitempty" jsonschema:"criteria that were ignored"`
}

const defaultContentMaxLength = 100

func handleSearch(storage *ledger.Storage, now func() time.Time) mcp.ToolHandlerFor[SearchInput, SearchOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
		opts := searchOptions(input)
		if opts.IsZero() {
			return nil, SearchOutput{}, errors.New("specify at least one of dir, text, title, meta, date_after or date_before")
		}

		entries, err := currentEntries(storage)
		if err != nil {
			return nil, SearchOutput{}, err
		}

		matched, warnings, err := query.Filter(entries, opts, now())
		if err != nil {
			return nil, SearchOutput{}, err
		}

		limit := input.ContentMaxLength
		if limit == 0 {
			limit = defaultContentMaxLength
		}
		return nil, SearchOutput{
			Count:    len(matched),
			Prompts:  toPromptResults(matched, limit),
			Warnings: warnings,
		}, nil
	}
}

func searchOptions(input SearchInput) query.Options {
	return query.Options{
		Dir:         input.Dir,
		DirInverse:  input.DirInverse,
		Text:        input.Text,
		TextLiteral: input.TextLiteral,
		TextInverse: input.TextInverse,
		Title:       input.Title,
		Meta:        input.Meta,
		MetaInverse: input.MetaInverse,
		DateAfter:   input.DateAfter,
		DateBefore:  input.DateBefore,
	}
}
