package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/pmc/internal/ledger"
	"github.com/gorewood/pmc/internal/prompt"
)

// --- List tool ---

// ListInput is the input for the list_prompts tool.
type ListInput struct {
	WithContent bool `json:"with_content,omitempty" jsonschema:"include each prompt's full content"`
}

// ListOutput is the output for the list_prompts tool.
type ListOutput struct {
	Count   int            `json:"count"   jsonschema:"number of prompts"`
	Prompts []PromptResult `json:"prompts" jsonschema:"prompts in document order"`
}

func handleList(storage *ledger.Storage) mcp.ToolHandlerFor[ListInput, ListOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ListInput) (*mcp.CallToolResult, ListOutput, error) {
		entries, err := currentEntries(storage)
		if err != nil {
			return nil, ListOutput{}, err
		}

		limit := 0
		if input.WithContent {
			limit = -1
		}
		return nil, ListOutput{Count: len(entries), Prompts: toPromptResults(entries, limit)}, nil
	}
}

// --- Show tool ---

// ShowInput is the input for the show_prompt tool.
type ShowInput struct {
	Title string `json:"title" jsonschema:"exact prompt title"`
}

// ShowOutput is the output for the show_prompt tool.
type ShowOutput struct {
	Prompt PromptResult `json:"prompt" jsonschema:"the matching prompt"`
}

func handleShow(storage *ledger.Storage) mcp.ToolHandlerFor[ShowInput, ShowOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ShowInput) (*mcp.CallToolResult, ShowOutput, error) {
		if input.Title == "" {
			return nil, ShowOutput{}, errors.New("title is required")
		}

		entries, err := currentEntries(storage)
		if err != nil {
			return nil, ShowOutput{}, err
		}

		entry, ok := prompt.Find(entries, input.Title)
		if !ok {
			return nil, ShowOutput{}, fmt.Errorf("no prompt found with exact title: %q", input.Title)
		}
		return nil, ShowOutput{Prompt: toPromptResult(entry, -1)}, nil
	}
}
