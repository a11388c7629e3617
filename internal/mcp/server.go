// Package mcp provides a Model Context Protocol server for pmc.
// It exposes read-only prompt lookups as MCP tools that any MCP-capable agent
// can use.
package mcp

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/pmc/internal/ledger"
)

// NewServer creates an MCP server with all pmc tools registered.
func NewServer(version string, storage *ledger.Storage) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pmc",
		Version: version,
	}, nil)
	registerTools(server, storage, time.Now)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// registerTools adds all pmc tools to the server.
func registerTools(server *mcp.Server, storage *ledger.Storage, now func() time.Time) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_prompts",
		Description: "List every prompt in prompts.md with its creation date and metadata.",
		Annotations: readOnlyAnnotations(),
	}, handleList(storage))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_prompts",
		Description: "Search prompts by directory, content regex, title regex, key=value metadata and creation date. All given criteria must match.",
		Annotations: readOnlyAnnotations(),
	}, handleSearch(storage, now))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "show_prompt",
		Description: "Return the full content of the prompt whose title matches exactly.",
		Annotations: readOnlyAnnotations(),
	}, handleShow(storage))
}
