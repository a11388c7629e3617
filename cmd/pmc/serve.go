package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	pmcmcp "github.com/gorewood/pmc/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run pmc as a Model Context Protocol (MCP) server over stdio.

This exposes your prompts as read-only MCP tools that any MCP-capable agent
environment can use.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "pmc": {
        "command": "pmc",
        "args": ["serve"]
      }
    }
  }

Available tools: list_prompts, search_prompts, show_prompt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			server := pmcmcp.NewServer(buildVersion(), a.storage)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
