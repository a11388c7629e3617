package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/pmc/internal/prompt"
)

// newEditCmd creates the edit command.
func newEditCmd() *cobra.Command {
	var titleFlag string

	cmd := &cobra.Command{
		Use:     "edit",
		Aliases: []string{"e"},
		Short:   "Edit prompts (edit prompts.md directly)",
		Long: `Show where prompts.md lives, optionally locating a prompt by title.

Examples:
  pmc edit                   # Show the file location
  pmc edit --title docker    # Also report the first title containing "docker"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEdit(cmd, titleFlag)
		},
	}

	cmd.Flags().StringVar(&titleFlag, "title", "", "Find the first prompt whose title contains this text (case-insensitive)")

	return cmd
}

func runEdit(cmd *cobra.Command, titleQuery string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	document := a.storage.Paths().Document

	var found *prompt.Entry
	if titleQuery != "" {
		entries, err := a.entries(false)
		if err != nil {
			return err
		}
		found = findTitleContaining(entries, titleQuery)
	}

	if a.printer.IsJSON() {
		data := map[string]any{"file": document}
		if titleQuery != "" {
			data["query"] = titleQuery
			data["found"] = found != nil
			if found != nil {
				data["title"] = found.Title
			}
		}
		return a.printer.Success(data)
	}

	a.printer.Heading("Editing prompts")
	a.printer.Hint("Edit the prompts.md file directly with your favorite editor.")
	a.printer.Hint("File location: %s", document)
	if titleQuery == "" {
		return nil
	}
	if found != nil {
		a.printer.Done("Found prompt: %q", found.Title)
	} else {
		a.printer.Notice("No prompt found matching title: %q", titleQuery)
	}
	return nil
}

// findTitleContaining returns the first entry whose title contains query,
// ignoring case.
func findTitleContaining(entries []prompt.Entry, query string) *prompt.Entry {
	needle := strings.ToLower(query)
	for i := range entries {
		if strings.Contains(strings.ToLower(entries[i].Title), needle) {
			return &entries[i]
		}
	}
	return nil
}
