package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/pmc/internal/output"
	"github.com/gorewood/pmc/internal/prompt"
)

// newShowCmd creates the show command.
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <title>",
		Short: "Show full content of a prompt by exact title",
		Long: `Show the full content and metadata of the prompt whose title matches exactly.

Examples:
  pmc show "docker node.js setup"
  pmc show "docker node.js setup" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}
}

func runShow(cmd *cobra.Command, title string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	entries, err := a.entries(false)
	if err != nil {
		return err
	}

	entry, ok := prompt.Find(entries, title)
	if !ok {
		err := output.NewUserError(fmt.Sprintf("no prompt found with exact title: %q", title))
		a.printer.Error(err)
		a.printer.Hint(`Use "pmc list --only-titles" to see available titles`)
		a.printer.Hint(`Or use "pmc search --title <pattern>" for partial matches`)
		return err
	}

	if a.printer.IsJSON() {
		return a.printer.WriteJSON(entry)
	}
	outputEntry(a.printer, entry)
	return nil
}
