package main

import (
	"github.com/spf13/cobra"
)

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	var onlyTitles bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all prompts",
		Long: `List every prompt in document order.

Examples:
  pmc list                 # Detailed view with truncated content
  pmc list --only-titles   # One line per prompt with its creation date
  pmc list --json          # All prompts with metadata as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, onlyTitles)
		},
	}

	cmd.Flags().BoolVar(&onlyTitles, "only-titles", false, "Show only prompt titles (compact view)")

	return cmd
}

func runList(cmd *cobra.Command, onlyTitles bool) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	entries, err := a.entries(false)
	if err != nil {
		return err
	}

	if a.printer.IsJSON() {
		return a.printer.WriteJSON(promptsJSON{Count: len(entries), Prompts: entries})
	}

	if onlyTitles {
		outputTitles(a.printer, entries)
		return nil
	}
	outputEntries(a.printer, entries, a.cfg.Search.ContentMaxLength)
	return nil
}
