package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/pmc/internal/git"
	"github.com/gorewood/pmc/internal/output"
)

// newHistoryCmd creates the history command; "versions" is the same
// command under another name.
func newHistoryCmd(use, short string) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

Each change pmc records to prompts.md is a git commit in the storage
directory. Use the revision IDs with "pmc diff" and "pmc restore".

Examples:
  pmc ` + use + `           # Last 10 versions
  pmc ` + use + ` -c 30     # Last 30 versions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, count)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", 10, "Number of entries to show")

	return cmd
}

func runHistory(cmd *cobra.Command, count int) error {
	if count <= 0 {
		err := output.NewUserError("--count must be positive")
		newPrinter(cmd, output.ColorNever).Error(err)
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	repo, err := a.requireRepo()
	if err != nil {
		return err
	}

	revisions, err := repo.Log(count)
	if err != nil {
		a.printer.Error(err)
		return err
	}

	if a.printer.IsJSON() {
		if revisions == nil {
			revisions = []git.Revision{}
		}
		return a.printer.WriteJSON(map[string]any{"count": len(revisions), "revisions": revisions})
	}

	if len(revisions) == 0 {
		a.printer.Notice("No version history found.")
		return nil
	}

	a.printer.Heading("Prompt History (%d entries):\n", len(revisions))
	rows := make([][]string, 0, len(revisions))
	for _, rev := range revisions {
		rows = append(rows, []string{rev.ID, rev.Date, rev.Message})
	}
	a.printer.Table([]string{"REV", "DATE", "MESSAGE"}, rows)
	a.printer.Println()
	a.printer.Hint(`Pass a REV to "pmc diff" or "pmc restore".`)
	return nil
}
