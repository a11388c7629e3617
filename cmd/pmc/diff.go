package main

import (
	"strings"

	"github.com/spf13/cobra"
)

// newDiffCmd creates the diff command.
func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [version1] [version2]",
		Short: "Show differences between versions of prompts.md",
		Long: `Show how prompts.md changed between two versions.

version1 defaults to the previous commit (HEAD~1) and version2 to the latest
(HEAD).

Examples:
  pmc diff                  # Last change
  pmc diff a1b2c3d          # From a1b2c3d to the latest version
  pmc diff a1b2c3d e4f5a6b  # Between two versions`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var from, to string
			if len(args) > 0 {
				from = args[0]
			}
			if len(args) > 1 {
				to = args[1]
			}
			return runDiff(cmd, from, to)
		},
	}
}

func runDiff(cmd *cobra.Command, from, to string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	repo, err := a.requireRepo()
	if err != nil {
		return err
	}

	diff, err := repo.Diff(from, to, a.documentRel())
	if err != nil {
		a.printer.Error(err)
		return err
	}

	if a.printer.IsJSON() {
		return a.printer.WriteJSON(map[string]any{"from": from, "to": to, "diff": diff})
	}

	if strings.TrimSpace(diff) == "" {
		a.printer.Notice("No differences found.")
		return nil
	}
	a.printer.Heading("Diff:")
	a.printer.Println(diff)
	return nil
}
