package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/pmc/internal/ledger"
	"github.com/gorewood/pmc/internal/output"
	"github.com/gorewood/pmc/internal/prompt"
)

// newGenerateCmd creates the generate command.
func newGenerateCmd() *cobra.Command {
	var sample bool

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"g"},
		Short:   "Generate sample prompts",
		Long: `Replace the welcome document with four sample prompts.

Samples are only written while prompts.md holds nothing but the welcome
prompt; otherwise generate exits with code 3 and changes nothing.

Examples:
  pmc generate --sample`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, sample)
		},
	}

	cmd.Flags().BoolVar(&sample, "sample", false, "Generate predefined sample prompts")

	return cmd
}

func runGenerate(cmd *cobra.Command, sample bool) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if !sample {
		if a.printer.IsJSON() {
			return a.printer.Success(map[string]any{"status": "skipped", "reason": "use --sample to generate sample prompts"})
		}
		a.printer.Notice("Use --sample flag to generate predefined sample prompts.")
		a.printer.Hint("Example: pmc generate --sample")
		return nil
	}

	entries, err := a.entries(true)
	if err != nil {
		return err
	}
	if !prompt.IsPristine(entries) {
		err := output.NewConflictError("prompts.md already has content; sample prompts not added")
		a.printer.Error(err)
		a.printer.Hint("Run \"pmc create\" to see the prompt format.")
		return err
	}

	if err := a.storage.WriteDocument(prompt.SampleDocument()); err != nil {
		a.printer.Error(err)
		return err
	}
	changes, err := a.storage.Sync()
	if err != nil {
		a.printer.Error(err)
		return err
	}
	a.commitChanges(changes)

	document := a.storage.Paths().Document
	if a.printer.IsJSON() {
		return a.printer.Success(map[string]any{"status": "generated", "file": document, "count": addedCount(changes)})
	}
	a.printer.Done("Generated sample prompts successfully.")
	a.printer.Hint("Edit prompts at: %s", document)
	return nil
}

func addedCount(changes []ledger.Change) int {
	n := 0
	for _, c := range changes {
		if c.Kind == ledger.Added {
			n++
		}
	}
	return n
}
