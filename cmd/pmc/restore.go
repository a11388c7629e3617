package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRestoreCmd creates the restore command. A nil confirm reads the answer
// from stdin.
func newRestoreCmd(confirm Confirmer) *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "restore <version>",
		Short: "Restore prompts.md to a specific version",
		Long: `Replace prompts.md with its content at a previous version and commit the result.

Examples:
  pmc restore a1b2c3d             # Asks for confirmation
  pmc restore a1b2c3d --confirm   # No questions asked`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ask := confirm
			switch {
			case skipConfirm:
				ask = alwaysConfirm
			case ask == nil && isJSONMode(cmd):
				return errConfirmRequired(cmd)
			case ask == nil:
				ask = stdinConfirmer(cmd)
			}
			return runRestore(cmd, args[0], ask)
		},
	}

	cmd.Flags().BoolVar(&skipConfirm, "confirm", false, "Skip confirmation prompt")

	return cmd
}

func runRestore(cmd *cobra.Command, version string, confirm Confirmer) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	repo, err := a.requireRepo()
	if err != nil {
		return err
	}

	content, err := repo.Show(version, a.documentRel())
	if err != nil {
		a.printer.Error(err)
		return err
	}

	if !confirm(fmt.Sprintf("Are you sure you want to restore prompts.md to version %q?", version)) {
		if a.printer.IsJSON() {
			return a.printer.Success(map[string]any{"status": "cancelled", "version": version})
		}
		a.printer.Done("Restore cancelled.")
		return nil
	}

	if err := a.storage.WriteDocument(content); err != nil {
		a.printer.Error(err)
		return err
	}
	if _, err := a.storage.Sync(); err != nil {
		a.printer.Error(err)
		return err
	}
	if err := a.storage.Commit("Restore to version " + version); err != nil {
		a.printer.Warn("restored, but commit failed: %v", err)
	}

	if a.printer.IsJSON() {
		return a.printer.Success(map[string]any{"status": "restored", "version": version})
	}
	a.printer.Done("Restored prompts.md to version %q", version)
	return nil
}
