package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/pmc/internal/config"
	"github.com/gorewood/pmc/internal/ledger"
	"github.com/gorewood/pmc/internal/output"
	"github.com/gorewood/pmc/internal/prompt"
	"github.com/gorewood/pmc/internal/setup"
)

// newUninstallCmd creates the uninstall command. A nil confirm reads the
// answer from stdin.
func newUninstallCmd(confirm Confirmer) *cobra.Command {
	var skipConfirm, dryRun bool

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Uninstall pmc from the system",
		Long: `Remove the pmc installation directory (~/.pmc-cli), the binary symlink
(~/.local/bin/pmc), the storage directory with all prompts, and the PATH lines
the installer added to ~/.bashrc, ~/.zshrc and ~/.profile.

Examples:
  pmc uninstall --dry-run   # Show what would be removed
  pmc uninstall             # Asks for confirmation
  pmc uninstall --confirm   # No questions asked`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ask := confirm
			switch {
			case skipConfirm || dryRun:
				ask = alwaysConfirm
			case ask == nil && isJSONMode(cmd):
				return errConfirmRequired(cmd)
			case ask == nil:
				ask = stdinConfirmer(cmd)
			}
			return runUninstall(cmd, dryRun, ask)
		},
	}

	cmd.Flags().BoolVar(&skipConfirm, "confirm", false, "Skip confirmation prompt")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be removed")

	return cmd
}

func runUninstall(cmd *cobra.Command, dryRun bool, confirm Confirmer) error {
	printer := newPrinter(cmd, stringFlag(cmd, "color"))

	home, err := os.UserHomeDir()
	if err != nil {
		err = output.NewSystemErrorWithCause("cannot determine home directory", err)
		printer.Error(err)
		return err
	}
	paths, err := resolvePaths(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}

	layout := setup.DefaultLayout(home, config.Dir())
	info := setup.GatherUninstallInfo(layout, func() int { return countPrompts(paths) })

	if !printer.IsJSON() {
		outputUninstallPlan(printer, info, dryRun)
	}
	if !hasAnyComponents(info) {
		if printer.IsJSON() {
			return printer.Success(map[string]any{"status": "nothing_to_remove", "dry_run": dryRun})
		}
		return nil
	}

	if !dryRun && !confirm("Are you sure you want to uninstall PMC? This will delete all your prompts.") {
		if printer.IsJSON() {
			return printer.Success(map[string]any{"status": "cancelled"})
		}
		printer.Done("Uninstallation cancelled.")
		return nil
	}

	result, err := setup.Uninstall(layout, dryRun)
	if err != nil {
		printer.Error(err)
		printer.Notice("You may need to manually remove the following:")
		for _, path := range []string{layout.InstallDir, layout.BinaryPath, layout.StorageDir} {
			printer.Hint("  - %s", path)
		}
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}
	reportUninstallResult(printer, result)
	return nil
}

func countPrompts(paths ledger.Paths) int {
	data, err := os.ReadFile(paths.Document)
	if err != nil {
		return 0
	}
	return len(prompt.Parse(string(data), nil))
}

func hasAnyComponents(info setup.UninstallInfo) bool {
	return info.InstallDirExists || info.BinaryExists || info.StorageDirExists || len(info.ShellConfigs) > 0
}

func outputUninstallPlan(printer *output.Printer, info setup.UninstallInfo, dryRun bool) {
	styles := printer.Styles()
	if dryRun {
		printer.Println(styles.Warning.Render("Dry run: Would remove the following:"))
	} else {
		printer.Println(styles.Warning.Render("PMC Uninstallation"))
		printer.Hint("This will remove:")
	}

	if !hasAnyComponents(info) {
		printer.Hint("  (No pmc components found)")
		return
	}
	if info.InstallDirExists {
		printer.Hint("  - Installation directory: %s", info.InstallDir)
	}
	if info.BinaryExists {
		printer.Hint("  - Binary symlink: %s", info.BinaryPath)
	}
	if info.StorageDirExists {
		printer.Println(styles.Error.Render("  - Configuration and prompts: "+info.StorageDir) +
			styles.Dim.Render(" ("+pluralPrompts(info.PromptCount)+")"))
	}
	for _, path := range info.ShellConfigs {
		printer.Hint("  - PATH setup in %s", path)
	}
	printer.Println()
}

func reportUninstallResult(printer *output.Printer, result setup.UninstallResult) {
	styles := printer.Styles()
	if result.DryRun {
		printer.Hint("Dry run: nothing was removed.")
		return
	}
	for _, path := range result.Removed {
		printer.Println(styles.Success.Render("  ✓ ") + "Removed " + path)
	}
	for _, path := range result.CleanedFiles {
		printer.Println(styles.Success.Render("  ✓ ") + "Cleaned up " + path)
	}
	for _, w := range result.Warnings {
		printer.Warn("%s", w)
	}
	printer.Println()
	printer.Done("PMC has been successfully uninstalled!")
	printer.Notice(`Note: You may need to restart your terminal or run "hash -r" to update your PATH.`)
}

func pluralPrompts(n int) string {
	if n == 1 {
		return "1 prompt"
	}
	return strconv.Itoa(n) + " prompts"
}
