// Package main provides the entry point for the pmc CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/pmc/internal/output"
)

// Build info set via ldflags at build time.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return boolFlag(cmd, "json")
}

// boolFlag reads a bool flag, falling back to the root's persistent flags.
func boolFlag(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	return flag != nil && flag.Value.String() == "true"
}

// stringFlag reads a string flag, falling back to the root's persistent flags.
func stringFlag(cmd *cobra.Command, name string) string {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.Root().PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return ""
	}
	return flag.Value.String()
}

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	code := run()
	os.Exit(code)
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command for the pmc CLI.
// Running pmc without a subcommand behaves like "pmc create".
func newRootCmd() *cobra.Command {
	var ignoreDuplicates bool

	cmd := &cobra.Command{
		Use:   "pmc",
		Short: "Prompt Management CLI - a tool for managing AI prompts",
		Long: `pmc - Prompt Management CLI.

All prompts live in one Markdown file, prompts.md. Each "# " heading starts a
prompt; an optional <!-- [meta] --> comment below it holds TOML metadata.
Edit the file with any editor: pmc notices changes, records when and where
each prompt was created or updated, and versions the file with git.

All commands support --json for structured output.`,
		Version:       buildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreate(cmd, ignoreDuplicates)
		},
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().String("color", "", "Color output: auto, always or never (default from config)")
	cmd.PersistentFlags().String("prompts-file", "", "Use a custom prompts.md path")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Show detailed progress and debug logs")
	cmd.Flags().BoolVar(&ignoreDuplicates, "ignore-duplicates-warning", false, "Ignore duplicate title warnings")

	// Configure lipgloss for TTY detection
	lipgloss.SetHasDarkBackground(true)

	addCommandGroups(cmd)
	addCommands(cmd)

	return cmd
}

// addCommandGroups defines the command groups for help output.
func addCommandGroups(cmd *cobra.Command) {
	cmd.AddGroup(&cobra.Group{ID: "prompts", Title: "Prompt Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "versions", Title: "Version Commands:"})
	cmd.AddGroup(&cobra.Group{ID: "admin", Title: "Admin Commands:"})
}

// addCommands adds all subcommands with their group assignments.
func addCommands(cmd *cobra.Command) {
	addGroupedCommand(cmd, newCreateCmd(), "prompts")
	addGroupedCommand(cmd, newEditCmd(), "prompts")
	addGroupedCommand(cmd, newListCmd(), "prompts")
	addGroupedCommand(cmd, newShowCmd(), "prompts")
	addGroupedCommand(cmd, newSearchCmd(), "prompts")
	addGroupedCommand(cmd, newGenerateCmd(), "prompts")

	addGroupedCommand(cmd, newHistoryCmd("history", "Show version history of prompts.md"), "versions")
	addGroupedCommand(cmd, newHistoryCmd("versions", "List available versions of prompts.md"), "versions")
	addGroupedCommand(cmd, newDiffCmd(), "versions")
	addGroupedCommand(cmd, newRestoreCmd(nil), "versions")

	addGroupedCommand(cmd, newWatchCmd(), "admin")
	addGroupedCommand(cmd, newServeCmd(), "admin")
	addGroupedCommand(cmd, newUninstallCmd(nil), "admin")
}

// addGroupedCommand adds a subcommand with a group assignment.
func addGroupedCommand(parent *cobra.Command, child *cobra.Command, groupID string) {
	child.GroupID = groupID
	parent.AddCommand(child)
}
