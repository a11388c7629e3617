package main

import (
	"github.com/spf13/cobra"
)

// formatExample is the prompts.md section layout shown by create.
const formatExample = `# Your Prompt Title

Your prompt content here...

<!--
[meta]
description = "Description of your prompt"
tags = ["tag1", "tag2"]
-->`

// newCreateCmd creates the create command.
func newCreateCmd() *cobra.Command {
	var ignoreDuplicates bool

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"c"},
		Short:   "Create a new prompt (edit prompts.md directly)",
		Long: `Show where prompts.md lives and the format of a prompt section.

Prompts are created by editing prompts.md with your favorite editor; the next
pmc command records when and where each new prompt was added.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreate(cmd, ignoreDuplicates)
		},
	}

	cmd.Flags().BoolVar(&ignoreDuplicates, "ignore-duplicates-warning", false, "Ignore duplicate title warnings")

	return cmd
}

func runCreate(cmd *cobra.Command, ignoreDuplicates bool) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.entries(ignoreDuplicates); err != nil {
		return err
	}

	document := a.storage.Paths().Document
	if a.printer.IsJSON() {
		return a.printer.Success(map[string]any{
			"file":   document,
			"format": formatExample,
		})
	}

	styles := a.printer.Styles()
	a.printer.Heading("Creating a new prompt")
	a.printer.Hint("Edit the prompts.md file directly with your favorite editor.")
	a.printer.Hint("File location: %s", document)
	a.printer.Println()
	a.printer.Println(styles.Warning.Render("Format:"))
	a.printer.Println(formatExample)
	return nil
}
