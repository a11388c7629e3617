package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/pmc/internal/output"
	"github.com/gorewood/pmc/internal/query"
)

// searchExamples is printed after the help text when search runs without criteria.
const searchExamples = `
Examples:
  pmc search --title "docker"                      # Find prompts with "docker" in title
  pmc search --text "kubernetes"                   # Search content for "kubernetes"
  pmc search --meta "tags=github"                  # Find prompts tagged with "github"
  pmc search --dir "/home/user/projects"           # Filter by directory
  pmc search --date-after "2024-01-01"             # Created after specific date
  pmc search --date-after "7 days ago"             # Created in last 7 days
  pmc search --date-before "last week"             # Created before last week
  pmc search --title "setup" --meta "tags=nodejs"  # Combine filters
  pmc search --text "docker" --text-inverse        # Find prompts NOT about docker
  pmc search --title "nodejs" -m 200               # Show more content (200 chars)
  pmc search --meta "tags=setup" -m -1             # Show full content

Date formats supported:
  • YYYY-MM-DD (e.g., 2024-01-15)
  • YYYY-MM-DD HH:mm (e.g., 2024-01-15 14:30)
  • MM/DD/YYYY and DD/MM/YYYY
  • Relative: "X days ago", "X weeks ago", "X months ago"
  • Keywords: "today", "yesterday", "last week", "last month"

Metadata search examples:
  • --meta "tags=docker"         # Exact tag match
  • --meta "category=setup"      # Custom metadata fields
  • --meta "language=typescript" # Any TOML field from prompts`

// newSearchCmd creates the search command.
func newSearchCmd() *cobra.Command {
	var opts query.Options
	var contentMaxLength int

	cmd := &cobra.Command{
		Use:     "search",
		Aliases: []string{"s"},
		Short:   "Search prompts with flexible filtering options",
		Long: `Search prompts by directory, content, title, metadata and creation date.

Every given criterion must match. Text and title are case-insensitive regular
expressions; --text-regex-off matches text literally.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, opts, contentMaxLength)
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Filter by directory path (supports partial matches)")
	cmd.Flags().BoolVar(&opts.DirInverse, "dir-inverse", false, "Invert directory filter (show non-matching)")
	cmd.Flags().StringVar(&opts.Text, "text", "", "Search in prompt content (regex supported by default)")
	cmd.Flags().BoolVar(&opts.TextLiteral, "text-regex-off", false, "Disable regex for text search (literal string match)")
	cmd.Flags().BoolVar(&opts.TextInverse, "text-inverse", false, "Invert text search results (show non-matching)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Search in prompt titles (regex supported)")
	cmd.Flags().StringVar(&opts.Meta, "meta", "", "Filter by metadata (format: key=value)")
	cmd.Flags().BoolVar(&opts.MetaInverse, "meta-inverse", false, "Invert metadata search results")
	cmd.Flags().StringVar(&opts.DateAfter, "date-after", "", `Show prompts created after date (YYYY-MM-DD, YYYY-MM-DD HH:mm, or relative like "7 days ago")`)
	cmd.Flags().StringVar(&opts.DateBefore, "date-before", "", `Show prompts created before date (YYYY-MM-DD, YYYY-MM-DD HH:mm, or relative like "1 week ago")`)
	cmd.Flags().IntVarP(&contentMaxLength, "content-max-length", "m", 0, "Maximum content length to display (-1 for full content, default from config)")

	return cmd
}

func runSearch(cmd *cobra.Command, opts query.Options, contentMaxLength int) error {
	if opts.IsZero() {
		if isJSONMode(cmd) {
			err := output.NewUserError("specify at least one search criterion: --dir, --text, --title, --meta, --date-after or --date-before")
			newPrinter(cmd, output.ColorNever).Error(err)
			return err
		}
		if err := cmd.Help(); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), searchExamples)
		return nil
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	entries, err := a.entries(false)
	if err != nil {
		return err
	}

	matched, warnings, err := query.Filter(entries, opts, time.Now())
	if err != nil {
		a.printer.Error(err)
		return err
	}

	if a.printer.IsJSON() {
		for _, w := range warnings {
			a.logger.Warn("date bound ignored", "reason", w)
		}
		return a.printer.WriteJSON(promptsJSON{Count: len(matched), Prompts: matched, Warnings: warnings})
	}

	for _, w := range warnings {
		a.printer.Warn("%s", w)
	}
	if !cmd.Flags().Changed("content-max-length") {
		contentMaxLength = a.cfg.Search.ContentMaxLength
	}
	outputEntries(a.printer, matched, contentMaxLength)
	return nil
}
