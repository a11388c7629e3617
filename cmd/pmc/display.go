package main

import (
	"fmt"
	"time"

	"github.com/gorewood/pmc/internal/output"
	"github.com/gorewood/pmc/internal/prompt"
	"github.com/gorewood/pmc/internal/query"
)

// promptsJSON is the --json shape of list and search.
type promptsJSON struct {
	Count    int            `json:"count"`
	Prompts  []prompt.Entry `json:"prompts"`
	Warnings []string       `json:"warnings,omitempty"`
}

// outputEntries prints the detailed view used by list and search.
// contentLimit follows prompt.Truncate.
func outputEntries(printer *output.Printer, entries []prompt.Entry, contentLimit int) {
	styles := printer.Styles()
	if len(entries) == 0 {
		printer.Notice("No prompts found.")
		return
	}

	printer.Heading("Found %d prompt(s):\n", len(entries))
	for i, e := range entries {
		printer.Println(styles.Index.Render(fmt.Sprintf("[%d] %s", i+1, e.Title)))
		if e.SystemMeta.Created != "" {
			printer.Println(styles.Dim.Render("    Created: " + e.SystemMeta.Created))
		}
		if e.SystemMeta.Updated != "" {
			printer.Println(styles.Dim.Render("    Updated: " + e.SystemMeta.Updated))
		}
		if e.SystemMeta.Cwd != "" {
			printer.Println(styles.Dim.Render("    Directory: " + e.SystemMeta.Cwd))
		}
		printer.Println("    Content: " + prompt.Truncate(e.Content, contentLimit))
		if len(e.UserMeta) > 0 {
			printer.Println(styles.Dim.Render("    Meta: " + e.UserMeta.String()))
		}
		printer.Println()
	}
}

// outputTitles prints the compact list --only-titles view.
func outputTitles(printer *output.Printer, entries []prompt.Entry) {
	styles := printer.Styles()
	if len(entries) == 0 {
		printer.Notice("No prompts found.")
		return
	}

	printer.Heading("Found %d prompt(s):\n", len(entries))
	for i, e := range entries {
		printer.Println(styles.Index.Render(fmt.Sprintf("[%d]", i+1)) + " " + e.Title + " " +
			styles.Dim.Render("("+displayDate(e.SystemMeta.Created, "2006-01-02", "no-date")+")"))
	}
	printer.Println()
	printer.Hint(`Use "pmc list" for detailed view or "pmc search --title <pattern>" to filter.`)
}

// outputEntry prints the full view used by show.
func outputEntry(printer *output.Printer, e prompt.Entry) {
	printer.Section(e.Title)
	if e.SystemMeta.Created != "" {
		printer.KeyValue("Created", displayDate(e.SystemMeta.Created, time.DateTime, e.SystemMeta.Created))
	}
	if e.SystemMeta.Updated != "" {
		printer.KeyValue("Updated", displayDate(e.SystemMeta.Updated, time.DateTime, e.SystemMeta.Updated))
	}
	if e.SystemMeta.Cwd != "" {
		printer.KeyValue("Directory", e.SystemMeta.Cwd)
	}
	if len(e.UserMeta) > 0 {
		printer.KeyValue("Metadata", e.UserMeta.String())
	}

	printer.Section("Content")
	printer.Println(e.Content)
	printer.Println()
}

// displayDate reformats a stored timestamp in local time with layout,
// returning fallback when it is empty or does not parse.
func displayDate(stamp, layout, fallback string) string {
	if stamp == "" {
		return fallback
	}
	t, ok := query.ParseDate(stamp, time.Now())
	if !ok {
		return fallback
	}
	return t.Local().Format(layout)
}
