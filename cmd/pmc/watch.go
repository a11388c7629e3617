package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/pmc/internal/ledger"
	"github.com/gorewood/pmc/internal/output"
	"github.com/gorewood/pmc/internal/watch"
)

// newWatchCmd creates the watch command.
func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Aliases: []string{"w"},
		Short:   "Monitor prompts.md and update metadata on every change",
		Long: `Watch prompts.md and reconcile metadata as soon as the file changes.

Runs until interrupted (Ctrl+C). Use --verbose (-v) to see each added,
modified and removed prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd)
		},
	}
}

func runWatch(ctx context.Context, cmd *cobra.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	verbose := boolFlag(cmd, "verbose")
	document := a.storage.Paths().Document

	w := watch.New(document, a.storage,
		watch.WithInterval(a.cfg.Watch.Interval),
		watch.WithLogger(a.logger),
		watch.OnUpdate(func(u watch.Update) {
			reportWatchUpdate(a.printer, u, verbose)
			a.commitChanges(u.Changes)
		}),
	)

	count, err := w.Start()
	if err != nil {
		err = output.NewSystemErrorWithCause("failed to initialize watcher", err)
		a.printer.Error(err)
		return err
	}

	a.printer.Heading("Watching prompts.md for changes...")
	a.printer.Hint("File: %s", document)
	a.printer.Hint("Press Ctrl+C to stop watching\n")
	if verbose {
		a.printer.Done("Initial scan: %d prompts found", count)
	}

	if err := w.Run(ctx); err != nil {
		a.printer.Error(err)
		return err
	}

	a.printer.Println()
	a.printer.Heading("Stopped watching prompts.md")
	return nil
}

// reportWatchUpdate prints one watch pass. JSON mode emits one object per pass.
func reportWatchUpdate(printer *output.Printer, u watch.Update, verbose bool) {
	if printer.IsJSON() {
		_ = printer.WriteJSON(map[string]any{
			"updated_at": u.At.Format(time.RFC3339),
			"prompts":    u.Entries,
			"changes":    nonNilChanges(u.Changes),
		})
		return
	}

	if verbose {
		printer.Notice("File changed, updating metadata...")
		styles := printer.Styles()
		for _, c := range u.Changes {
			switch c.Kind {
			case ledger.Added:
				printer.Println(styles.Success.Render(fmt.Sprintf("  + Added: %q", c.Title)))
			case ledger.Modified:
				printer.Println(styles.Info.Render(fmt.Sprintf("  ~ Modified: %q", c.Title)))
			case ledger.Removed:
				printer.Println(styles.Error.Render(fmt.Sprintf("  - Removed: %q", c.Title)))
			}
		}
		if len(u.Changes) > 0 {
			printer.Hint("  %d change(s) processed", len(u.Changes))
		}
	}
	printer.Done("Updated at %s", u.At.Format(time.TimeOnly))
}

func nonNilChanges(changes []ledger.Change) []ledger.Change {
	if changes == nil {
		return []ledger.Change{}
	}
	return changes
}
