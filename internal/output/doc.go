// Package output provides structured output handling for the pmc CLI.
//
// Every command writes through a Printer so the same code path serves both
// people at a terminal and scripts consuming --json:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), output.IsTTY(cmd.OutOrStdout()))
//	printer.Heading("Found %d prompt(s):", len(results))
//	printer.Warn("git history unavailable: %v", err)
//
// Styles are lipgloss styles and collapse to plain text when the writer is
// not a terminal or --color=never is given.
//
// Errors carry exit codes:
//
//	output.NewUserError("no prompt found with exact title: \"x\"") // 1
//	output.NewSystemErrorWithCause("cannot create storage directory", err) // 2
//	output.NewConflictError("prompts.md already has content") // 3
package output
