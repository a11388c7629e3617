package main

import (
	"bufio"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/pmc/internal/output"
)

// Confirmer asks the user a yes/no question.
type Confirmer func(message string) bool

// stdinConfirmer prompts on cmd's output and reads the answer from its input.
// Only "y" and "yes" confirm; anything else, including EOF, declines.
func stdinConfirmer(cmd *cobra.Command) Confirmer {
	return func(message string) bool {
		return promptYesNo(cmd.OutOrStdout(), cmd.InOrStdin(), message)
	}
}

func promptYesNo(out io.Writer, in io.Reader, message string) bool {
	_, _ = io.WriteString(out, "? "+message+" [y/N] ")
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// alwaysConfirm backs --confirm.
func alwaysConfirm(string) bool { return true }

// errConfirmRequired reports that a destructive command cannot prompt in
// JSON mode.
func errConfirmRequired(cmd *cobra.Command) error {
	err := output.NewUserError("--confirm is required with --json")
	newPrinter(cmd, output.ColorNever).Error(err)
	return err
}
