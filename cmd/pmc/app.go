package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/pmc/internal/config"
	"github.com/gorewood/pmc/internal/git"
	"github.com/gorewood/pmc/internal/ledger"
	"github.com/gorewood/pmc/internal/logging"
	"github.com/gorewood/pmc/internal/output"
	"github.com/gorewood/pmc/internal/prompt"
)

// app is the per-invocation state shared by commands: resolved config,
// printer, logger, storage and, when enabled, the version-control repo.
type app struct {
	cfg      config.Config
	printer  *output.Printer
	logger   *slog.Logger
	storage  *ledger.Storage
	repo     *git.Repo
	closeLog func() error
}

// newPrinter builds the printer for cmd from --json and the color mode.
func newPrinter(cmd *cobra.Command, colorMode string) *output.Printer {
	out := cmd.OutOrStdout()
	isTTY := output.ResolveColorMode(colorMode, output.IsTTY(out))
	return output.NewPrinter(out, isJSONMode(cmd), isTTY).WithStderr(cmd.ErrOrStderr())
}

// resolvePaths returns the storage layout, honoring --prompts-file.
func resolvePaths(cmd *cobra.Command) (ledger.Paths, error) {
	paths := ledger.DefaultPaths(config.Dir())
	if custom := stringFlag(cmd, "prompts-file"); custom != "" {
		abs, err := filepath.Abs(custom)
		if err != nil {
			return paths, output.NewUserErrorWithCause("invalid --prompts-file "+custom, err)
		}
		paths.Document = abs
	}
	return paths, nil
}

// openApp loads configuration, creates missing core files, sets up version
// control and synchronizes metadata with the document. Errors are printed
// before they are returned.
func openApp(cmd *cobra.Command) (*app, error) {
	paths, pathErr := resolvePaths(cmd)

	cfg, cfgErr := config.Load(paths.Config)
	colorMode := cfg.Color
	flagColor := stringFlag(cmd, "color")
	if flagColor != "" {
		colorMode = flagColor
	}
	printer := newPrinter(cmd, colorMode)

	if flagColor != "" && !output.ValidColorMode(flagColor) {
		err := output.NewUserError(fmt.Sprintf("invalid --color %q: use auto, always or never", flagColor))
		printer.Error(err)
		return nil, err
	}
	if pathErr != nil {
		printer.Error(pathErr)
		return nil, pathErr
	}
	if cfgErr != nil {
		printer.Warn("ignoring %s: %v", paths.Config, cfgErr)
	}

	level := cfg.SlogLevel()
	if boolFlag(cmd, "verbose") {
		level = slog.LevelDebug
	}
	logger, closeLog, err := logging.New(logging.Options{
		Writer: cmd.ErrOrStderr(),
		Level:  level,
		File:   cfg.Log.File,
	})
	if err != nil {
		printer.Warn("%v; logging to stderr only", err)
		logger, closeLog, _ = logging.New(logging.Options{Writer: cmd.ErrOrStderr(), Level: level})
	}

	a := &app{
		cfg:      cfg,
		printer:  printer,
		logger:   logger,
		storage:  ledger.NewStorage(paths, nil, logger),
		closeLog: closeLog,
	}

	if err := a.storage.Init(); err != nil {
		a.close()
		printer.Error(err)
		return nil, err
	}

	a.setupVersionControl(paths)

	changes, err := a.storage.Sync()
	if err != nil {
		a.close()
		printer.Error(err)
		return nil, err
	}
	a.commitChanges(changes)

	return a, nil
}

// setupVersionControl attaches the git repo when enabled and usable.
// Failures disable versioning for this invocation.
func (a *app) setupVersionControl(paths ledger.Paths) {
	if !a.cfg.Git.Enabled {
		return
	}
	if !git.Available() {
		a.logger.Debug("git not found, versioning disabled")
		return
	}
	if rel, err := filepath.Rel(paths.Dir, paths.Document); err != nil || strings.HasPrefix(rel, "..") {
		a.logger.Debug("document outside storage directory, versioning disabled", "document", paths.Document)
		return
	}

	repo := git.NewRepo(paths.Dir, a.logger)
	if err := repo.EnsureInitialized(ledger.ToolFiles); err != nil {
		a.printer.Warn("git versioning disabled: %v", err)
		return
	}
	a.repo = repo
	a.storage.SetVersionControl(repo)
}

// commitChanges auto-commits the document after a sync that changed titles.
func (a *app) commitChanges(changes []ledger.Change) {
	if !a.cfg.Git.AutoCommit || len(changes) == 0 {
		return
	}
	if err := a.storage.CommitChanges(changes, a.cfg.Git.CommitMessage); err != nil {
		a.printer.Warn("auto-commit failed: %v", err)
	}
}

// entries returns the document's prompts with provenance, warning about
// duplicate titles unless suppressed.
func (a *app) entries(ignoreDuplicates bool) ([]prompt.Entry, error) {
	entries, err := a.storage.Entries()
	if err != nil {
		a.printer.Error(err)
		return nil, err
	}
	if !ignoreDuplicates && !a.cfg.IgnoreDuplicatesWarning {
		if dups := prompt.DuplicateTitles(entries); len(dups) > 0 {
			a.printer.Warn("duplicate titles found: %s", strings.Join(quoteAll(dups), ", "))
		}
	}
	return entries, nil
}

func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

func quoteAll(values []string) []string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return quoted
}

// requireRepo returns the version-control repo, or a user error explaining
// why versioning is unavailable.
func (a *app) requireRepo() (*git.Repo, error) {
	if a.repo != nil {
		return a.repo, nil
	}
	var err error
	if !a.cfg.Git.Enabled {
		err = output.NewUserError("git version control is disabled; set git.enabled in " + config.FileName + " to use version commands")
	} else {
		err = output.NewUserError("git version control is unavailable; see warnings above or run with --verbose")
	}
	a.printer.Error(err)
	return nil, err
}

// documentRel is the document path inside the repository. Only valid after
// requireRepo succeeded.
func (a *app) documentRel() string {
	rel, err := filepath.Rel(a.repo.Dir(), a.storage.Paths().Document)
	if err != nil {
		return ledger.DocumentFile
	}
	return rel
}
