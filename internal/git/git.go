package git

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gorewood/pmc/internal/output"
)

// Repo runs git inside one directory.
type Repo struct {
	dir    string
	logger *slog.Logger
}

// NewRepo returns a Repo rooted at dir. logger may be nil.
func NewRepo(dir string, logger *slog.Logger) *Repo {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repo{dir: dir, logger: logger}
}

// Dir returns the repository directory.
func (r *Repo) Dir() string {
	return r.dir
}

// Available reports whether a git executable is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Run executes a git command in the repository directory.
// It captures stdout and returns it as a trimmed string.
// Returns an *output.ExitError on failure with appropriate exit code.
func (r *Repo) Run(args ...string) (string, error) {
	out, err := r.run(context.Background(), args...)
	return strings.TrimSpace(out), err
}

// run returns stdout untouched.
func (r *Repo) run(ctx context.Context, args ...string) (string, error) {
	r.logger.Debug("executing git", "args", args, "dir", r.dir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError("git not found: ensure git is installed and in PATH")
		}

		// Git command failed - include stderr in message
		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = strings.TrimSpace(stdout.String())
		}
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", output.NewSystemErrorWithCause("git command failed: "+errMsg, err)
	}

	return stdout.String(), nil
}

// IsRepo reports whether the directory itself holds a repository.
// A repository in a parent directory does not count.
func (r *Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.dir, ".git"))
	return err == nil
}
