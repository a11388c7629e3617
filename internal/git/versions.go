package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorewood/pmc/internal/output"
)

// Identity used for commits in the prompt repository.
const (
	AuthorName  = "PMC"
	AuthorEmail = "pmc@local"
)

// Revision is one commit in the history of the document.
type Revision struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// commitSeparator is used to delimit commits in log output.
const commitSeparator = "---COMMIT-BOUNDARY---"

// fieldSeparator is used to delimit fields within a commit.
const fieldSeparator = "---FIELD---"

// EnsureInitialized creates the repository on first use: git init, the PMC
// identity, a .gitignore listing ignore, and an initial commit.
// An existing repository is left alone.
func (r *Repo) EnsureInitialized(ignore []string) error {
	if r.IsRepo() {
		return nil
	}

	steps := [][]string{
		{"init"},
		{"config", "user.name", AuthorName},
		{"config", "user.email", AuthorEmail},
	}
	for _, args := range steps {
		if _, err := r.Run(args...); err != nil {
			return err
		}
	}

	gitignore := filepath.Join(r.dir, ".gitignore")
	if err := os.WriteFile(gitignore, []byte(strings.Join(ignore, "\n")+"\n"), 0o644); err != nil {
		return output.NewSystemErrorWithCause("cannot write .gitignore", err)
	}
	if _, err := r.Run("add", ".gitignore"); err != nil {
		return err
	}
	if _, err := r.Run("commit", "-m", "Initial commit"); err != nil {
		return err
	}

	r.logger.Info("initialized prompt repository", "dir", r.dir)
	return nil
}

// Commit stages paths and commits them with message.
// Nothing staged is not an error.
func (r *Repo) Commit(message string, paths ...string) error {
	addArgs := append([]string{"add", "--"}, paths...)
	if _, err := r.Run(addArgs...); err != nil {
		return err
	}

	diffArgs := append([]string{"diff", "--cached", "--name-only", "--"}, paths...)
	staged, err := r.Run(diffArgs...)
	if err != nil {
		return err
	}
	if strings.TrimSpace(staged) == "" {
		r.logger.Debug("nothing to commit", "paths", paths)
		return nil
	}

	commitArgs := append([]string{"commit", "-m", message, "--"}, paths...)
	_, err = r.Run(commitArgs...)
	return err
}

// Log returns up to n commits, newest first.
func (r *Repo) Log(n int) ([]Revision, error) {
	format := strings.Join([]string{
		"%h",  // Short SHA
		"%ad", // Author date (short)
		"%s",  // Subject
	}, fieldSeparator) + commitSeparator

	out, err := r.Run("log", "--max-count="+strconv.Itoa(n), "--date=short", "--pretty=format:"+format)
	if err != nil {
		return nil, err
	}
	return parseRevisions(out), nil
}

// parseRevisions parses the custom formatted git log output.
func parseRevisions(out string) []Revision {
	var revisions []Revision
	for _, chunk := range strings.Split(out, commitSeparator) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		fields := strings.Split(chunk, fieldSeparator)
		if len(fields) < 3 {
			continue
		}
		revisions = append(revisions, Revision{
			ID:      strings.TrimSpace(fields[0]),
			Date:    strings.TrimSpace(fields[1]),
			Message: strings.TrimSpace(fields[2]),
		})
	}
	return revisions
}

// Diff returns the diff of paths between two revisions.
// Empty revisions default to HEAD~1 and HEAD.
func (r *Repo) Diff(from, to string, paths ...string) (string, error) {
	if from == "" {
		from = "HEAD~1"
	}
	if to == "" {
		to = "HEAD"
	}
	args := append([]string{"diff", from, to, "--"}, paths...)
	return r.Run(args...)
}

// Show returns path as it was at rev, byte for byte.
// An unknown revision or path is a user error.
func (r *Repo) Show(rev, path string) (string, error) {
	if _, err := r.Run("rev-parse", "--verify", "--quiet", rev+"^{commit}"); err != nil {
		return "", output.NewUserErrorWithCause(fmt.Sprintf("version %q not found", rev), err)
	}
	content, err := r.run(context.Background(), "show", rev+":"+filepath.ToSlash(path))
	if err != nil {
		return "", output.NewUserErrorWithCause(fmt.Sprintf("%s not found in version %q", path, rev), err)
	}
	return content, nil
}
