package git

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/pmc/internal/output"
)

// isolateGit skips when git is missing and keeps user/system config out of the test.
func isolateGit(t *testing.T) {
	t.Helper()
	if !Available() {
		t.Skip("git not installed")
	}
	globalCfg := filepath.Join(t.TempDir(), "gitconfig")
	if err := os.WriteFile(globalCfg, nil, 0o600); err != nil {
		t.Fatalf("failed to write git config: %v", err)
	}
	t.Setenv("GIT_CONFIG_GLOBAL", globalCfg)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
}

// newTestRepo returns an initialized repository with a tracked prompts.md.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	isolateGit(t)
	repo := NewRepo(t.TempDir(), nil)
	if err := repo.EnsureInitialized([]string{"prompts-system-meta.jsonl", ".prompts-hash"}); err != nil {
		t.Fatalf("EnsureInitialized() error = %v", err)
	}
	return repo
}

func writeDoc(t *testing.T, repo *Repo, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(repo.Dir(), "prompts.md"), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write prompts.md: %v", err)
	}
}

func TestRun(t *testing.T) {
	isolateGit(t)
	repo := NewRepo(t.TempDir(), nil)

	tests := []struct {
		name          string
		args          []string
		wantErr       bool
		wantErrMsg    string
		checkExitCode int
	}{
		{
			name:    "git version succeeds",
			args:    []string{"version"},
			wantErr: false,
		},
		{
			name:          "invalid git command",
			args:          []string{"invalid-command-that-does-not-exist"},
			wantErr:       true,
			wantErrMsg:    "git command failed",
			checkExitCode: output.ExitSystemError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			out, runErr := repo.Run(testCase.args...)
			if testCase.wantErr {
				var exitErr *output.ExitError
				if !errors.As(runErr, &exitErr) {
					t.Fatalf("Run() error should be *output.ExitError, got %T (%v)", runErr, runErr)
				}
				if exitErr.Code != testCase.checkExitCode {
					t.Errorf("Run() exit code = %d, want %d", exitErr.Code, testCase.checkExitCode)
				}
				if !strings.Contains(exitErr.Message, testCase.wantErrMsg) {
					t.Errorf("Run() message = %q, want to contain %q", exitErr.Message, testCase.wantErrMsg)
				}
				return
			}
			if runErr != nil {
				t.Fatalf("Run() unexpected error: %v", runErr)
			}
			if out == "" {
				t.Error("Run() expected non-empty output for 'git version'")
			}
		})
	}
}

func TestEnsureInitialized(t *testing.T) {
	repo := newTestRepo(t)

	if !repo.IsRepo() {
		t.Fatal("IsRepo() = false after EnsureInitialized")
	}

	data, err := os.ReadFile(filepath.Join(repo.Dir(), ".gitignore"))
	if err != nil {
		t.Fatalf("reading .gitignore: %v", err)
	}
	if string(data) != "prompts-system-meta.jsonl\n.prompts-hash\n" {
		t.Errorf(".gitignore = %q", data)
	}

	name, err := repo.Run("config", "user.name")
	if err != nil || name != AuthorName {
		t.Errorf("user.name = %q (%v), want %q", name, err, AuthorName)
	}

	revs, err := repo.Log(10)
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if len(revs) != 1 || revs[0].Message != "Initial commit" {
		t.Errorf("Log() = %+v, want single initial commit", revs)
	}

	// Second call is a no-op.
	if err := repo.EnsureInitialized(nil); err != nil {
		t.Fatalf("second EnsureInitialized() error = %v", err)
	}
	revs, _ = repo.Log(10)
	if len(revs) != 1 {
		t.Errorf("second EnsureInitialized() added commits: %+v", revs)
	}
}

func TestIsRepo_IgnoresParentRepository(t *testing.T) {
	repo := newTestRepo(t)
	child := filepath.Join(repo.Dir(), "nested")
	if err := os.Mkdir(child, 0o755); err != nil {
		t.Fatal(err)
	}

	if NewRepo(child, nil).IsRepo() {
		t.Error("IsRepo() = true for a directory inside another repository")
	}
}

func TestCommit(t *testing.T) {
	repo := newTestRepo(t)

	writeDoc(t, repo, "# A\nx\n")
	if err := repo.Commit("Update prompts: A", "prompts.md"); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	// Unchanged file: nothing to commit is not an error.
	if err := repo.Commit("again", "prompts.md"); err != nil {
		t.Fatalf("Commit() with nothing staged error = %v", err)
	}

	revs, err := repo.Log(10)
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("Log() returned %d revisions, want 2: %+v", len(revs), revs)
	}
	if revs[0].Message != "Update prompts: A" {
		t.Errorf("latest message = %q", revs[0].Message)
	}
	if len(revs[0].Date) != len("2006-01-02") {
		t.Errorf("date = %q, want short date", revs[0].Date)
	}
	if revs[0].ID == "" {
		t.Error("revision ID is empty")
	}
}

func TestLog_MaxCount(t *testing.T) {
	repo := newTestRepo(t)
	for i, body := range []string{"one", "two", "three"} {
		writeDoc(t, repo, "# A\n"+body+"\n")
		if err := repo.Commit("edit "+strings.Repeat("|", i), "prompts.md"); err != nil {
			t.Fatalf("Commit() error = %v", err)
		}
	}

	revs, err := repo.Log(2)
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if len(revs) != 2 {
		t.Fatalf("Log(2) returned %d revisions", len(revs))
	}
	if revs[0].Message != "edit ||" {
		t.Errorf("messages with separators must survive, got %q", revs[0].Message)
	}
}

func TestDiffAndShow(t *testing.T) {
	repo := newTestRepo(t)

	writeDoc(t, repo, "# A\nfirst\n")
	if err := repo.Commit("first", "prompts.md"); err != nil {
		t.Fatal(err)
	}
	writeDoc(t, repo, "# A\nsecond\n")
	if err := repo.Commit("second", "prompts.md"); err != nil {
		t.Fatal(err)
	}

	diff, err := repo.Diff("", "", "prompts.md")
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	if !strings.Contains(diff, "-first") || !strings.Contains(diff, "+second") {
		t.Errorf("Diff() = %q", diff)
	}

	revs, _ := repo.Log(3)
	content, err := repo.Show(revs[1].ID, "prompts.md")
	if err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if content != "# A\nfirst\n" {
		t.Errorf("Show() = %q, want exact file content", content)
	}
}

func TestShow_UnknownRevision(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Show("deadbeef", "prompts.md")
	if got := output.GetExitCode(err); got != output.ExitUserError {
		t.Errorf("Show(unknown) exit code = %d, want %d (err %v)", got, output.ExitUserError, err)
	}

	// The initial commit exists but does not contain prompts.md.
	revs, _ := repo.Log(1)
	_, err = repo.Show(revs[0].ID, "prompts.md")
	if got := output.GetExitCode(err); got != output.ExitUserError {
		t.Errorf("Show(missing path) exit code = %d, want %d", got, output.ExitUserError)
	}
}

func TestParseRevisions(t *testing.T) {
	out := "abc1234" + fieldSeparator + "2026-10-01" + fieldSeparator + "Update prompts: A" + commitSeparator + "\n" +
		"def5678" + fieldSeparator + "2026-09-30" + fieldSeparator + "Initial commit" + commitSeparator + "\n" +
		"broken-line" + commitSeparator

	got := parseRevisions(out)
	want := []Revision{
		{ID: "abc1234", Date: "2026-10-01", Message: "Update prompts: A"},
		{ID: "def5678", Date: "2026-09-30", Message: "Initial commit"},
	}
	if len(got) != len(want) {
		t.Fatalf("parseRevisions() = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("revision %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
