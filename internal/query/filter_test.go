package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorewood/pmc/internal/output"
	"github.com/gorewood/pmc/internal/prompt"
)

var fixedNow = time.Date(2024, 3, 20, 15, 30, 0, 0, time.UTC)

func fixture() []prompt.Entry {
	return []prompt.Entry{
		{
			Title:   "Docker Setup",
			Content: "Create a Dockerfile using node:18-alpine.",
			UserMeta: prompt.Meta{
				{Key: "tags", Values: []string{"docker"}, List: true},
				{Key: "category", Values: []string{"setup"}},
			},
			SystemMeta: prompt.SystemMeta{Created: "2024-01-10T08:00:00.000Z", Updated: "2024-01-10T08:00:00.000Z", Cwd: "/home/me/project1"},
		},
		{
			Title:      "Git Workflow",
			Content:    "Rebase onto main, then open a PR.",
			UserMeta:   prompt.Meta{{Key: "tags", Values: []string{"git"}, List: true}},
			SystemMeta: prompt.SystemMeta{Created: "2024-02-15T08:00:00.000Z", Updated: "2024-02-15T08:00:00.000Z", Cwd: "/home/me/project2"},
		},
		{
			Title:      "React Components",
			Content:    "Write function components with hooks (useState).",
			UserMeta:   prompt.Meta{{Key: "tags", Values: []string{"react"}, List: true}},
			SystemMeta: prompt.SystemMeta{Created: "2024-03-01T08:00:00.000Z", Updated: "2024-03-01T08:00:00.000Z", Cwd: "/home/me/project1"},
		},
	}
}

func titles(entries []prompt.Entry) []string {
	out := []string{}
	for _, e := range entries {
		out = append(out, e.Title)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{name: "no criteria", opts: Options{}, want: []string{"Docker Setup", "Git Workflow", "React Components"}},
		{name: "dir", opts: Options{Dir: "project1"}, want: []string{"Docker Setup", "React Components"}},
		{name: "dir inverse", opts: Options{Dir: "project1", DirInverse: true}, want: []string{"Git Workflow"}},
		{name: "dir is case sensitive", opts: Options{Dir: "Project1"}, want: []string{}},
		{name: "meta list membership", opts: Options{Meta: "tags=git"}, want: []string{"Git Workflow"}},
		{name: "meta scalar equality", opts: Options{Meta: "category=setup"}, want: []string{"Docker Setup"}},
		{name: "meta inverse", opts: Options{Meta: "tags=git", MetaInverse: true}, want: []string{"Docker Setup", "React Components"}},
		{name: "meta without equals matches nothing", opts: Options{Meta: "tags"}, want: []string{}},
		{name: "meta missing key", opts: Options{Meta: "owner=me"}, want: []string{}},
		{name: "dir and meta", opts: Options{Dir: "project1", Meta: "category=setup"}, want: []string{"Docker Setup"}},
		{name: "text regex case insensitive", opts: Options{Text: "DOCKER|rebase"}, want: []string{"Docker Setup", "Git Workflow"}},
		{name: "text inverse", opts: Options{Text: "docker", TextInverse: true}, want: []string{"Git Workflow", "React Components"}},
		{name: "text literal", opts: Options{Text: "(usestate)", TextLiteral: true}, want: []string{"React Components"}},
		{name: "text regex metachars", opts: Options{Text: "node:\\d+"}, want: []string{"Docker Setup"}},
		{name: "title regex", opts: Options{Title: "^(git|react)"}, want: []string{"Git Workflow", "React Components"}},
		{name: "date after", opts: Options{DateAfter: "2024-02-01"}, want: []string{"Git Workflow", "React Components"}},
		{name: "date before", opts: Options{DateBefore: "2024-02-01"}, want: []string{"Docker Setup"}},
		{name: "date range", opts: Options{DateAfter: "2024-02-01", DateBefore: "2024-02-28"}, want: []string{"Git Workflow"}},
		{name: "relative date", opts: Options{DateAfter: "30 days ago"}, want: []string{"React Components"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings, err := Filter(fixture(), tt.opts, fixedNow)
			require.NoError(t, err)
			assert.Empty(t, warnings)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestFilter_MetaValueWithEquals(t *testing.T) {
	entries := []prompt.Entry{
		{Title: "Env", Content: "x", UserMeta: prompt.Meta{{Key: "env", Values: []string{"A=1"}}}},
	}

	got, _, err := Filter(entries, Options{Meta: "env=A=1"}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"Env"}, titles(got))
}

func TestFilter_UnparseableCreatedAlwaysKept(t *testing.T) {
	entries := []prompt.Entry{
		{Title: "no date", Content: "x"},
		{Title: "garbage date", Content: "x", SystemMeta: prompt.SystemMeta{Created: "sometime"}},
		{Title: "old", Content: "x", SystemMeta: prompt.SystemMeta{Created: "2000-01-01T00:00:00.000Z"}},
	}

	bounds := []Options{
		{DateAfter: "2099-01-01"},
		{DateBefore: "1990-01-01"},
		{DateAfter: "2099-01-01", DateBefore: "1990-01-01"},
	}
	for _, opts := range bounds {
		got, _, err := Filter(entries, opts, fixedNow)
		require.NoError(t, err)
		assert.Equal(t, []string{"no date", "garbage date"}, titles(got), "opts %+v", opts)
	}
}

func TestFilter_UnparseableBoundIgnored(t *testing.T) {
	got, warnings, err := Filter(fixture(), Options{DateAfter: "not-a-date", Dir: "project2"}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, []string{"Git Workflow"}, titles(got))
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "--date-after")
	assert.Contains(t, warnings[0], "not-a-date")
}

func TestFilter_InvalidPatterns(t *testing.T) {
	for _, opts := range []Options{{Text: "[unclosed"}, {Title: "(?<=x)"}} {
		_, _, err := Filter(fixture(), opts, fixedNow)
		require.Error(t, err)
		assert.Equal(t, output.ExitUserError, output.GetExitCode(err))
	}

	got, _, err := Filter(fixture(), Options{Text: "[unclosed", TextLiteral: true}, fixedNow)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOptions_IsZero(t *testing.T) {
	assert.True(t, Options{}.IsZero())
	assert.True(t, Options{TextInverse: true, MetaInverse: true}.IsZero())
	assert.False(t, Options{DateBefore: "today"}.IsZero())
}
