// Package query filters prompts by directory, content, title, user metadata
// and creation date.
package query

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/gorewood/pmc/internal/output"
	"github.com/gorewood/pmc/internal/prompt"
)

// Options select entries. Zero-valued fields do not filter.
type Options struct {
	Dir        string
	DirInverse bool

	Text        string
	TextLiteral bool
	TextInverse bool

	Title string

	// Meta is key=value, split on the first '='.
	Meta        string
	MetaInverse bool

	DateAfter  string
	DateBefore string
}

// IsZero reports whether no criterion is set.
func (o Options) IsZero() bool {
	return o.Dir == "" && o.Text == "" && o.Title == "" && o.Meta == "" &&
		o.DateAfter == "" && o.DateBefore == ""
}

// Query is a compiled set of Options. Every set criterion must hold.
type Query struct {
	opts     Options
	text     *regexp.Regexp
	title    *regexp.Regexp
	metaKey  string
	metaVal  string
	metaOK   bool
	after    *time.Time
	before   *time.Time
	now      time.Time
	warnings []string
}

// Compile validates opts. Invalid patterns are user errors. Date bounds that
// ParseDate rejects are dropped and reported by Warnings.
func Compile(opts Options, now time.Time) (*Query, error) {
	q := &Query{opts: opts, now: now}

	if opts.Text != "" {
		pattern := opts.Text
		if opts.TextLiteral {
			pattern = regexp.QuoteMeta(pattern)
		}
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, output.NewUserErrorWithCause(fmt.Sprintf("invalid text pattern %q: %v", opts.Text, err), err)
		}
		q.text = re
	}

	if opts.Title != "" {
		re, err := regexp.Compile("(?i)" + opts.Title)
		if err != nil {
			return nil, output.NewUserErrorWithCause(fmt.Sprintf("invalid title pattern %q: %v", opts.Title, err), err)
		}
		q.title = re
	}

	if opts.Meta != "" {
		q.metaKey, q.metaVal, q.metaOK = strings.Cut(opts.Meta, "=")
	}

	q.after = q.bound("date-after", opts.DateAfter)
	q.before = q.bound("date-before", opts.DateBefore)
	return q, nil
}

func (q *Query) bound(name, value string) *time.Time {
	if value == "" {
		return nil
	}
	t, ok := ParseDate(value, q.now)
	if !ok {
		q.warnings = append(q.warnings, fmt.Sprintf("could not parse --%s %q; filter not applied", name, value))
		return nil
	}
	return &t
}

// Warnings lists criteria that were ignored.
func (q *Query) Warnings() []string {
	return q.warnings
}

// Match reports whether e satisfies every criterion.
func (q *Query) Match(e prompt.Entry) bool {
	return q.matchDir(e) && q.matchText(e) && q.matchTitle(e) && q.matchDates(e) && q.matchMeta(e)
}

// Filter returns the matching entries in input order.
func (q *Query) Filter(entries []prompt.Entry) []prompt.Entry {
	result := make([]prompt.Entry, 0, len(entries))
	for _, e := range entries {
		if q.Match(e) {
			result = append(result, e)
		}
	}
	return result
}

func (q *Query) matchDir(e prompt.Entry) bool {
	if q.opts.Dir == "" {
		return true
	}
	return strings.Contains(e.SystemMeta.Cwd, q.opts.Dir) != q.opts.DirInverse
}

func (q *Query) matchText(e prompt.Entry) bool {
	if q.text == nil {
		return true
	}
	return q.text.MatchString(e.Content) != q.opts.TextInverse
}

func (q *Query) matchTitle(e prompt.Entry) bool {
	return q.title == nil || q.title.MatchString(e.Title)
}

// matchDates keeps entries whose created stamp does not parse.
func (q *Query) matchDates(e prompt.Entry) bool {
	if q.after == nil && q.before == nil {
		return true
	}
	created, ok := ParseDate(e.SystemMeta.Created, q.now)
	if !ok {
		return true
	}
	if q.after != nil && created.Before(*q.after) {
		return false
	}
	if q.before != nil && created.After(*q.before) {
		return false
	}
	return true
}

func (q *Query) matchMeta(e prompt.Entry) bool {
	if q.opts.Meta == "" {
		return true
	}
	return q.metaMatches(e) != q.opts.MetaInverse
}

// metaMatches tests list membership or scalar equality. A filter without
// '=' or a missing key never matches.
func (q *Query) metaMatches(e prompt.Entry) bool {
	if !q.metaOK {
		return false
	}
	field, ok := e.UserMeta.Get(q.metaKey)
	if !ok {
		return false
	}
	if field.List {
		return slices.Contains(field.Values, q.metaVal)
	}
	return field.Value() == q.metaVal
}

// Filter compiles opts and applies them to entries.
func Filter(entries []prompt.Entry, opts Options, now time.Time) ([]prompt.Entry, []string, error) {
	q, err := Compile(opts, now)
	if err != nil {
		return nil, nil, err
	}
	return q.Filter(entries), q.Warnings(), nil
}
