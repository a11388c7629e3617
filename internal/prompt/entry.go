// Package prompt parses the prompts.md document into entries.
//
// A document is a sequence of sections, each opened by a line starting with
// "# ". The heading text is the entry title; everything below it is the
// content, except an optional metadata comment:
//
//	# Deploy checklist
//
//	Run the smoke tests before tagging.
//
//	<!--
//	[meta]
//	tags = ["deploy", "release"]
//	owner = "ops"
//	-->
//
// The [meta] body is TOML. Provenance (created, updated, cwd) is not kept in
// the document; callers attach it from the metadata store.
package prompt

// Entry is one parsed prompt.
type Entry struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	UserMeta   Meta       `json:"user_meta"`
	SystemMeta SystemMeta `json:"system_meta"`
}

// SystemMeta is the tool-managed provenance of an entry.
// Timestamps are RFC 3339 with millisecond precision, or empty.
type SystemMeta struct {
	Created string `json:"created"`
	Updated string `json:"updated"`
	Cwd     string `json:"cwd"`
}

// Find returns the first entry whose title equals title exactly.
func Find(entries []Entry, title string) (Entry, bool) {
	for _, e := range entries {
		if e.Title == title {
			return e, true
		}
	}
	return Entry{}, false
}

// DuplicateTitles returns titles that occur more than once, in first-seen order.
func DuplicateTitles(entries []Entry) []string {
	counts := make(map[string]int, len(entries))
	var order []string
	for _, e := range entries {
		if counts[e.Title] == 0 {
			order = append(order, e.Title)
		}
		counts[e.Title]++
	}

	var dups []string
	for _, title := range order {
		if counts[title] > 1 {
			dups = append(dups, title)
		}
	}
	return dups
}

// Truncate shortens content to limit characters, appending "..." when anything
// was cut. A negative limit returns content unchanged.
func Truncate(content string, limit int) string {
	if limit < 0 {
		return content
	}
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
