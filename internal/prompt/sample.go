package prompt

import (
	"embed"
	"strings"
)

//go:embed documents/*.md
var documentsFS embed.FS

// WelcomeTitle is the title of the entry in a freshly created document.
const WelcomeTitle = "Welcome to PMC"

// WelcomeDocument returns the document written on first run.
func WelcomeDocument() string {
	return mustDocument("welcome.md")
}

// SampleDocument returns the four sample prompts written by generate --sample.
func SampleDocument() string {
	return mustDocument("samples.md")
}

// IsPristine reports whether entries are still only the welcome document,
// i.e. nothing, or a single entry whose title mentions Welcome.
func IsPristine(entries []Entry) bool {
	switch len(entries) {
	case 0:
		return true
	case 1:
		return strings.Contains(entries[0].Title, "Welcome")
	default:
		return false
	}
}

func mustDocument(name string) string {
	data, err := documentsFS.ReadFile("documents/" + name)
	if err != nil {
		panic("missing embedded document " + name)
	}
	return string(data)
}
