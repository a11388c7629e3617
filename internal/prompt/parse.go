package prompt

import (
	"log/slog"
	"regexp"
	"strings"
)

var (
	// sectionStart matches a top-level heading marker at the start of a line.
	sectionStart = regexp.MustCompile(`(?m)^# `)
	// metaBlock matches an HTML comment opening with [meta]; group 1 is the TOML body.
	metaBlock = regexp.MustCompile(`<!--\s*\n?\[meta\]\s*\n([\s\S]*?)\n?\s*-->`)
)

// Parse splits document into entries, in document order.
//
// Sections whose title or content is empty after parsing are dropped. Text
// before the first heading is parsed as a section of its own, so its first
// line acts as a title. Only the first [meta] block of a section is decoded,
// but every [meta] block is removed from the content. A block that is not
// valid TOML is logged and leaves the entry without user metadata.
func Parse(document string, logger *slog.Logger) []Entry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var entries []Entry
	for _, section := range sectionStart.Split(document, -1) {
		if strings.TrimSpace(section) == "" {
			continue
		}

		firstLine, _, _ := strings.Cut(section, "\n")
		title := strings.TrimSpace(firstLine)

		meta := Meta{}
		if m := metaBlock.FindStringSubmatch(section); m != nil {
			decoded, err := decodeMeta(m[1])
			if err != nil {
				logger.Warn("invalid TOML metadata", "title", title, "error", err)
			} else {
				meta = decoded
			}
		}

		content := strings.TrimSpace(metaBlock.ReplaceAllString(section, ""))
		_, content, _ = strings.Cut(content, "\n")
		content = strings.TrimSpace(content)

		if title == "" || content == "" {
			continue
		}
		entries = append(entries, Entry{
			Title:    title,
			Content:  content,
			UserMeta: meta,
		})
	}
	return entries
}
