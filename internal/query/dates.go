package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// exactLayouts are tried in order. Stored timestamps come first; the
// month-first slash form wins over day-first when both would parse.
var exactLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
}

type relativeUnit struct {
	pattern *regexp.Regexp
	apply   func(now time.Time, n int) time.Time
}

// relativeUnits match "<N> <unit>[s] ago" anywhere in the input.
var relativeUnits = []relativeUnit{
	{regexp.MustCompile(`(?i)(\d+)\s*days?\s*ago`), func(now time.Time, n int) time.Time { return now.AddDate(0, 0, -n) }},
	{regexp.MustCompile(`(?i)(\d+)\s*weeks?\s*ago`), func(now time.Time, n int) time.Time { return now.AddDate(0, 0, -7*n) }},
	{regexp.MustCompile(`(?i)(\d+)\s*months?\s*ago`), func(now time.Time, n int) time.Time { return now.AddDate(0, -n, 0) }},
	{regexp.MustCompile(`(?i)(\d+)\s*years?\s*ago`), func(now time.Time, n int) time.Time { return now.AddDate(-n, 0, 0) }},
	{regexp.MustCompile(`(?i)(\d+)\s*hours?\s*ago`), func(now time.Time, n int) time.Time { return now.Add(-time.Duration(n) * time.Hour) }},
	{regexp.MustCompile(`(?i)(\d+)\s*minutes?\s*ago`), func(now time.Time, n int) time.Time { return now.Add(-time.Duration(n) * time.Minute) }},
}

// ParseDate interprets s relative to now.
//
// Accepted, in order:
//   - RFC 3339 timestamps, YYYY-MM-DD, YYYY-MM-DD HH:mm, YYYY-MM-DD HH:mm:ss,
//     MM/DD/YYYY and DD/MM/YYYY (in now's location)
//   - "<N> <unit> ago" for minute, hour, day, week, month and year
//   - today, yesterday, last week (its Sunday) and last month (its first day)
//
// Returns false when s matches none of these.
func ParseDate(s string, now time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range exactLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, true
		}
	}

	for _, unit := range relativeUnits {
		m := unit.pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return unit.apply(now, n), true
	}

	switch strings.ToLower(s) {
	case "today":
		return startOfDay(now), true
	case "yesterday":
		return startOfDay(now.AddDate(0, 0, -1)), true
	case "last week":
		lastWeek := startOfDay(now.AddDate(0, 0, -7))
		return lastWeek.AddDate(0, 0, -int(lastWeek.Weekday())), true
	case "last month":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.AddDate(0, -1, 0), true
	}

	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
