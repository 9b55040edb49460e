package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Absolute layouts seen across sources: API timestamps, feed pubDates, and
// plain dates from detail pages.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// relativeRegex matches phrases like "3 days ago", "Posted 2 Weeks Ago",
// "30+ days ago", "1 hour ago".
var relativeRegex = regexp.MustCompile(`(?i)^(?:posted\s+)?(?:about\s+)?(\d+)\+?\s*(minute|hour|day|week|month)s?\s+ago$`)

// ParseDate interprets whatever date representation a source provides:
// an absolute timestamp, a feed pubDate, or a relative phrase. Unparseable
// values default to now rather than failing the record.
func ParseDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	if t, ok := parseRelative(s, now); ok {
		return t
	}

	return now
}

func parseRelative(s string, now time.Time) (time.Time, bool) {
	lower := strings.TrimPrefix(strings.ToLower(s), "posted ")
	switch lower {
	case "just now", "just posted", "today":
		return now, true
	case "yesterday":
		return now.AddDate(0, 0, -1), true
	}

	matches := relativeRegex.FindStringSubmatch(s)
	if matches == nil {
		return time.Time{}, false
	}

	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, false
	}

	switch strings.ToLower(matches[2]) {
	case "minute":
		return now.Add(-time.Duration(n) * time.Minute), true
	case "hour":
		return now.Add(-time.Duration(n) * time.Hour), true
	case "day":
		return now.AddDate(0, 0, -n), true
	case "week":
		return now.AddDate(0, 0, -7*n), true
	case "month":
		return now.AddDate(0, -n, 0), true
	}

	return time.Time{}, false
}
