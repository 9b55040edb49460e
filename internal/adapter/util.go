package adapter

import (
	"fmt"
	"hash/fnv"
	"html"
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (some feeds double-encode; no-op on
// already-real HTML), strips all tags, then collapses whitespace.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, "")
	return strings.Join(strings.Fields(plain), " ")
}

// hashID derives a stable external ID from a listing URL for sources that
// expose no explicit identifier.
func hashID(s string) string {
	h := fnv.New64a()
	h.Write([]byte(s))
	return fmt.Sprintf("%x", h.Sum64())
}

// splitTitleCompany splits feed titles of the form "Senior Engineer at Acme"
// into title and company. Returns the input unchanged with an empty company
// when the pattern is absent.
func splitTitleCompany(s string) (title, company string) {
	idx := strings.LastIndex(s, " at ")
	if idx < 0 {
		return s, ""
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+4:])
}
