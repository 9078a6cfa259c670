package services

import (
	"regexp"
	"strings"
	"unicode"
)

// maxTitleLength caps cleaned titles for display.
const maxTitleLength = 60

// titleFallback is used when nothing usable survives cleaning.
const titleFallback = "Wiki Page Content"

// artifactPatterns strip access-key artifacts the scraper leaked into
// page titles. Order matters: the most specific patterns run first so the
// broad catch-alls only see what they leave behind.
var artifactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)key[🔓🔒🔑].*?-`),
	regexp.MustCompile(`(?i)key\w*[🔓🔒🔑].*?-`),
	regexp.MustCompile(`(?i)key\w+-\w*-?`),
	regexp.MustCompile(`(?i)key\w*-.*?-`),
	regexp.MustCompile(`(?i)^[a-zA-Z]*[🔓🔒🔑].*?-`),
	regexp.MustCompile(`(?i)^[🔓🔒🔑].*?-`),
	regexp.MustCompile(`(?i)[🔓🔒🔑].*?-`),
	regexp.MustCompile(`(?i)^key.*?-`),
	regexp.MustCompile(`(?i)key\w*`),
	regexp.MustCompile(`(?i)^[a-zA-Z]{1,4}[🔓🔒🔑]`),
	regexp.MustCompile(`(?i)^\w{1,6}_.*?_`),
}

var (
	whitespaceRun    = regexp.MustCompile(`\s+`)
	leadingNonAlnum  = regexp.MustCompile(`^[^a-zA-Z0-9]+`)
	urlArtifactChars = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
)

// badTitleTokens mark a cleaned title as still corrupted.
var badTitleTokens = []string{"key", "🔓", "🔒", "🔑"}

// TitleCleaner strips scraper artifacts from wiki page titles, falling
// back to a title derived from the source URL when cleaning consumes the
// whole string.
type TitleCleaner struct{}

// NewTitleCleaner creates a title cleaner.
func NewTitleCleaner() *TitleCleaner {
	return &TitleCleaner{}
}

// Clean returns a presentable title for a chunk. The raw title is
// scrubbed first; if nothing usable remains, a title is derived from the
// URL instead.
func (c *TitleCleaner) Clean(rawTitle, url string) string {
	cleaned := c.scrub(rawTitle)
	if c.usable(cleaned) {
		return cleaned
	}
	if fromURL := c.fromURL(url); fromURL != "" {
		return fromURL
	}
	return titleFallback
}

// scrub applies the artifact removal pipeline to a raw title.
func (c *TitleCleaner) scrub(title string) string {
	cleaned := title
	for _, pattern := range artifactPatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}

	cleaned = strings.ReplaceAll(cleaned, "_", " ")
	cleaned = strings.ReplaceAll(cleaned, "-", " ")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = leadingNonAlnum.ReplaceAllString(cleaned, "")

	if !c.usable(cleaned) {
		return titleFallback
	}

	cleaned = titleCase(cleaned)
	if runes := []rune(cleaned); len(runes) > maxTitleLength {
		cleaned = string(runes[:maxTitleLength]) + "..."
	}
	return cleaned
}

// usable reports whether a cleaned title is worth showing.
func (c *TitleCleaner) usable(title string) bool {
	if len(title) < 3 || title == titleFallback {
		return false
	}
	lower := strings.ToLower(title)
	for _, bad := range badTitleTokens {
		if strings.Contains(lower, bad) {
			return false
		}
	}
	return !strings.Contains(lower, "unknown")
}

// fromURL derives a title from the last path segment of the source URL.
func (c *TitleCleaner) fromURL(url string) string {
	if url == "" {
		return ""
	}

	segments := strings.Split(url, "/")
	page := segments[len(segments)-1]
	page = strings.ReplaceAll(page, "%20", " ")
	page = strings.ReplaceAll(page, "_", " ")
	page = urlArtifactChars.ReplaceAllString(page, " ")
	page = strings.TrimSpace(whitespaceRun.ReplaceAllString(page, " "))
	if page == "" {
		return ""
	}
	return titleCase(page)
}

// titleCase capitalises the first letter of each word and lowercases the
// rest.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
