// Package sanitize cleans user supplied text before it is stored and
// validates post and comment input.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

const (
	MaxTitleLength      = 200
	MaxContentLength    = 5000
	MaxAuthorNameLength = 50
	MaxCategoryIDLength = 50
	MaxImageURLLength   = 2048

	DefaultAuthorName = "Anonymous"
)

var (
	authorNameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	categoryIDPattern    = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)
)

// Text trims s, strips markup and control characters other than newline and
// tab, and truncates the result to max runes. A non-positive max means
// MaxContentLength.
func Text(s string, max int) string {
	if max <= 0 {
		max = MaxContentLength
	}
	s = strings.TrimSpace(StripMarkup(s))
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return truncate(s, max)
}

// StripMarkup removes HTML tags, keeping only text content. Script and
// style bodies are dropped entirely.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skipDepth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			if isRawTextTag(z) {
				skipDepth++
			}
		case html.EndTagToken:
			if isRawTextTag(z) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawTextTag(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}

// AuthorName keeps letters, digits, whitespace, hyphens and underscores,
// falling back to DefaultAuthorName when nothing is left.
func AuthorName(name string) string {
	name = strings.TrimSpace(authorNameDisallowed.ReplaceAllString(name, ""))
	name = truncate(name, MaxAuthorNameLength)
	if name == "" {
		return DefaultAuthorName
	}
	return name
}

// CategoryID reports whether id is a well formed category id.
func CategoryID(id string) bool {
	return id != "" && len(id) <= MaxCategoryIDLength && categoryIDPattern.MatchString(id)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
