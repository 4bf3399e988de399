package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/glabrego/lumen-cli/internal/lumen"
	tuitheme "github.com/glabrego/lumen-cli/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type PostLineParams struct {
	Post        lumen.Post
	Now         time.Time
	ShowNumbers bool
	Pos         int
	Active      bool
	Width       int
}

// RenderPostLine draws one feed row: marker, category emoji, title, then
// hug and comment counts with the age right-aligned.
func RenderPostLine(p PostLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	prefix := fmt.Sprintf(" %s %s ", cursorMarker, lumen.CategoryInfo(p.Post.CategoryID).Emoji)
	if p.ShowNumbers {
		prefix = fmt.Sprintf(" %s%3d. %s ", cursorMarker, p.Pos+1, lumen.CategoryInfo(p.Post.CategoryID).Emoji)
	}
	right := PostCounts(p.Post) + "  " + RelativeTimeLabel(p.Now, p.Post.CreatedAt)

	available := p.Width - visibleLen(prefix) - 1 - visibleLen(right)
	if available < 1 {
		available = 1
	}
	label := strings.TrimSpace(p.Post.Title)
	if label == "" {
		label = "(untitled)"
	}
	label = truncateWidth(label, available)
	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(right)
	if gap < 1 {
		gap = 1
	}
	styledTitle := th.StylePostTitle(p.Post, label)
	return th.RenderActiveLine(p.Active, prefix+styledTitle+strings.Repeat(" ", gap)+th.MetaValue.Render(right))
}

func PostCounts(post lumen.Post) string {
	heart := "♡"
	if post.IsHugged {
		heart = "♥"
	}
	return fmt.Sprintf("%s %d  💬 %d", heart, post.HugsCount, post.CommentsCount)
}

func CommentHeader(c lumen.Comment, now time.Time) string {
	heart := "♡"
	if c.IsHugged {
		heart = "♥"
	}
	author := strings.TrimSpace(c.AuthorName)
	if author == "" {
		author = "Anonymous"
	}
	return fmt.Sprintf("%s · %s · %s %d", author, RelativeTimeLabel(now, c.CreatedAt), heart, c.HugsCount)
}

func RelativeTimeLabel(now, then time.Time) string {
	if now.IsZero() {
		now = time.Now()
	}
	if then.IsZero() {
		return "unknown"
	}
	if then.After(now) {
		return "just now"
	}
	d := now.Sub(then)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		n := int(d / time.Minute)
		if n == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", n)
	}
	if d < 24*time.Hour {
		n := int(d / time.Hour)
		if n == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", n)
	}
	n := int(d / (24 * time.Hour))
	if n == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", n)
}

// truncateWidth cuts s to at most maxWidth terminal columns.
func truncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

func visibleLen(s string) int {
	return runewidth.StringWidth(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
