package view

import (
	"strings"
	"time"

	"github.com/glabrego/lumen-cli/internal/lumen"
)

type WrapFunc func(string, int) []string

type CommentsState struct {
	Items     []lumen.Comment
	Selected  int
	Sort      string
	Loading   bool
	HasMore   bool
	LoadError string
}

// DetailLines lays out a post followed by its comment thread.
func DetailLines(post lumen.Post, comments CommentsState, now time.Time, width int, wrap WrapFunc) []string {
	lines := DetailMetaLines(post, now, width, wrap)
	if content := strings.TrimSpace(post.Content); content != "" {
		lines = append(lines, "")
		lines = append(lines, wrap(content, width)...)
	}

	heading := "Comments"
	if comments.Sort != "" {
		heading += " · " + comments.Sort
	}
	lines = append(lines, "", heading, strings.Repeat("-", min(width, 8)))
	switch {
	case comments.Loading && len(comments.Items) == 0:
		lines = append(lines, "Loading comments...")
	case comments.LoadError != "" && len(comments.Items) == 0:
		lines = append(lines, wrap("Could not load comments: "+comments.LoadError, width)...)
	case len(comments.Items) == 0:
		lines = append(lines, "No comments yet. Be the first to offer support.")
	}
	for i, c := range comments.Items {
		marker := "  "
		if i == comments.Selected {
			marker = "> "
		}
		lines = append(lines, "")
		lines = append(lines, marker+CommentHeader(c, now))
		for _, l := range wrap(c.Content, max(1, width-2)) {
			lines = append(lines, "  "+l)
		}
	}
	if len(comments.Items) > 0 {
		switch {
		case comments.Loading:
			lines = append(lines, "", "Loading more comments...")
		case comments.HasMore:
			lines = append(lines, "", "n: load more comments")
		}
	}
	return lines
}

func DetailMetaLines(post lumen.Post, now time.Time, width int, wrap WrapFunc) []string {
	lines := make([]string, 0, 12)
	lines = append(lines, wrap(post.Title, width)...)
	lines = append(lines, strings.Repeat("=", max(1, min(width, len([]rune(post.Title))))))
	lines = append(lines, "")

	info := lumen.CategoryInfo(post.CategoryID)
	lines = append(lines, "Category: "+info.Emoji+" "+info.Name)
	author := post.AuthorName
	if author == "" {
		author = "Anonymous"
	}
	lines = append(lines, wrap("Author: "+author, width)...)
	lines = append(lines, "Posted: "+RelativeTimeLabel(now, post.CreatedAt)+" ("+post.CreatedAt.UTC().Format(time.RFC3339)+")")
	lines = append(lines, "Support: "+PostCounts(post))
	if post.ImageURL != "" {
		lines = append(lines, wrap("Image: "+post.ImageURL, width)...)
	}
	return lines
}

func DetailMaxTop(linesLen, bodyHeight int) int {
	maxTop := linesLen - bodyHeight
	if maxTop < 0 {
		return 0
	}
	return maxTop
}

func RenderDetailLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	if top < 0 {
		top = 0
	}
	if top > len(lines)-1 {
		top = len(lines) - 1
	}
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return strings.Join(lines[top:end], "\n") + "\n"
}

// WrapText breaks text at word boundaries, splitting words longer than
// width. Newlines start new paragraphs.
func WrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			for utf8Len(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				r := []rune(word)
				out = append(out, string(r[:width]))
				word = string(r[width:])
			}

			if line == "" {
				line = word
				continue
			}
			if utf8Len(line)+1+utf8Len(word) <= width {
				line += " " + word
				continue
			}
			out = append(out, line)
			line = word
		}
		if line != "" {
			out = append(out, line)
		}
	}

	return out
}

func utf8Len(s string) int {
	return len([]rune(s))
}
