package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/glabrego/lumen-cli/internal/lumen"
	tuiview "github.com/glabrego/lumen-cli/internal/tui/view"
)

// ANSI codes for print mode. applyColorMode clears them when the output
// cannot show color.
var (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorDim   = "\033[2m"
)

func enableColors() {
	colorReset = "\033[0m"
	colorBold = "\033[1m"
	colorDim = "\033[2m"
}

func disableColors() {
	colorReset = ""
	colorBold = ""
	colorDim = ""
}

// applyColorMode resolves --color for output written to w.
func applyColorMode(w io.Writer) {
	switch colorMode {
	case "always":
		enableColors()
	case "never":
		disableColors()
	default:
		if shouldDisableColors(w) {
			disableColors()
		} else {
			enableColors()
		}
	}
}

func shouldDisableColors(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	if os.Getenv("TERM") == "dumb" {
		return true
	}
	return termenv.NewOutput(w).Profile == termenv.Ascii
}

func printPosts(w io.Writer, posts []lumen.Post, hasMore bool, now time.Time) {
	if len(posts) == 0 {
		fmt.Fprintln(w, "No posts here yet.")
		return
	}
	for _, p := range posts {
		printPostLine(w, p, now)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%sShowing %d post(s)%s%s\n", colorDim, len(posts), moreHint(hasMore), colorReset)
}

// printSearchResults lists the loaded posts matching query. scanned is the
// number of posts the filter looked at.
func printSearchResults(w io.Writer, matches []lumen.Post, scanned int, query string, hasMore bool, now time.Time) {
	if len(matches) == 0 {
		fmt.Fprintf(w, "No posts match %q in %d loaded post(s)%s\n", query, scanned, moreHint(hasMore))
		return
	}
	for _, p := range matches {
		printPostLine(w, p, now)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%sShowing %d of %d post(s) matching %q%s%s\n", colorDim, len(matches), scanned, query, moreHint(hasMore), colorReset)
}

func printPostLine(w io.Writer, p lumen.Post, now time.Time) {
	info := lumen.CategoryInfo(p.CategoryID)
	fmt.Fprintf(w, "%s %s%s%s  %s\n", info.Emoji, colorBold, p.Title, colorReset, p.ID)
	fmt.Fprintf(w, "   %s%s · %s · %s%s\n", colorDim, p.AuthorName, tuiview.RelativeTimeLabel(now, p.CreatedAt), tuiview.PostCounts(p), colorReset)
}

func printPostDetail(w io.Writer, p lumen.Post, now time.Time) {
	for _, line := range tuiview.DetailMetaLines(p, now, 80, tuiview.WrapText) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w, "ID: "+p.ID)
	if content := strings.TrimSpace(p.Content); content != "" {
		fmt.Fprintln(w)
		for _, line := range tuiview.WrapText(content, 80) {
			fmt.Fprintln(w, line)
		}
	}
}

func printComments(w io.Writer, comments []lumen.Comment, hasMore bool, now time.Time) {
	if len(comments) == 0 {
		fmt.Fprintln(w, "No comments yet.")
		return
	}
	for _, c := range comments {
		fmt.Fprintf(w, "%s%s%s  %s\n", colorDim, tuiview.CommentHeader(c, now), colorReset, c.ID)
		for _, line := range tuiview.WrapText(c.Content, 78) {
			fmt.Fprintln(w, "  "+line)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%sShowing %d comment(s)%s%s\n", colorDim, len(comments), moreHint(hasMore), colorReset)
}

func moreHint(hasMore bool) string {
	if hasMore {
		return ", more available (use --pages)"
	}
	return ""
}
