package lumen

import "strings"

// MatchesSearch reports whether query occurs in the post title or content,
// ignoring case. A blank query matches every post.
func (p Post) MatchesSearch(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Content), q)
}

// FilterPosts keeps the posts matching query in their original order.
// A blank query returns posts unchanged.
func FilterPosts(posts []Post, query string) []Post {
	if strings.TrimSpace(query) == "" {
		return posts
	}
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.MatchesSearch(query) {
			out = append(out, p)
		}
	}
	return out
}
