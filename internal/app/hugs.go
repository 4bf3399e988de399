package app

import (
	"context"
	"fmt"

	"github.com/glabrego/lumen-cli/internal/lumen"
)

// ToggleHug flips the viewer's hug on a post in the store and returns the
// confirmed state. Callers apply it to their lists with ApplyPostHug only
// after this succeeds.
func (s *Service) ToggleHug(ctx context.Context, postID string, viewer lumen.User) (bool, error) {
	hugged, err := s.repo.ToggleHug(ctx, lumen.TargetPost, postID, viewer.ID)
	if err != nil {
		return false, fmt.Errorf("toggle hug on post %s: %w", postID, err)
	}
	if hugged {
		if post, err := s.repo.GetPost(ctx, postID); err != nil {
			s.warnNotify(ctx, "skip notification: load post", "", lumen.NotifyPostHug, viewer, err)
		} else {
			s.notify(ctx, post.AuthorID, lumen.NotifyPostHug, postID, "", viewer)
		}
	}
	return hugged, nil
}

func (s *Service) ToggleCommentHug(ctx context.Context, commentID string, viewer lumen.User) (bool, error) {
	hugged, err := s.repo.ToggleHug(ctx, lumen.TargetComment, commentID, viewer.ID)
	if err != nil {
		return false, fmt.Errorf("toggle hug on comment %s: %w", commentID, err)
	}
	if hugged {
		if comment, err := s.repo.GetComment(ctx, commentID); err != nil {
			s.warnNotify(ctx, "skip notification: load comment", "", lumen.NotifyCommentHug, viewer, err)
		} else {
			s.notify(ctx, comment.AuthorID, lumen.NotifyCommentHug, comment.PostID, commentID, viewer)
		}
	}
	return hugged, nil
}

// ApplyPostHug returns an item updater that records a confirmed hug state.
// Applying it to a post already in that state changes nothing.
func ApplyPostHug(hugged bool) func(lumen.Post) lumen.Post {
	return func(p lumen.Post) lumen.Post {
		if p.IsHugged == hugged {
			return p
		}
		p.IsHugged = hugged
		p.HugsCount = adjustCount(p.HugsCount, hugged)
		return p
	}
}

func ApplyCommentHug(hugged bool) func(lumen.Comment) lumen.Comment {
	return func(c lumen.Comment) lumen.Comment {
		if c.IsHugged == hugged {
			return c
		}
		c.IsHugged = hugged
		c.HugsCount = adjustCount(c.HugsCount, hugged)
		return c
	}
}

// ApplyNewComment bumps a post's comment counter after a comment was stored.
func ApplyNewComment(p lumen.Post) lumen.Post {
	p.CommentsCount++
	return p
}

func adjustCount(n int, up bool) int {
	if up {
		return n + 1
	}
	if n > 0 {
		return n - 1
	}
	return 0
}
