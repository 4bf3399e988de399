package app

import (
	"context"
	"fmt"

	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
	"github.com/glabrego/lumen-cli/internal/storage"
)

// FeedParams drives the home feed and the category explorer. The zero
// CategoryID means every category.
type FeedParams struct {
	CategoryID string
	Sort       lumen.SortOption
	TimeRange  lumen.TimeRange
}

// EffectiveTimeRange is the range actually applied: newest ignores it.
func (p FeedParams) EffectiveTimeRange() lumen.TimeRange {
	if p.Sort == lumen.SortNewest || p.Sort == "" {
		return lumen.TimeRangeAll
	}
	return p.TimeRange
}

type ProfileParams struct {
	AuthorID string
	Sort     lumen.ProfileSortOption
}

type CommentParams struct {
	PostID string
	Sort   lumen.CommentSortOption
}

type InboxParams struct {
	UserID string
}

// FeedFetcher pages posts for viewerID, one store query plus one batched hug
// lookup per page.
func (s *Service) FeedFetcher(viewerID string) pager.FetchFunc[lumen.Post, FeedParams] {
	return func(ctx context.Context, cursor pager.Cursor, p FeedParams) (pager.Page[lumen.Post], error) {
		q := storage.PostQuery{
			CategoryID: p.CategoryID,
			Sort:       p.Sort,
			Cursor:     cursor,
			Limit:      s.pageSize,
		}
		if since, ok := p.EffectiveTimeRange().Threshold(s.now()); ok {
			q.Since = since
		}
		return s.postPage(ctx, viewerID, q)
	}
}

func (s *Service) ProfilePostsFetcher(viewerID string) pager.FetchFunc[lumen.Post, ProfileParams] {
	return func(ctx context.Context, cursor pager.Cursor, p ProfileParams) (pager.Page[lumen.Post], error) {
		if p.AuthorID == "" {
			return pager.Page[lumen.Post]{}, nil
		}
		return s.postPage(ctx, viewerID, storage.PostQuery{
			AuthorID:  p.AuthorID,
			Sort:      lumen.SortNewest,
			Ascending: p.Sort == lumen.ProfileOldest,
			Cursor:    cursor,
			Limit:     s.pageSize,
		})
	}
}

func (s *Service) ProfileCommentsFetcher(viewerID string) pager.FetchFunc[lumen.Comment, ProfileParams] {
	return func(ctx context.Context, cursor pager.Cursor, p ProfileParams) (pager.Page[lumen.Comment], error) {
		if p.AuthorID == "" {
			return pager.Page[lumen.Comment]{}, nil
		}
		return s.commentPage(ctx, viewerID, storage.CommentQuery{
			AuthorID:  p.AuthorID,
			Ascending: p.Sort == lumen.ProfileOldest,
			Cursor:    cursor,
			Limit:     s.pageSize,
		})
	}
}

func (s *Service) PostCommentsFetcher(viewerID string) pager.FetchFunc[lumen.Comment, CommentParams] {
	return func(ctx context.Context, cursor pager.Cursor, p CommentParams) (pager.Page[lumen.Comment], error) {
		if p.PostID == "" {
			return pager.Page[lumen.Comment]{}, nil
		}
		q := storage.CommentQuery{PostID: p.PostID, Cursor: cursor, Limit: s.pageSize}
		switch p.Sort {
		case lumen.CommentNewest:
		case lumen.CommentPopular:
			q.ByHugs = true
		default:
			q.Ascending = true
		}
		return s.commentPage(ctx, viewerID, q)
	}
}

func (s *Service) InboxFetcher() pager.FetchFunc[lumen.Notification, InboxParams] {
	return func(ctx context.Context, cursor pager.Cursor, p InboxParams) (pager.Page[lumen.Notification], error) {
		items, next, err := s.repo.ListNotifications(ctx, p.UserID, cursor, s.pageSize)
		if err != nil {
			return pager.Page[lumen.Notification]{}, fmt.Errorf("list notifications: %w", err)
		}
		return pager.Page[lumen.Notification]{Items: items, Next: next}, nil
	}
}

func (s *Service) postPage(ctx context.Context, viewerID string, q storage.PostQuery) (pager.Page[lumen.Post], error) {
	posts, next, err := s.repo.ListPosts(ctx, q)
	if err != nil {
		return pager.Page[lumen.Post]{}, fmt.Errorf("list posts: %w", err)
	}
	if err := s.markHuggedPosts(ctx, viewerID, posts); err != nil {
		return pager.Page[lumen.Post]{}, err
	}
	s.logger.Debug("posts page", "category", q.CategoryID, "sort", q.Sort, "count", len(posts), "more", !next.IsZero())
	return pager.Page[lumen.Post]{Items: posts, Next: next}, nil
}

func (s *Service) commentPage(ctx context.Context, viewerID string, q storage.CommentQuery) (pager.Page[lumen.Comment], error) {
	comments, next, err := s.repo.ListComments(ctx, q)
	if err != nil {
		return pager.Page[lumen.Comment]{}, fmt.Errorf("list comments: %w", err)
	}
	if err := s.markHuggedComments(ctx, viewerID, comments); err != nil {
		return pager.Page[lumen.Comment]{}, err
	}
	return pager.Page[lumen.Comment]{Items: comments, Next: next}, nil
}
