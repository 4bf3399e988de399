package app

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/sanitize"
	"github.com/glabrego/lumen-cli/internal/storage"
)

// CreatePost cleans and validates the input and stores a new post authored
// by viewer. An empty AuthorName falls back to the viewer's anonymous name.
func (s *Service) CreatePost(ctx context.Context, viewer lumen.User, in sanitize.PostInput) (lumen.Post, error) {
	if in.AuthorName == "" {
		in.AuthorName = viewer.AnonymousName
	}
	clean, err := sanitize.Post(in)
	if err != nil {
		return lumen.Post{}, err
	}
	if err := s.checkCategory(ctx, clean.CategoryID); err != nil {
		return lumen.Post{}, err
	}

	id, err := s.newDocID()
	if err != nil {
		return lumen.Post{}, fmt.Errorf("generate post id: %w", err)
	}
	now := s.now().UTC()
	post := lumen.Post{
		ID:         id,
		Title:      clean.Title,
		Content:    clean.Content,
		CategoryID: clean.CategoryID,
		AuthorID:   viewer.ID,
		AuthorName: clean.AuthorName,
		ImageURL:   clean.ImageURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return lumen.Post{}, fmt.Errorf("save post: %w", err)
	}
	s.logger.Info("post created", "post", post.ID, "category", post.CategoryID)
	return post, nil
}

// CreateComment stores a comment on postID and notifies the post's author.
func (s *Service) CreateComment(ctx context.Context, viewer lumen.User, postID string, in sanitize.CommentInput) (lumen.Comment, error) {
	if in.AuthorName == "" {
		in.AuthorName = viewer.AnonymousName
	}
	clean, err := sanitize.Comment(in)
	if err != nil {
		return lumen.Comment{}, err
	}

	id, err := s.newDocID()
	if err != nil {
		return lumen.Comment{}, fmt.Errorf("generate comment id: %w", err)
	}
	comment := lumen.Comment{
		ID:         id,
		PostID:     postID,
		Content:    clean.Content,
		AuthorID:   viewer.ID,
		AuthorName: clean.AuthorName,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return lumen.Comment{}, fmt.Errorf("save comment: %w", err)
	}

	if post, err := s.repo.GetPost(ctx, postID); err != nil {
		s.warnNotify(ctx, "skip notification: load post", "", lumen.NotifyPostComment, viewer, err)
	} else {
		s.notify(ctx, post.AuthorID, lumen.NotifyPostComment, postID, comment.ID, viewer)
	}
	return comment, nil
}

// checkCategory accepts active stored categories. Built-in ones are also
// accepted while the store has not been seeded.
func (s *Service) checkCategory(ctx context.Context, id string) error {
	category, err := s.repo.GetCategory(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if slices.Contains(lumen.CategoryIDs, id) {
			return nil
		}
	case err != nil:
		return fmt.Errorf("load category: %w", err)
	case category.IsActive:
		return nil
	}
	return &sanitize.ValidationError{Fields: map[string]string{
		"categoryId": fmt.Sprintf("Unknown category '%s'.", id),
	}}
}
