package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/storage"
)

// CurrentUser returns the identity this installation acts as, creating an
// anonymous one on first use.
func (s *Service) CurrentUser(ctx context.Context) (lumen.User, error) {
	id := s.userID
	if id == "" {
		localID, err := s.repo.LocalUserID(ctx)
		switch {
		case errors.Is(err, storage.ErrNotFound):
		case err != nil:
			return lumen.User{}, fmt.Errorf("load local identity: %w", err)
		default:
			id = localID
		}
	}

	if id != "" {
		user, err := s.repo.GetUser(ctx, id)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return lumen.User{}, fmt.Errorf("load user: %w", err)
		}
	} else {
		id = s.newUUID()
	}

	user := lumen.User{
		ID:            id,
		AnonymousName: lumen.GenerateAnonymousName(),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return lumen.User{}, fmt.Errorf("create user: %w", err)
	}
	if s.userID == "" {
		if err := s.repo.SetLocalUserID(ctx, user.ID); err != nil {
			return lumen.User{}, fmt.Errorf("remember local identity: %w", err)
		}
	}
	s.logger.Info("created anonymous identity", "user", user.ID, "name", user.AnonymousName)
	return user, nil
}

func (s *Service) NotificationPreferences(ctx context.Context, userID string) (lumen.NotificationPreferences, error) {
	prefs, err := s.repo.NotificationPreferences(ctx, userID)
	if err != nil {
		return lumen.NotificationPreferences{}, fmt.Errorf("load notification preferences: %w", err)
	}
	return prefs, nil
}

// UpdateNotificationPreferences merges patch into the stored preferences
// and returns the result.
func (s *Service) UpdateNotificationPreferences(ctx context.Context, userID string, patch lumen.NotificationPreferencesPatch) (lumen.NotificationPreferences, error) {
	current, err := s.NotificationPreferences(ctx, userID)
	if err != nil {
		return lumen.NotificationPreferences{}, err
	}
	next := current.Merge(patch)
	if next == current {
		return current, nil
	}
	if err := s.repo.UpdateNotificationPreferences(ctx, userID, next); err != nil {
		return lumen.NotificationPreferences{}, fmt.Errorf("save notification preferences: %w", err)
	}
	return next, nil
}
