package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/glabrego/lumen-cli/internal/lumen"
)

const localUserKey = "local_user_id"

// CreateUser inserts the user. An existing id is left as is.
func (r *Repository) CreateUser(ctx context.Context, user lumen.User) error {
	if user.ID == "" {
		return errors.New("user id is required")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, anonymous_name, created_at_unix_ms)
VALUES (?, ?, ?)
ON CONFLICT(id) DO NOTHING
`, user.ID, user.AnonymousName, toMillis(user.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert user %s: %w", user.ID, err)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id string) (lumen.User, error) {
	var user lumen.User
	var createdMs int64
	err := r.db.QueryRowContext(ctx, `
SELECT id, anonymous_name, created_at_unix_ms FROM users WHERE id = ?
`, id).Scan(&user.ID, &user.AnonymousName, &createdMs)
	if errors.Is(err, sql.ErrNoRows) {
		return lumen.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return lumen.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	user.CreatedAt = fromMillis(createdMs)
	return user, nil
}

// LocalUserID returns the id of the identity this installation posts as.
func (r *Repository) LocalUserID(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, localUserKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get local user id: %w", err)
	}
	return id, nil
}

func (r *Repository) SetLocalUserID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO meta (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, localUserKey, id)
	if err != nil {
		return fmt.Errorf("set local user id: %w", err)
	}
	return nil
}

// NotificationPreferences returns the user's preferences, or the defaults
// when the user is unknown.
func (r *Repository) NotificationPreferences(ctx context.Context, userID string) (lumen.NotificationPreferences, error) {
	var postHug, postComment, commentHug int
	err := r.db.QueryRowContext(ctx, `
SELECT notify_post_hug, notify_post_comment, notify_comment_hug FROM users WHERE id = ?
`, userID).Scan(&postHug, &postComment, &commentHug)
	if errors.Is(err, sql.ErrNoRows) {
		return lumen.DefaultNotificationPreferences(), nil
	}
	if err != nil {
		return lumen.NotificationPreferences{}, fmt.Errorf("get notification preferences for %s: %w", userID, err)
	}
	return lumen.NotificationPreferences{
		PostHug:     postHug != 0,
		PostComment: postComment != 0,
		CommentHug:  commentHug != 0,
	}, nil
}

func (r *Repository) UpdateNotificationPreferences(ctx context.Context, userID string, prefs lumen.NotificationPreferences) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET notify_post_hug = ?, notify_post_comment = ?, notify_comment_hug = ?
WHERE id = ?
`, boolToInt(prefs.PostHug), boolToInt(prefs.PostComment), boolToInt(prefs.CommentHug), userID)
	if err != nil {
		return fmt.Errorf("update notification preferences for %s: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return nil
}

func (r *Repository) SavePushToken(ctx context.Context, userID, token string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET push_token = ?, push_token_updated_at_unix_ms = ? WHERE id = ?
`, token, toMillis(r.now()), userID)
	if err != nil {
		return fmt.Errorf("save push token for %s: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return nil
}

// PushToken returns the stored token, empty when none was saved.
func (r *Repository) PushToken(ctx context.Context, userID string) (string, error) {
	var token string
	err := r.db.QueryRowContext(ctx, `SELECT push_token FROM users WHERE id = ?`, userID).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get push token for %s: %w", userID, err)
	}
	return token, nil
}
