package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
)

const notificationColumns = `id, user_id, type, post_id, comment_id, from_user_id, from_user_name, created_at_unix_ms`

func (r *Repository) InsertNotification(ctx context.Context, n lumen.Notification) error {
	if n.ID == "" {
		return errors.New("notification id is required")
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.now()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO notifications (`+notificationColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`,
		n.ID,
		n.UserID,
		string(n.Type),
		n.PostID,
		n.CommentID,
		n.FromUserID,
		n.FromUserName,
		toMillis(n.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert notification %s: %w", n.ID, err)
	}
	return nil
}

// ListNotifications pages the user's notifications, newest first.
func (r *Repository) ListNotifications(ctx context.Context, userID string, cursor pager.Cursor, limit int) ([]lumen.Notification, pager.Cursor, error) {
	limit = pageLimit(limit)
	ks := keyset{column: createdColumn}

	var w where
	w.add("user_id = ?", userID)
	clause, args, err := ks.after(cursor)
	if err != nil {
		return nil, "", err
	}
	if clause != "" {
		w.add(clause, args...)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications`+w.String()+` ORDER BY `+ks.orderBy()+` LIMIT ?`,
		append(w.args, limit+1)...,
	)
	if err != nil {
		return nil, "", fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := make([]lumen.Notification, 0, limit)
	for rows.Next() {
		var n lumen.Notification
		var typ string
		var createdMs int64
		if err := rows.Scan(&n.ID, &n.UserID, &typ, &n.PostID, &n.CommentID, &n.FromUserID, &n.FromUserName, &createdMs); err != nil {
			return nil, "", fmt.Errorf("scan notification: %w", err)
		}
		n.Type = lumen.NotificationType(typ)
		n.CreatedAt = fromMillis(createdMs)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("rows iteration: %w", err)
	}

	if len(out) <= limit {
		return out, "", nil
	}
	out = out[:limit]
	last := out[limit-1]
	return out, ks.cursor(0, last.CreatedAt, last.ID), nil
}
