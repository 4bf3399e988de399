package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrorLog is one persisted client error or warning.
type ErrorLog struct {
	ID        string
	Level     string
	Message   string
	Stack     string
	UserID    string
	Screen    string
	Action    string
	Extra     map[string]string
	CreatedAt time.Time
}

func (r *Repository) InsertErrorLog(ctx context.Context, entry ErrorLog) error {
	if entry.ID == "" {
		return errors.New("error log id is required")
	}
	if entry.Level == "" {
		entry.Level = "error"
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now()
	}
	extra := []byte("{}")
	if len(entry.Extra) > 0 {
		var err error
		if extra, err = json.Marshal(entry.Extra); err != nil {
			return fmt.Errorf("encode error log extra: %w", err)
		}
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO error_logs (id, message, stack, user_id, screen, action, extra, level, created_at_unix_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		entry.ID,
		entry.Message,
		entry.Stack,
		entry.UserID,
		entry.Screen,
		entry.Action,
		string(extra),
		entry.Level,
		toMillis(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert error log %s: %w", entry.ID, err)
	}
	return nil
}

// RecentErrorLogs returns the newest entries first.
func (r *Repository) RecentErrorLogs(ctx context.Context, limit int) ([]ErrorLog, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, level, message, stack, user_id, screen, action, extra, created_at_unix_ms
FROM error_logs
ORDER BY created_at_unix_ms DESC, id DESC
LIMIT ?
`, pageLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query error logs: %w", err)
	}
	defer rows.Close()

	var logs []ErrorLog
	for rows.Next() {
		var entry ErrorLog
		var extra string
		var createdMs int64
		if err := rows.Scan(&entry.ID, &entry.Level, &entry.Message, &entry.Stack, &entry.UserID,
			&entry.Screen, &entry.Action, &extra, &createdMs); err != nil {
			return nil, fmt.Errorf("scan error log: %w", err)
		}
		if err := json.Unmarshal([]byte(extra), &entry.Extra); err != nil {
			return nil, fmt.Errorf("decode error log extra: %w", err)
		}
		entry.CreatedAt = fromMillis(createdMs)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return logs, nil
}
