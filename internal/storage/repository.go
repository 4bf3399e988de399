// Package storage is the SQLite document store behind the board. It keeps
// posts, comments, hugs, categories, users, the notification outbox and
// error logs, and answers the paged queries the feed screens need.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a looked up row does not exist.
var ErrNotFound = errors.New("storage: not found")

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(path string) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// modernc.org/sqlite reads pragmas from the DSN as _pragma=name(value).
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return &Repository{db: db, now: time.Now}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS posts (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  category_id TEXT NOT NULL,
  author_id TEXT NOT NULL,
  author_name TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  hugs_count INTEGER NOT NULL DEFAULT 0,
  comments_count INTEGER NOT NULL DEFAULT 0,
  created_at_unix_ms INTEGER NOT NULL,
  updated_at_unix_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_category_created ON posts(category_id, created_at_unix_ms);
CREATE INDEX IF NOT EXISTS idx_posts_author_created ON posts(author_id, created_at_unix_ms);

CREATE TABLE IF NOT EXISTS comments (
  id TEXT PRIMARY KEY,
  post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
  content TEXT NOT NULL,
  author_id TEXT NOT NULL,
  author_name TEXT NOT NULL,
  hugs_count INTEGER NOT NULL DEFAULT 0,
  created_at_unix_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments(post_id, created_at_unix_ms);
CREATE INDEX IF NOT EXISTS idx_comments_author_created ON comments(author_id, created_at_unix_ms);

CREATE TABLE IF NOT EXISTS hugs (
  id TEXT PRIMARY KEY,
  target_id TEXT NOT NULL,
  target_type TEXT NOT NULL CHECK (target_type IN ('post', 'comment')),
  user_id TEXT NOT NULL,
  created_at_unix_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_hugs_user_type ON hugs(user_id, target_type, target_id);

CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  emoji TEXT NOT NULL,
  color TEXT NOT NULL,
  sort_order INTEGER NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  anonymous_name TEXT NOT NULL,
  created_at_unix_ms INTEGER NOT NULL,
  notify_post_hug INTEGER NOT NULL DEFAULT 1,
  notify_post_comment INTEGER NOT NULL DEFAULT 1,
  notify_comment_hug INTEGER NOT NULL DEFAULT 1,
  push_token TEXT NOT NULL DEFAULT '',
  push_token_updated_at_unix_ms INTEGER
);

CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  type TEXT NOT NULL,
  post_id TEXT NOT NULL,
  comment_id TEXT NOT NULL DEFAULT '',
  from_user_id TEXT NOT NULL,
  from_user_name TEXT NOT NULL,
  created_at_unix_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at_unix_ms);

CREATE TABLE IF NOT EXISTS error_logs (
  id TEXT PRIMARY KEY,
  message TEXT NOT NULL,
  stack TEXT NOT NULL DEFAULT '',
  user_id TEXT NOT NULL DEFAULT '',
  screen TEXT NOT NULL DEFAULT '',
  action TEXT NOT NULL DEFAULT '',
  extra TEXT NOT NULL DEFAULT '{}',
  level TEXT NOT NULL DEFAULT 'error',
  created_at_unix_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable verifies the database accepts writes.
func (r *Repository) CheckWritable(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO meta (key, value) VALUES ('write_check', ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, fmt.Sprint(r.now().UnixMilli())); err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM meta WHERE key = 'write_check'`); err != nil {
		return fmt.Errorf("clear write check: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
