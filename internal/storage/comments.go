package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
)

// CommentQuery selects comments of one post or one author. A Limit of zero
// or less returns every matching comment.
type CommentQuery struct {
	PostID    string
	AuthorID  string
	ByHugs    bool
	Ascending bool
	Cursor    pager.Cursor
	Limit     int
}

const commentColumns = `id, post_id, content, author_id, author_name, hugs_count, created_at_unix_ms`

func (q CommentQuery) keyset() keyset {
	if q.ByHugs {
		return keyset{column: "hugs_count", ascending: q.Ascending}
	}
	return keyset{column: createdColumn, ascending: q.Ascending}
}

// CreateComment stores the comment and bumps the parent post's comment
// counter in the same transaction.
func (r *Repository) CreateComment(ctx context.Context, comment lumen.Comment) error {
	if comment.ID == "" {
		return errors.New("comment id is required")
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = r.now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
UPDATE posts SET comments_count = comments_count + 1, updated_at_unix_ms = ?
WHERE id = ?
`, toMillis(comment.CreatedAt), comment.PostID)
	if err != nil {
		return fmt.Errorf("bump comment count for post %s: %w", comment.PostID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return fmt.Errorf("post %s: %w", comment.PostID, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO comments (`+commentColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		comment.ID,
		comment.PostID,
		comment.Content,
		comment.AuthorID,
		comment.AuthorName,
		comment.HugsCount,
		toMillis(comment.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert comment %s: %w", comment.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) GetComment(ctx context.Context, id string) (lumen.Comment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
	comment, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return lumen.Comment{}, fmt.Errorf("comment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return lumen.Comment{}, fmt.Errorf("get comment %s: %w", id, err)
	}
	return comment, nil
}

func (r *Repository) ListComments(ctx context.Context, q CommentQuery) ([]lumen.Comment, pager.Cursor, error) {
	ks := q.keyset()

	var w where
	if q.PostID != "" {
		w.add("post_id = ?", q.PostID)
	}
	if q.AuthorID != "" {
		w.add("author_id = ?", q.AuthorID)
	}
	clause, args, err := ks.after(q.Cursor)
	if err != nil {
		return nil, "", err
	}
	if clause != "" {
		w.add(clause, args...)
	}

	query := `SELECT ` + commentColumns + ` FROM comments` + w.String() + ` ORDER BY ` + ks.orderBy()
	queryArgs := w.args
	if q.Limit > 0 {
		query += ` LIMIT ?`
		queryArgs = append(queryArgs, q.Limit+1)
	}

	rows, err := r.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, "", fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []lumen.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, "", fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("rows iteration: %w", err)
	}

	if q.Limit <= 0 || len(comments) <= q.Limit {
		return comments, "", nil
	}
	comments = comments[:q.Limit]
	last := comments[q.Limit-1]
	return comments, ks.cursor(int64(last.HugsCount), last.CreatedAt, last.ID), nil
}

func scanComment(row rowScanner) (lumen.Comment, error) {
	var comment lumen.Comment
	var createdMs int64
	if err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.Content,
		&comment.AuthorID,
		&comment.AuthorName,
		&comment.HugsCount,
		&createdMs,
	); err != nil {
		return lumen.Comment{}, err
	}
	comment.CreatedAt = fromMillis(createdMs)
	return comment, nil
}
