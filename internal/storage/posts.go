package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
)

// PostQuery selects one page of posts. Zero values mean "no filter".
type PostQuery struct {
	CategoryID string
	AuthorID   string
	Sort       lumen.SortOption
	Since      time.Time
	Ascending  bool
	Cursor     pager.Cursor
	Limit      int
}

const postColumns = `id, title, content, category_id, author_id, author_name, image_url,
  hugs_count, comments_count, created_at_unix_ms, updated_at_unix_ms`

func postKeyset(sort lumen.SortOption, ascending bool) keyset {
	switch sort {
	case lumen.SortPopular:
		return keyset{column: "hugs_count", ascending: ascending}
	case lumen.SortMostComments:
		return keyset{column: "comments_count", ascending: ascending}
	default:
		return keyset{column: createdColumn, ascending: ascending}
	}
}

func postSortValue(p lumen.Post, sort lumen.SortOption) int64 {
	switch sort {
	case lumen.SortPopular:
		return int64(p.HugsCount)
	case lumen.SortMostComments:
		return int64(p.CommentsCount)
	default:
		return toMillis(p.CreatedAt)
	}
}

func (r *Repository) CreatePost(ctx context.Context, post lumen.Post) error {
	if post.ID == "" {
		return errors.New("post id is required")
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = r.now()
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO posts (`+postColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		post.ID,
		post.Title,
		post.Content,
		post.CategoryID,
		post.AuthorID,
		post.AuthorName,
		post.ImageURL,
		post.HugsCount,
		post.CommentsCount,
		toMillis(post.CreatedAt),
		toMillis(post.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert post %s: %w", post.ID, err)
	}
	return nil
}

func (r *Repository) GetPost(ctx context.Context, id string) (lumen.Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return lumen.Post{}, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return lumen.Post{}, fmt.Errorf("get post %s: %w", id, err)
	}
	return post, nil
}

// ListPosts returns one page in keyset order. The returned cursor is empty
// when no rows follow the page.
func (r *Repository) ListPosts(ctx context.Context, q PostQuery) ([]lumen.Post, pager.Cursor, error) {
	limit := pageLimit(q.Limit)
	ks := postKeyset(q.Sort, q.Ascending)

	var w where
	if q.CategoryID != "" {
		w.add("category_id = ?", q.CategoryID)
	}
	if q.AuthorID != "" {
		w.add("author_id = ?", q.AuthorID)
	}
	if !q.Since.IsZero() {
		w.add(createdColumn+" >= ?", toMillis(q.Since))
	}
	clause, args, err := ks.after(q.Cursor)
	if err != nil {
		return nil, "", err
	}
	if clause != "" {
		w.add(clause, args...)
	}

	query := `SELECT ` + postColumns + ` FROM posts` + w.String() +
		` ORDER BY ` + ks.orderBy() + ` LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, append(w.args, limit+1)...)
	if err != nil {
		return nil, "", fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]lumen.Post, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, "", fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("rows iteration: %w", err)
	}

	if len(posts) <= limit {
		return posts, "", nil
	}
	posts = posts[:limit]
	last := posts[limit-1]
	return posts, ks.cursor(postSortValue(last, q.Sort), last.CreatedAt, last.ID), nil
}

func scanPost(row rowScanner) (lumen.Post, error) {
	var post lumen.Post
	var createdMs, updatedMs int64
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.CategoryID,
		&post.AuthorID,
		&post.AuthorName,
		&post.ImageURL,
		&post.HugsCount,
		&post.CommentsCount,
		&createdMs,
		&updatedMs,
	); err != nil {
		return lumen.Post{}, err
	}
	post.CreatedAt = fromMillis(createdMs)
	post.UpdatedAt = fromMillis(updatedMs)
	return post, nil
}
