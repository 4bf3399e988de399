package storage

import (
	"fmt"
	"time"

	"github.com/glabrego/lumen-cli/internal/pager"
)

const createdColumn = "created_at_unix_ms"

// keyset orders rows by an optional sort column, then creation time, then id,
// and builds the start-after predicate for a cursor taken from the last row
// of the previous page.
type keyset struct {
	column    string
	ascending bool
}

func (k keyset) direction() (string, string) {
	if k.ascending {
		return "ASC", ">"
	}
	return "DESC", "<"
}

func (k keyset) byCreation() bool {
	return k.column == "" || k.column == createdColumn
}

func (k keyset) orderBy() string {
	dir, _ := k.direction()
	if k.byCreation() {
		return fmt.Sprintf("%s %s, id %s", createdColumn, dir, dir)
	}
	return fmt.Sprintf("%s %s, %s %s, id %s", k.column, dir, createdColumn, dir, dir)
}

func (k keyset) after(cursor pager.Cursor) (string, []any, error) {
	if cursor.IsZero() {
		return "", nil, nil
	}
	key, err := pager.DecodeKey(cursor)
	if err != nil {
		return "", nil, err
	}
	_, op := k.direction()
	created := toMillis(key.CreatedAt)
	if k.byCreation() {
		clause := fmt.Sprintf("(%[1]s %[2]s ? OR (%[1]s = ? AND id %[2]s ?))", createdColumn, op)
		return clause, []any{created, created, key.ID}, nil
	}
	clause := fmt.Sprintf(
		"(%[1]s %[3]s ? OR (%[1]s = ? AND %[2]s %[3]s ?) OR (%[1]s = ? AND %[2]s = ? AND id %[3]s ?))",
		k.column, createdColumn, op,
	)
	return clause, []any{key.Sort, key.Sort, created, key.Sort, created, key.ID}, nil
}

func (k keyset) cursor(sortValue int64, createdAt time.Time, id string) pager.Cursor {
	if k.byCreation() {
		sortValue = toMillis(createdAt)
	}
	return pager.EncodeKey(pager.Key{Sort: sortValue, CreatedAt: createdAt, ID: id})
}

// where joins conditions with AND.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	out := " WHERE " + w.clauses[0]
	for _, c := range w.clauses[1:] {
		out += " AND " + c
	}
	return out
}

func pageLimit(limit int) int {
	if limit < 1 {
		return pager.DefaultPageSize
	}
	return limit
}
