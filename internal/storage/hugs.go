package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/glabrego/lumen-cli/internal/lumen"
)

func hugTable(targetType lumen.TargetType) (string, error) {
	switch targetType {
	case lumen.TargetPost:
		return "posts", nil
	case lumen.TargetComment:
		return "comments", nil
	}
	return "", fmt.Errorf("unknown hug target type %q", targetType)
}

// ToggleHug adds the user's hug to the target, or removes it when present,
// adjusting the target's hug counter in the same transaction. It returns
// whether the target is hugged afterwards.
func (r *Repository) ToggleHug(ctx context.Context, targetType lumen.TargetType, targetID, userID string) (bool, error) {
	table, err := hugTable(targetType)
	if err != nil {
		return false, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, targetID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%s %s: %w", targetType, targetID, ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("look up %s %s: %w", targetType, targetID, err)
	}

	hugID := lumen.HugID(userID, targetID)
	res, err := tx.ExecContext(ctx, `DELETE FROM hugs WHERE id = ?`, hugID)
	if err != nil {
		return false, fmt.Errorf("delete hug %s: %w", hugID, err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	hugged := removed == 0
	if hugged {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO hugs (id, target_id, target_type, user_id, created_at_unix_ms)
VALUES (?, ?, ?, ?, ?)
`, hugID, targetID, string(targetType), userID, toMillis(r.now())); err != nil {
			return false, fmt.Errorf("insert hug %s: %w", hugID, err)
		}
		_, err = tx.ExecContext(ctx, `UPDATE `+table+` SET hugs_count = hugs_count + 1 WHERE id = ?`, targetID)
	} else {
		_, err = tx.ExecContext(ctx, `UPDATE `+table+` SET hugs_count = MAX(hugs_count - 1, 0) WHERE id = ?`, targetID)
	}
	if err != nil {
		return false, fmt.Errorf("update hug count on %s %s: %w", targetType, targetID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return hugged, nil
}

func (r *Repository) HasHugged(ctx context.Context, userID string, targetType lumen.TargetType, targetID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
SELECT 1 FROM hugs WHERE id = ? AND target_type = ?
`, lumen.HugID(userID, targetID), string(targetType)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query hug: %w", err)
	}
	return true, nil
}

// HuggedTargetIDs returns the subset of targetIDs the user has hugged, using
// a single query.
func (r *Repository) HuggedTargetIDs(ctx context.Context, userID string, targetType lumen.TargetType, targetIDs []string) (map[string]struct{}, error) {
	hugged := make(map[string]struct{})
	if userID == "" || len(targetIDs) == 0 {
		return hugged, nil
	}

	args := make([]any, 0, len(targetIDs)+2)
	args = append(args, userID, string(targetType))
	for _, id := range targetIDs {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(targetIDs)), ",")

	rows, err := r.db.QueryContext(ctx, `
SELECT target_id FROM hugs
WHERE user_id = ? AND target_type = ? AND target_id IN (`+placeholders+`)
`, args...)
	if err != nil {
		return nil, fmt.Errorf("query hugged targets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan hugged target: %w", err)
		}
		hugged[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return hugged, nil
}
