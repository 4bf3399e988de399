package state

import "github.com/glabrego/lumen-cli/internal/pager"

// LoadMoreThreshold is how close to the end of the list the cursor gets
// before the next page is requested.
const LoadMoreThreshold = 3

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// NearEnd reports whether cursor is within LoadMoreThreshold rows of the
// last item.
func NearEnd(cursor, size int) bool {
	if size <= 0 {
		return false
	}
	return cursor >= size-LoadMoreThreshold
}

func IndexByID[T pager.Item](items []T, id string) int {
	for i, item := range items {
		if item.ItemID() == id {
			return i
		}
	}
	return -1
}

// FollowItem keeps the selection on the same item after the list was
// replaced, falling back to the clamped previous position.
func FollowItem[T pager.Item](items []T, id string, cursor int) int {
	if id != "" {
		if idx := IndexByID(items, id); idx >= 0 {
			return idx
		}
	}
	return ClampCursor(cursor, len(items))
}
