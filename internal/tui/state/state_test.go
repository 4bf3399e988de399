package state

import "testing"

type row string

func (r row) ItemID() string { return string(r) }

func TestClampCursor(t *testing.T) {
	if got := ClampCursor(-1, 3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampCursor(3, 3); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
	if got := ClampCursor(1, 3); got != 1 {
		t.Fatalf("expected keep 1, got %d", got)
	}
	if got := ClampCursor(5, 0); got != 0 {
		t.Fatalf("expected 0 for empty list, got %d", got)
	}
}

func TestPageStep(t *testing.T) {
	if got := PageStep(0, false); got != 10 {
		t.Fatalf("expected default step 10, got %d", got)
	}
	if got := PageStep(12, false); got != 6 {
		t.Fatalf("expected step 6, got %d", got)
	}
	if got := PageStep(12, true); got != 4 {
		t.Fatalf("expected step 4 with status, got %d", got)
	}
}

func TestCenteredWindow(t *testing.T) {
	start, end := CenteredWindow(5, 3, 3)
	if start != 2 || end != 5 {
		t.Fatalf("unexpected window: start=%d end=%d", start, end)
	}
	start, end = CenteredWindow(2, 1, 10)
	if start != 0 || end != 2 {
		t.Fatalf("expected whole list when it fits, got start=%d end=%d", start, end)
	}
	start, end = CenteredWindow(0, 0, 10)
	if start != 0 || end != 0 {
		t.Fatalf("expected empty window, got start=%d end=%d", start, end)
	}
}

func TestNearEnd(t *testing.T) {
	if NearEnd(0, 0) {
		t.Fatal("empty list is never near the end")
	}
	if NearEnd(5, 20) {
		t.Fatal("cursor 5 of 20 should not trigger load more")
	}
	if !NearEnd(17, 20) {
		t.Fatal("cursor 17 of 20 should trigger load more")
	}
	if !NearEnd(0, 2) {
		t.Fatal("short lists are always near the end")
	}
}

func TestSelectionHelpers(t *testing.T) {
	items := []row{"a", "b", "c"}
	if got := IndexByID(items, "b"); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := IndexByID(items, "zz"); got != -1 {
		t.Fatalf("expected -1 for missing id, got %d", got)
	}
	if got := FollowItem(items, "c", 0); got != 2 {
		t.Fatalf("expected selection to follow item c, got %d", got)
	}
	if got := FollowItem(items, "gone", 7); got != 2 {
		t.Fatalf("expected clamped fallback, got %d", got)
	}
	if got := FollowItem([]row{}, "a", 3); got != 0 {
		t.Fatalf("expected 0 on empty list, got %d", got)
	}
}
