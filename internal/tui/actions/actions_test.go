package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
)

type fakeHugService struct {
	next bool
	err  error

	lastDeadline time.Time
	lastPostID   string
	lastComment  string
	lastViewer   lumen.User
}

func (f *fakeHugService) ToggleHug(ctx context.Context, postID string, viewer lumen.User) (bool, error) {
	if dl, ok := ctx.Deadline(); ok {
		f.lastDeadline = dl
	}
	f.lastPostID = postID
	f.lastViewer = viewer
	return f.next, f.err
}

func (f *fakeHugService) ToggleCommentHug(ctx context.Context, commentID string, viewer lumen.User) (bool, error) {
	if dl, ok := ctx.Deadline(); ok {
		f.lastDeadline = dl
	}
	f.lastComment = commentID
	f.lastViewer = viewer
	return f.next, f.err
}

type post struct{ id string }

func (p post) ItemID() string { return p.id }

func newController(t *testing.T, deadlines *[]time.Time, fail error) *pager.Controller[post, string] {
	t.Helper()
	fetch := func(ctx context.Context, cursor pager.Cursor, params string) (pager.Page[post], error) {
		if dl, ok := ctx.Deadline(); ok {
			*deadlines = append(*deadlines, dl)
		}
		if fail != nil {
			return pager.Page[post]{}, fail
		}
		if cursor == "" {
			return pager.Page[post]{Items: []post{{params + "-1"}, {params + "-2"}}, Next: "c1"}, nil
		}
		return pager.Page[post]{Items: []post{{params + "-3"}}}, nil
	}
	return pager.New(fetch, "all", pager.WithPageSize(2))
}

func TestListCmds(t *testing.T) {
	var deadlines []time.Time
	c := newController(t, &deadlines, nil)

	msg := StartCmd("feed", c, FetchTimeout)()
	done, ok := msg.(ListDoneMsg)
	if !ok {
		t.Fatalf("expected ListDoneMsg, got %T", msg)
	}
	if done.List != "feed" || done.Op != OpStart {
		t.Fatalf("unexpected start payload: %+v", done)
	}
	if got := len(c.Snapshot().Items); got != 2 {
		t.Fatalf("expected 2 items after start, got %d", got)
	}

	done = LoadMoreCmd("feed", c, LoadMoreTimeout)().(ListDoneMsg)
	if done.Op != OpLoadMore {
		t.Fatalf("unexpected load more op: %s", done.Op)
	}
	snap := c.Snapshot()
	if len(snap.Items) != 3 || snap.HasMore {
		t.Fatalf("unexpected snapshot after load more: %+v", snap)
	}

	done = SetParamsCmd("feed", c, "work", FetchTimeout)().(ListDoneMsg)
	if done.Op != OpParams {
		t.Fatalf("unexpected params op: %s", done.Op)
	}
	snap = c.Snapshot()
	if snap.Params != "work" || len(snap.Items) != 2 || snap.Items[0].id != "work-1" {
		t.Fatalf("unexpected snapshot after params change: %+v", snap)
	}

	done = RefreshCmd("feed", c, FetchTimeout)().(ListDoneMsg)
	if done.Op != OpRefresh {
		t.Fatalf("unexpected refresh op: %s", done.Op)
	}

	if len(deadlines) != 4 {
		t.Fatalf("expected every fetch to carry a deadline, got %d", len(deadlines))
	}
}

func TestListCmdFailureSurfacesInSnapshot(t *testing.T) {
	var deadlines []time.Time
	c := newController(t, &deadlines, errors.New("offline"))

	if _, ok := StartCmd("feed", c, FetchTimeout)().(ListDoneMsg); !ok {
		t.Fatal("expected ListDoneMsg even on failure")
	}
	snap := c.Snapshot()
	if !errors.Is(snap.Err, pager.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", snap.Err)
	}
	if len(snap.Items) != 0 {
		t.Fatalf("expected empty items, got %d", len(snap.Items))
	}
}

func TestToggleHugCmd(t *testing.T) {
	viewer := lumen.User{ID: "u1", AnonymousName: "KindOtter1"}
	svc := &fakeHugService{next: true}

	msg := ToggleHugCmd(svc, lumen.TargetPost, "p1", viewer, 3*time.Second)()
	success, ok := msg.(HugSuccessMsg)
	if !ok {
		t.Fatalf("expected HugSuccessMsg, got %T", msg)
	}
	if success.ID != "p1" || !success.Hugged || success.Status != "Sent a hug" || success.Target != lumen.TargetPost {
		t.Fatalf("unexpected hug payload: %+v", success)
	}
	if svc.lastPostID != "p1" || svc.lastViewer.ID != "u1" {
		t.Fatalf("unexpected args: post=%s viewer=%+v", svc.lastPostID, svc.lastViewer)
	}
	if svc.lastDeadline.IsZero() || time.Until(svc.lastDeadline) > 3*time.Second {
		t.Fatalf("expected hug deadline within the given timeout, got %v", svc.lastDeadline)
	}

	svc.next = false
	success = ToggleHugCmd(svc, lumen.TargetComment, "c1", viewer, FetchTimeout)().(HugSuccessMsg)
	if success.Target != lumen.TargetComment || success.Hugged || success.Status != "Hug removed" {
		t.Fatalf("unexpected comment hug payload: %+v", success)
	}
	if svc.lastComment != "c1" {
		t.Fatalf("expected comment toggle, got %q", svc.lastComment)
	}
}

func TestLoadMoreTimeoutFor(t *testing.T) {
	if got := LoadMoreTimeoutFor(FetchTimeout); got != LoadMoreTimeout {
		t.Fatalf("expected default load more timeout, got %v", got)
	}
	if got := LoadMoreTimeoutFor(30 * time.Second); got != 32*time.Second {
		t.Fatalf("expected 32s, got %v", got)
	}
}

func TestToggleHugCmdError(t *testing.T) {
	svc := &fakeHugService{err: errors.New("locked")}
	msg := ToggleHugCmd(svc, lumen.TargetPost, "p1", lumen.User{ID: "u1"}, FetchTimeout)()
	failure, ok := msg.(HugErrorMsg)
	if !ok {
		t.Fatalf("expected HugErrorMsg, got %T", msg)
	}
	if failure.ID != "p1" || failure.Err == nil {
		t.Fatalf("unexpected error payload: %+v", failure)
	}
}

func TestOpenURLCmd_Fallbacks(t *testing.T) {
	msg := OpenURLCmd("https://example.com/a.png",
		func(string) error { return nil },
		func(string) error { return nil },
	)()
	success, ok := msg.(OpenURLSuccessMsg)
	if !ok || !success.Opened {
		t.Fatalf("expected opened success, got %T %+v", msg, success)
	}

	msg = OpenURLCmd("https://example.com/a.png",
		func(string) error { return errors.New("open failed") },
		func(string) error { return nil },
	)()
	success, ok = msg.(OpenURLSuccessMsg)
	if !ok || success.Opened {
		t.Fatalf("expected copy fallback success, got %T %+v", msg, success)
	}

	msg = OpenURLCmd("https://example.com/a.png",
		func(string) error { return errors.New("open failed") },
		func(string) error { return errors.New("copy failed") },
	)()
	if _, ok := msg.(OpenURLErrorMsg); !ok {
		t.Fatalf("expected OpenURLErrorMsg, got %T", msg)
	}
}

func TestCopyURLCmd(t *testing.T) {
	msg := CopyURLCmd("https://example.com/a.png", func(string) error { return nil })()
	if _, ok := msg.(OpenURLSuccessMsg); !ok {
		t.Fatalf("expected OpenURLSuccessMsg, got %T", msg)
	}
	msg = CopyURLCmd("https://example.com/a.png", func(string) error { return errors.New("copy failed") })()
	if _, ok := msg.(OpenURLErrorMsg); !ok {
		t.Fatalf("expected OpenURLErrorMsg, got %T", msg)
	}
}
