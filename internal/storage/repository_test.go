package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
)

var baseTime = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "lumen.db")
	repo, err := NewRepository(dbPath)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	return repo
}

// seedPosts stores five posts:
//
//	id  created   category  author  hugs  comments
//	a   +0m       work      u1      3     0
//	b   +1m       work      u2      5     2
//	c   +1m       work      u1      5     7
//	d   +2m       family    u2      0     1
//	e   +3m       family    u1      1     0
func seedPosts(t *testing.T, repo *Repository) {
	t.Helper()
	posts := []lumen.Post{
		{ID: "a", CategoryID: "work", AuthorID: "u1", HugsCount: 3, CreatedAt: baseTime},
		{ID: "b", CategoryID: "work", AuthorID: "u2", HugsCount: 5, CommentsCount: 2, CreatedAt: baseTime.Add(time.Minute)},
		{ID: "c", CategoryID: "work", AuthorID: "u1", HugsCount: 5, CommentsCount: 7, CreatedAt: baseTime.Add(time.Minute)},
		{ID: "d", CategoryID: "family", AuthorID: "u2", CommentsCount: 1, CreatedAt: baseTime.Add(2 * time.Minute)},
		{ID: "e", CategoryID: "family", AuthorID: "u1", HugsCount: 1, CreatedAt: baseTime.Add(3 * time.Minute)},
	}
	for _, p := range posts {
		p.Title = "Title " + p.ID
		p.Content = "Content " + p.ID
		p.AuthorName = "Author" + p.AuthorID
		if err := repo.CreatePost(context.Background(), p); err != nil {
			t.Fatalf("CreatePost(%s) returned error: %v", p.ID, err)
		}
	}
}

func collectPostIDs(t *testing.T, repo *Repository, q PostQuery) [][]string {
	t.Helper()
	var pages [][]string
	for i := 0; i < 10; i++ {
		posts, next, err := repo.ListPosts(context.Background(), q)
		if err != nil {
			t.Fatalf("ListPosts returned error: %v", err)
		}
		ids := make([]string, 0, len(posts))
		for _, p := range posts {
			ids = append(ids, p.ID)
		}
		pages = append(pages, ids)
		if next.IsZero() {
			return pages
		}
		q.Cursor = next
	}
	t.Fatal("pagination did not terminate")
	return nil
}

func TestRepository_ListPosts_NewestPagesWithoutOverlap(t *testing.T) {
	repo := newTestRepository(t)
	seedPosts(t, repo)

	got := collectPostIDs(t, repo, PostQuery{Sort: lumen.SortNewest, Limit: 2})
	want := [][]string{{"e", "d"}, {"c", "b"}, {"a"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
}

func TestRepository_ListPosts_PopularWithinCategory(t *testing.T) {
	repo := newTestRepository(t)
	seedPosts(t, repo)

	got := collectPostIDs(t, repo, PostQuery{CategoryID: "work", Sort: lumen.SortPopular, Limit: 2})
	want := [][]string{{"c", "b"}, {"a"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
}

func TestRepository_ListPosts_MostCommentsSinceThreshold(t *testing.T) {
	repo := newTestRepository(t)
	seedPosts(t, repo)

	got := collectPostIDs(t, repo, PostQuery{
		Sort:  lumen.SortMostComments,
		Since: baseTime.Add(time.Minute),
		Limit: 10,
	})
	want := [][]string{{"c", "b", "d", "e"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
}

func TestRepository_ListPosts_AuthorOldestFirst(t *testing.T) {
	repo := newTestRepository(t)
	seedPosts(t, repo)

	got := collectPostIDs(t, repo, PostQuery{AuthorID: "u1", Ascending: true, Limit: 2})
	want := [][]string{{"a", "c"}, {"e"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pages = %v, want %v", got, want)
	}
}

func TestRepository_ListPosts_ExactPageHasNoCursor(t *testing.T) {
	repo := newTestRepository(t)
	seedPosts(t, repo)

	posts, next, err := repo.ListPosts(context.Background(), PostQuery{Limit: 5})
	if err != nil {
		t.Fatalf("ListPosts returned error: %v", err)
	}
	if len(posts) != 5 || !next.IsZero() {
		t.Fatalf("expected 5 posts and no cursor, got %d posts and %q", len(posts), next)
	}
}

func TestRepository_ListPosts_RejectsInvalidCursor(t *testing.T) {
	repo := newTestRepository(t)

	_, _, err := repo.ListPosts(context.Background(), PostQuery{Cursor: "%%%"})
	if !errors.Is(err, pager.ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestRepository_GetPost(t *testing.T) {
	repo := newTestRepository(t)
	seedPosts(t, repo)

	post, err := repo.GetPost(context.Background(), "c")
	if err != nil {
		t.Fatalf("GetPost returned error: %v", err)
	}
	if post.Title != "Title c" || post.HugsCount != 5 || !post.CreatedAt.Equal(baseTime.Add(time.Minute)) {
		t.Fatalf("unexpected post: %+v", post)
	}

	if _, err := repo.GetPost(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_ToggleHug(t *testing.T) {
	repo := newTestRepository(t)
	seedPosts(t, repo)
	ctx := context.Background()

	hugged, err := repo.ToggleHug(ctx, lumen.TargetPost, "d", "viewer")
	if err != nil {
		t.Fatalf("ToggleHug returned error: %v", err)
	}
	if !hugged {
		t.Fatal("expected first toggle to hug")
	}
	post, _ := repo.GetPost(ctx, "d")
	if post.HugsCount != 1 {
		t.Fatalf("expected hugs_count 1, got %d", post.HugsCount)
	}
	if ok, _ := repo.HasHugged(ctx, "viewer", lumen.TargetPost, "d"); !ok {
		t.Fatal("expected HasHugged to report the hug")
	}

	hugged, err = repo.ToggleHug(ctx, lumen.TargetPost, "d", "viewer")
	if err != nil {
		t.Fatalf("second ToggleHug returned error: %v", err)
	}
	if hugged {
		t.Fatal("expected second toggle to remove the hug")
	}
	post, _ = repo.GetPost(ctx, "d")
	if post.HugsCount != 0 {
		t.Fatalf("expected hugs_count 0, got %d", post.HugsCount)
	}

	if _, err := repo.ToggleHug(ctx, lumen.TargetPost, "missing", "viewer"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_HuggedTargetIDs(t *testing.T) {
	repo := newTestRepository(t)
	seedPosts(t, repo)
	ctx := context.Background()

	for _, id := range []string{"a", "c"} {
		if _, err := repo.ToggleHug(ctx, lumen.TargetPost, id, "viewer"); err != nil {
			t.Fatalf("ToggleHug(%s) returned error: %v", id, err)
		}
	}
	if _, err := repo.ToggleHug(ctx, lumen.TargetPost, "b", "someone-else"); err != nil {
		t.Fatalf("ToggleHug returned error: %v", err)
	}

	got, err := repo.HuggedTargetIDs(ctx, "viewer", lumen.TargetPost, []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("HuggedTargetIDs returned error: %v", err)
	}
	want := map[string]struct{}{"a": {}, "c": {}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("hugged = %v, want %v", got, want)
	}

	empty, err := repo.HuggedTargetIDs(ctx, "viewer", lumen.TargetPost, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty result for no ids, got %v, %v", empty, err)
	}
}

func TestRepository_Comments(t *testing.T) {
	repo := newTestRepository(t)
	seedPosts(t, repo)
	ctx := context.Background()

	for i, id := range []string{"c1", "c2", "c3"} {
		err := repo.CreateComment(ctx, lumen.Comment{
			ID:         id,
			PostID:     "a",
			Content:    "reply " + id,
			AuthorID:   "u9",
			AuthorName: "Helper",
			CreatedAt:  baseTime.Add(time.Duration(i+10) * time.Minute),
		})
		if err != nil {
			t.Fatalf("CreateComment(%s) returned error: %v", id, err)
		}
	}

	post, _ := repo.GetPost(ctx, "a")
	if post.CommentsCount != 3 {
		t.Fatalf("expected comments_count 3, got %d", post.CommentsCount)
	}

	all, next, err := repo.ListComments(ctx, CommentQuery{PostID: "a", Ascending: true})
	if err != nil {
		t.Fatalf("ListComments returned error: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c1" || !next.IsZero() {
		t.Fatalf("unexpected comments: %+v next=%q", all, next)
	}

	if _, err := repo.ToggleHug(ctx, lumen.TargetComment, "c2", "viewer"); err != nil {
		t.Fatalf("ToggleHug returned error: %v", err)
	}
	page, next, err := repo.ListComments(ctx, CommentQuery{AuthorID: "u9", ByHugs: true, Limit: 1})
	if err != nil {
		t.Fatalf("ListComments returned error: %v", err)
	}
	if len(page) != 1 || page[0].ID != "c2" || page[0].HugsCount != 1 || next.IsZero() {
		t.Fatalf("unexpected popular page: %+v next=%q", page, next)
	}

	err = repo.CreateComment(ctx, lumen.Comment{ID: "orphan", PostID: "missing", CreatedAt: baseTime})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing post, got %v", err)
	}
	if _, err := repo.GetComment(ctx, "orphan"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("orphan comment should not be stored, got %v", err)
	}
}

func TestRepository_Categories(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	cats := lumen.DefaultCategories()
	cats[1].IsActive = false
	if err := repo.SeedCategories(ctx, cats); err != nil {
		t.Fatalf("SeedCategories returned error: %v", err)
	}
	if err := repo.SeedCategories(ctx, cats); err != nil {
		t.Fatalf("second SeedCategories returned error: %v", err)
	}

	active, err := repo.ListActiveCategories(ctx)
	if err != nil {
		t.Fatalf("ListActiveCategories returned error: %v", err)
	}
	if len(active) != len(cats)-1 {
		t.Fatalf("expected %d active categories, got %d", len(cats)-1, len(active))
	}
	if active[0].ID != cats[0].ID || active[1].ID != cats[2].ID {
		t.Fatalf("unexpected order: %+v", active[:2])
	}

	if _, err := repo.GetCategory(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_UsersAndPreferences(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if _, err := repo.LocalUserID(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before identity exists, got %v", err)
	}

	user := lumen.User{ID: "u1", AnonymousName: "QuietRiver7", CreatedAt: baseTime}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if err := repo.SetLocalUserID(ctx, user.ID); err != nil {
		t.Fatalf("SetLocalUserID returned error: %v", err)
	}
	if id, err := repo.LocalUserID(ctx); err != nil || id != "u1" {
		t.Fatalf("LocalUserID = %q, %v", id, err)
	}

	got, err := repo.GetUser(ctx, "u1")
	if err != nil || got.AnonymousName != "QuietRiver7" {
		t.Fatalf("GetUser = %+v, %v", got, err)
	}

	prefs, err := repo.NotificationPreferences(ctx, "u1")
	if err != nil || prefs != lumen.DefaultNotificationPreferences() {
		t.Fatalf("expected default prefs, got %+v, %v", prefs, err)
	}
	prefs.PostComment = false
	if err := repo.UpdateNotificationPreferences(ctx, "u1", prefs); err != nil {
		t.Fatalf("UpdateNotificationPreferences returned error: %v", err)
	}
	stored, _ := repo.NotificationPreferences(ctx, "u1")
	if stored.PostComment || !stored.PostHug {
		t.Fatalf("unexpected stored prefs: %+v", stored)
	}
	if err := repo.UpdateNotificationPreferences(ctx, "ghost", prefs); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.SavePushToken(ctx, "u1", "token-1"); err != nil {
		t.Fatalf("SavePushToken returned error: %v", err)
	}
	if token, _ := repo.PushToken(ctx, "u1"); token != "token-1" {
		t.Fatalf("PushToken = %q", token)
	}
}

func TestRepository_Notifications(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for i, id := range []string{"n1", "n2", "n3"} {
		err := repo.InsertNotification(ctx, lumen.Notification{
			ID:         id,
			UserID:     "u1",
			Type:       lumen.NotifyPostHug,
			PostID:     "a",
			FromUserID: "u2",
			CreatedAt:  baseTime.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("InsertNotification(%s) returned error: %v", id, err)
		}
	}

	first, next, err := repo.ListNotifications(ctx, "u1", "", 2)
	if err != nil {
		t.Fatalf("ListNotifications returned error: %v", err)
	}
	if len(first) != 2 || first[0].ID != "n3" || next.IsZero() {
		t.Fatalf("unexpected first page: %+v next=%q", first, next)
	}
	rest, next, err := repo.ListNotifications(ctx, "u1", next, 2)
	if err != nil {
		t.Fatalf("ListNotifications returned error: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != "n1" || !next.IsZero() {
		t.Fatalf("unexpected second page: %+v next=%q", rest, next)
	}
}

func TestRepository_ErrorLogs(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	err := repo.InsertErrorLog(ctx, ErrorLog{
		ID:      "log-1",
		Message: "fetch failed",
		Screen:  "feed",
		Extra:   map[string]string{"category": "work"},
	})
	if err != nil {
		t.Fatalf("InsertErrorLog returned error: %v", err)
	}

	logs, err := repo.RecentErrorLogs(ctx, 10)
	if err != nil {
		t.Fatalf("RecentErrorLogs returned error: %v", err)
	}
	if len(logs) != 1 || logs[0].Level != "error" || logs[0].Extra["category"] != "work" {
		t.Fatalf("unexpected logs: %+v", logs)
	}
}

func TestRepository_CheckWritable(t *testing.T) {
	repo := newTestRepository(t)
	if err := repo.CheckWritable(context.Background()); err != nil {
		t.Fatalf("CheckWritable returned error: %v", err)
	}
}
