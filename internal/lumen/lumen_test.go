package lumen

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeRange_Threshold(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		tr    TimeRange
		want  time.Time
		found bool
	}{
		{name: "6h", tr: TimeRange6h, want: now.Add(-6 * time.Hour), found: true},
		{name: "24h", tr: TimeRange24h, want: now.Add(-24 * time.Hour), found: true},
		{name: "1w", tr: TimeRange1w, want: now.Add(-168 * time.Hour), found: true},
		{name: "1m", tr: TimeRange1m, want: now.Add(-720 * time.Hour), found: true},
		{name: "all", tr: TimeRangeAll, found: false},
		{name: "unknown", tr: TimeRange("2y"), found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.tr.Threshold(now)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.True(t, tt.want.Equal(got), "threshold = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSortOption(t *testing.T) {
	got, err := ParseSortOption("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, got)

	got, err = ParseSortOption("comments")
	require.NoError(t, err)
	assert.Equal(t, SortMostComments, got)

	_, err = ParseSortOption("random")
	assert.Error(t, err)
}

func TestSortOption_NextCycles(t *testing.T) {
	assert.Equal(t, SortPopular, SortNewest.Next())
	assert.Equal(t, SortMostComments, SortPopular.Next())
	assert.Equal(t, SortNewest, SortMostComments.Next())
}

func TestCommentSortOption_NextCycles(t *testing.T) {
	assert.Equal(t, CommentNewest, CommentOldest.Next())
	assert.Equal(t, CommentPopular, CommentNewest.Next())
	assert.Equal(t, CommentOldest, CommentPopular.Next())
	assert.Equal(t, CommentNewest, CommentSortOption("").Next().Next())
	assert.Equal(t, "Most hugged", CommentPopular.Label())
}

func TestPost_MatchesSearch(t *testing.T) {
	post := Post{Title: "Moving to Lisbon", Content: "I feel LONELY after work"}

	assert.True(t, post.MatchesSearch("lisbon"), "title match ignores case")
	assert.True(t, post.MatchesSearch("MOVING"))
	assert.True(t, post.MatchesSearch("lonely"), "content match ignores case")
	assert.True(t, post.MatchesSearch("  after Work "))
	assert.True(t, post.MatchesSearch(""))
	assert.False(t, post.MatchesSearch("paris"))
	assert.True(t, Post{Title: "ÉTÉ difficile"}.MatchesSearch("été"))
}

func TestFilterPosts(t *testing.T) {
	posts := []Post{
		{ID: "p1", Title: "Exams next week", Content: "stressed"},
		{ID: "p2", Title: "Family dinner", Content: "My exam results were bad"},
		{ID: "p3", Title: "Nothing", Content: "quiet day"},
	}
	got := FilterPosts(posts, "EXAM")
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID, "title match")
	assert.Equal(t, "p2", got[1].ID, "content match")

	assert.Len(t, FilterPosts(posts, " "), 3)
	assert.Empty(t, FilterPosts(posts, "holiday"))
}

func TestParseTimeRange(t *testing.T) {
	got, err := ParseTimeRange("1w")
	require.NoError(t, err)
	assert.Equal(t, TimeRange1w, got)

	got, err = ParseTimeRange("")
	require.NoError(t, err)
	assert.Equal(t, TimeRangeAll, got)

	_, err = ParseTimeRange("forever")
	assert.Error(t, err)
}

func TestCategoryInfo_FallsBackToOther(t *testing.T) {
	assert.Equal(t, "Other", CategoryInfo("does-not-exist").Name)
	assert.Equal(t, "Family", CategoryInfo("family").Name)
}

func TestDefaultCategories_OrderedAndActive(t *testing.T) {
	cats := DefaultCategories()
	require.Len(t, cats, len(CategoryIDs))
	for i, c := range cats {
		assert.Equal(t, i+1, c.Order)
		assert.True(t, c.IsActive)
		assert.NotEmpty(t, c.Emoji)
	}
}

func TestAnonymousName(t *testing.T) {
	name := anonymousName(func(n int) int { return n - 1 })
	assert.Equal(t, "CuriousMountain998", name)

	assert.Regexp(t, regexp.MustCompile(`^[A-Z][a-z]+[A-Z][a-z]+\d{1,3}$`), GenerateAnonymousName())
}

func TestNotificationPreferences_Merge(t *testing.T) {
	off := false
	prefs := DefaultNotificationPreferences().Merge(NotificationPreferencesPatch{PostComment: &off})
	assert.Equal(t, NotificationPreferences{PostHug: true, PostComment: false, CommentHug: true}, prefs)
}

func TestNotification_Message(t *testing.T) {
	n := Notification{Type: NotifyCommentHug, FromUserName: "BraveSea1"}
	assert.Equal(t, "BraveSea1 hugged your comment", n.Message())
	assert.Equal(t, "Someone hugged your post", Notification{Type: NotifyPostHug}.Message())
}
