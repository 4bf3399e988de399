package lumen

import (
	"fmt"
	"time"
)

// SortOption orders the main feed.
type SortOption string

const (
	SortNewest       SortOption = "newest"
	SortPopular      SortOption = "popular"
	SortMostComments SortOption = "mostComments"
)

var feedSorts = []SortOption{SortNewest, SortPopular, SortMostComments}

func ParseSortOption(raw string) (SortOption, error) {
	switch raw {
	case "", "newest":
		return SortNewest, nil
	case "popular":
		return SortPopular, nil
	case "mostComments", "comments":
		return SortMostComments, nil
	}
	return "", fmt.Errorf("unknown sort option %q", raw)
}

// Next cycles through the feed sort modes.
func (s SortOption) Next() SortOption {
	for i, opt := range feedSorts {
		if opt == s {
			return feedSorts[(i+1)%len(feedSorts)]
		}
	}
	return SortNewest
}

func (s SortOption) Label() string {
	switch s {
	case SortPopular:
		return "Most hugged"
	case SortMostComments:
		return "Most comments"
	default:
		return "Newest"
	}
}

type ProfileSortOption string

const (
	ProfileNewest ProfileSortOption = "newest"
	ProfileOldest ProfileSortOption = "oldest"
)

func ParseProfileSortOption(raw string) (ProfileSortOption, error) {
	switch raw {
	case "", "newest":
		return ProfileNewest, nil
	case "oldest":
		return ProfileOldest, nil
	}
	return "", fmt.Errorf("unknown profile sort option %q", raw)
}

type CommentSortOption string

const (
	CommentOldest  CommentSortOption = "oldest"
	CommentNewest  CommentSortOption = "newest"
	CommentPopular CommentSortOption = "popular"
)

var commentSorts = []CommentSortOption{CommentOldest, CommentNewest, CommentPopular}

// Next cycles through the comment sort modes.
func (s CommentSortOption) Next() CommentSortOption {
	for i, opt := range commentSorts {
		if opt == s {
			return commentSorts[(i+1)%len(commentSorts)]
		}
	}
	return CommentOldest
}

func (s CommentSortOption) Label() string {
	switch s {
	case CommentNewest:
		return "Newest first"
	case CommentPopular:
		return "Most hugged"
	default:
		return "Oldest first"
	}
}

func ParseCommentSortOption(raw string) (CommentSortOption, error) {
	switch raw {
	case "", "oldest":
		return CommentOldest, nil
	case "newest":
		return CommentNewest, nil
	case "popular":
		return CommentPopular, nil
	}
	return "", fmt.Errorf("unknown comment sort option %q", raw)
}

// TimeRange restricts the feed by creation time.
type TimeRange string

const (
	TimeRange6h  TimeRange = "6h"
	TimeRange24h TimeRange = "24h"
	TimeRange1w  TimeRange = "1w"
	TimeRange1m  TimeRange = "1m"
	TimeRangeAll TimeRange = "all"
)

var timeRanges = []TimeRange{TimeRangeAll, TimeRange6h, TimeRange24h, TimeRange1w, TimeRange1m}

var timeRangeHours = map[TimeRange]int{
	TimeRange6h:  6,
	TimeRange24h: 24,
	TimeRange1w:  7 * 24,
	TimeRange1m:  30 * 24,
}

func ParseTimeRange(raw string) (TimeRange, error) {
	if raw == "" {
		return TimeRangeAll, nil
	}
	tr := TimeRange(raw)
	if tr == TimeRangeAll {
		return tr, nil
	}
	if _, ok := timeRangeHours[tr]; ok {
		return tr, nil
	}
	return "", fmt.Errorf("unknown time range %q", raw)
}

// Threshold returns the earliest creation time included by the range.
// The second result is false for TimeRangeAll and unknown values.
func (r TimeRange) Threshold(now time.Time) (time.Time, bool) {
	hours, ok := timeRangeHours[r]
	if !ok {
		return time.Time{}, false
	}
	return now.Add(-time.Duration(hours) * time.Hour), true
}

func (r TimeRange) Next() TimeRange {
	for i, tr := range timeRanges {
		if tr == r {
			return timeRanges[(i+1)%len(timeRanges)]
		}
	}
	return TimeRangeAll
}

func (r TimeRange) Label() string {
	switch r {
	case TimeRange6h:
		return "Last 6 hours"
	case TimeRange24h:
		return "Last 24 hours"
	case TimeRange1w:
		return "Last week"
	case TimeRange1m:
		return "Last month"
	default:
		return "All time"
	}
}
