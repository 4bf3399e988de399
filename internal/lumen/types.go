// Package lumen holds the board's domain types shared by storage, the
// service layer and the UI.
package lumen

import "time"

// Post is a problem shared by an anonymous author under a category.
type Post struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CategoryID    string    `json:"categoryId"`
	AuthorID      string    `json:"authorId"`
	AuthorName    string    `json:"authorName"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	HugsCount     int       `json:"hugsCount"`
	CommentsCount int       `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// IsHugged is denormalised per viewer and never stored.
	IsHugged bool `json:"isHugged"`
}

func (p Post) ItemID() string { return p.ID }

// Comment is a reply to a post.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	HugsCount  int       `json:"hugsCount"`
	CreatedAt  time.Time `json:"createdAt"`

	IsHugged bool `json:"isHugged"`
}

func (c Comment) ItemID() string { return c.ID }

type User struct {
	ID            string    `json:"id"`
	AnonymousName string    `json:"anonymousName"`
	CreatedAt     time.Time `json:"createdAt"`
}

type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

// Hug is a reaction record. Its ID is derived from the user and target so a
// user can hug a target at most once.
type Hug struct {
	ID         string     `json:"id"`
	TargetID   string     `json:"targetId"`
	TargetType TargetType `json:"targetType"`
	UserID     string     `json:"userId"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func HugID(userID, targetID string) string {
	return userID + "_" + targetID
}

type NotificationPreferences struct {
	PostHug     bool `json:"postHug" yaml:"post_hug"`
	PostComment bool `json:"postComment" yaml:"post_comment"`
	CommentHug  bool `json:"commentHug" yaml:"comment_hug"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{PostHug: true, PostComment: true, CommentHug: true}
}

// NotificationPreferencesPatch is a partial update; nil fields are kept.
type NotificationPreferencesPatch struct {
	PostHug     *bool
	PostComment *bool
	CommentHug  *bool
}

func (p NotificationPreferences) Merge(patch NotificationPreferencesPatch) NotificationPreferences {
	if patch.PostHug != nil {
		p.PostHug = *patch.PostHug
	}
	if patch.PostComment != nil {
		p.PostComment = *patch.PostComment
	}
	if patch.CommentHug != nil {
		p.CommentHug = *patch.CommentHug
	}
	return p
}

type NotificationType string

const (
	NotifyPostHug     NotificationType = "post_hug"
	NotifyPostComment NotificationType = "post_comment"
	NotifyCommentHug  NotificationType = "comment_hug"
)

// Notification is an outbox record addressed to a content author.
type Notification struct {
	ID           string           `json:"id"`
	UserID       string           `json:"userId"`
	Type         NotificationType `json:"type"`
	PostID       string           `json:"postId"`
	CommentID    string           `json:"commentId,omitempty"`
	FromUserID   string           `json:"fromUserId"`
	FromUserName string           `json:"fromUserName"`
	CreatedAt    time.Time        `json:"createdAt"`
}

func (n Notification) ItemID() string { return n.ID }

// Message renders the human readable line for a notification.
func (n Notification) Message() string {
	name := n.FromUserName
	if name == "" {
		name = "Someone"
	}
	switch n.Type {
	case NotifyPostHug:
		return name + " hugged your post"
	case NotifyPostComment:
		return name + " commented on your post"
	case NotifyCommentHug:
		return name + " hugged your comment"
	default:
		return name + " interacted with your content"
	}
}
