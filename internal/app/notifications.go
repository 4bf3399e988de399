package app

import (
	"context"

	"github.com/glabrego/lumen-cli/internal/lumen"
)

func wantsNotification(prefs lumen.NotificationPreferences, typ lumen.NotificationType) bool {
	switch typ {
	case lumen.NotifyPostHug:
		return prefs.PostHug
	case lumen.NotifyPostComment:
		return prefs.PostComment
	case lumen.NotifyCommentHug:
		return prefs.CommentHug
	}
	return false
}

// notify queues a notification for recipient. Acting on your own content
// never notifies. Failures are logged and never surface to the caller.
func (s *Service) notify(ctx context.Context, recipientID string, typ lumen.NotificationType, postID, commentID string, from lumen.User) {
	if recipientID == "" || recipientID == from.ID {
		return
	}
	prefs, err := s.repo.NotificationPreferences(ctx, recipientID)
	if err != nil {
		s.warnNotify(ctx, "skip notification: load recipient preferences", recipientID, typ, from, err)
		return
	}
	if !wantsNotification(prefs, typ) {
		s.logger.Debug("notification muted", "user", recipientID, "type", typ)
		return
	}

	n := lumen.Notification{
		ID:           s.newUUID(),
		UserID:       recipientID,
		Type:         typ,
		PostID:       postID,
		CommentID:    commentID,
		FromUserID:   from.ID,
		FromUserName: from.AnonymousName,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.InsertNotification(ctx, n); err != nil {
		s.warnNotify(ctx, "skip notification: queue", recipientID, typ, from, err)
	}
}

func (s *Service) warnNotify(ctx context.Context, message, recipientID string, typ lumen.NotificationType, from lumen.User, err error) {
	s.warn(ctx, message, ErrorContext{
		UserID: from.ID,
		Screen: "notifications",
		Action: string(typ),
		Extra:  map[string]string{"recipient": recipientID, "err": err.Error()},
	}, "recipient", recipientID, "err", err)
}
