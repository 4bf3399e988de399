package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/glabrego/lumen-cli/internal/logging"
	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
	"github.com/glabrego/lumen-cli/internal/storage"
)

const documentIDLength = 20

type Repository interface {
	CreatePost(ctx context.Context, post lumen.Post) error
	GetPost(ctx context.Context, id string) (lumen.Post, error)
	ListPosts(ctx context.Context, q storage.PostQuery) ([]lumen.Post, pager.Cursor, error)

	CreateComment(ctx context.Context, comment lumen.Comment) error
	GetComment(ctx context.Context, id string) (lumen.Comment, error)
	ListComments(ctx context.Context, q storage.CommentQuery) ([]lumen.Comment, pager.Cursor, error)

	ToggleHug(ctx context.Context, targetType lumen.TargetType, targetID, userID string) (bool, error)
	HasHugged(ctx context.Context, userID string, targetType lumen.TargetType, targetID string) (bool, error)
	HuggedTargetIDs(ctx context.Context, userID string, targetType lumen.TargetType, targetIDs []string) (map[string]struct{}, error)

	ListActiveCategories(ctx context.Context) ([]lumen.Category, error)
	GetCategory(ctx context.Context, id string) (lumen.Category, error)
	SeedCategories(ctx context.Context, categories []lumen.Category) error

	CreateUser(ctx context.Context, user lumen.User) error
	GetUser(ctx context.Context, id string) (lumen.User, error)
	LocalUserID(ctx context.Context) (string, error)
	SetLocalUserID(ctx context.Context, id string) error
	NotificationPreferences(ctx context.Context, userID string) (lumen.NotificationPreferences, error)
	UpdateNotificationPreferences(ctx context.Context, userID string, prefs lumen.NotificationPreferences) error

	InsertNotification(ctx context.Context, n lumen.Notification) error
	ListNotifications(ctx context.Context, userID string, cursor pager.Cursor, limit int) ([]lumen.Notification, pager.Cursor, error)
}

type Service struct {
	repo     Repository
	logger   *log.Logger
	errors   *ErrorLogger
	pageSize int
	userID   string
	now      func() time.Time
	newDocID func() (string, error)
	newUUID  func() string
}

type Option func(*Service)

func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPageSize sets the page size every fetcher asks the store for. It must
// match the page size of the controllers the fetchers are used with.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithUserID pins the identity CurrentUser returns.
func WithUserID(id string) Option {
	return func(s *Service) { s.userID = id }
}

// WithErrorLogger records side-effect failures that never reach the caller,
// such as a notification that could not be queued.
func WithErrorLogger(l *ErrorLogger) Option {
	return func(s *Service) { s.errors = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		logger:   logging.Discard(),
		pageSize: pager.DefaultPageSize,
		now:      time.Now,
		newDocID: func() (string, error) { return gonanoid.New(documentIDLength) },
		newUUID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithPrefix("app")
	return s
}

func (s *Service) PageSize() int { return s.pageSize }

// GetPost loads one post with the viewer's hug state.
func (s *Service) GetPost(ctx context.Context, id, viewerID string) (lumen.Post, error) {
	post, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return lumen.Post{}, fmt.Errorf("load post: %w", err)
	}
	if viewerID == "" {
		return post, nil
	}
	post.IsHugged, err = s.repo.HasHugged(ctx, viewerID, lumen.TargetPost, id)
	if err != nil {
		return lumen.Post{}, fmt.Errorf("load hug state: %w", err)
	}
	return post, nil
}

// warn reports a failure that is swallowed rather than returned.
func (s *Service) warn(ctx context.Context, message string, ec ErrorContext, keyvals ...any) {
	if s.errors == nil {
		s.logger.Warn(message, keyvals...)
		return
	}
	s.errors.LogWarning(ctx, message, ec, keyvals...)
}

func (s *Service) markHuggedPosts(ctx context.Context, viewerID string, posts []lumen.Post) error {
	if viewerID == "" || len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	hugged, err := s.repo.HuggedTargetIDs(ctx, viewerID, lumen.TargetPost, ids)
	if err != nil {
		return fmt.Errorf("load hug state: %w", err)
	}
	enrichPosts(posts, hugged)
	return nil
}

func (s *Service) markHuggedComments(ctx context.Context, viewerID string, comments []lumen.Comment) error {
	if viewerID == "" || len(comments) == 0 {
		return nil
	}
	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	hugged, err := s.repo.HuggedTargetIDs(ctx, viewerID, lumen.TargetComment, ids)
	if err != nil {
		return fmt.Errorf("load hug state: %w", err)
	}
	enrichComments(comments, hugged)
	return nil
}

func enrichPosts(posts []lumen.Post, hugged map[string]struct{}) {
	for i := range posts {
		_, posts[i].IsHugged = hugged[posts[i].ID]
	}
}

func enrichComments(comments []lumen.Comment, hugged map[string]struct{}) {
	for i := range comments {
		_, comments[i].IsHugged = hugged[comments[i].ID]
	}
}
