package app

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/glabrego/lumen-cli/internal/logging"
	"github.com/glabrego/lumen-cli/internal/storage"
)

type ErrorLogStore interface {
	InsertErrorLog(ctx context.Context, entry storage.ErrorLog) error
}

// ErrorContext says where an error happened.
type ErrorContext struct {
	UserID string
	Screen string
	Action string
	Extra  map[string]string
}

// ErrorLogger records errors to the structured log and the error_logs
// table. Persisting is best effort.
type ErrorLogger struct {
	store  ErrorLogStore
	logger *log.Logger
	now    func() time.Time
}

func NewErrorLogger(store ErrorLogStore, logger *log.Logger) *ErrorLogger {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ErrorLogger{store: store, logger: logger.WithPrefix("errors"), now: time.Now}
}

func (l *ErrorLogger) LogError(ctx context.Context, err error, ec ErrorContext) {
	if err == nil {
		return
	}
	l.logger.Error("operation failed", "err", err, "screen", ec.Screen, "action", ec.Action, "user", ec.UserID)
	l.persist(ctx, storage.ErrorLog{Level: "error", Message: err.Error()}, ec)
}

// LogWarning records a failure that was handled. keyvals only go to the
// structured log; put anything worth persisting in ec.Extra.
func (l *ErrorLogger) LogWarning(ctx context.Context, message string, ec ErrorContext, keyvals ...any) {
	kv := append([]any{"screen", ec.Screen, "action", ec.Action, "user", ec.UserID}, keyvals...)
	l.logger.Warn(message, kv...)
	l.persist(ctx, storage.ErrorLog{Level: "warning", Message: message}, ec)
}

func (l *ErrorLogger) persist(ctx context.Context, entry storage.ErrorLog, ec ErrorContext) {
	if l.store == nil {
		return
	}
	entry.ID = uuid.NewString()
	entry.UserID = ec.UserID
	entry.Screen = ec.Screen
	entry.Action = ec.Action
	entry.Extra = ec.Extra
	entry.CreatedAt = l.now().UTC()
	if err := l.store.InsertErrorLog(ctx, entry); err != nil {
		l.logger.Warn("persist error log", "err", err)
	}
}
