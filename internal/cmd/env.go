package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/glabrego/lumen-cli/internal/app"
	"github.com/glabrego/lumen-cli/internal/config"
	"github.com/glabrego/lumen-cli/internal/logging"
	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
	"github.com/glabrego/lumen-cli/internal/storage"
)

const setupTimeout = 15 * time.Second

// environment is everything a command needs: settings, the store, the
// service and the local identity.
type environment struct {
	cfg      config.Config
	logger   *log.Logger
	repo     *storage.Repository
	service  *app.Service
	errors   *app.ErrorLogger
	viewer   lumen.User
	out      io.Writer
	closeLog func() error
}

// openEnv loads config, opens the store and resolves the viewer. In TUI
// mode the log only goes to the configured file so it cannot corrupt the
// screen.
func openEnv(ctx context.Context, cmd *cobra.Command, tuiMode bool) (*environment, error) {
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	logOpts := logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}
	if !tuiMode {
		logOpts.Fallback = cmd.ErrOrStderr()
	}
	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("logging init error: %w", err)
	}

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	env := &environment{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		out:      cmd.OutOrStdout(),
		closeLog: closeLog,
	}

	if err := repo.Init(ctx); err != nil {
		env.close()
		return nil, fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		env.close()
		return nil, fmt.Errorf("storage write check failed (%w). Verify LUMEN_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	env.errors = app.NewErrorLogger(repo, logger)
	env.service = app.NewService(repo,
		app.WithLogger(logger),
		app.WithErrorLogger(env.errors),
		app.WithPageSize(cfg.PageSize),
		app.WithUserID(cfg.UserID),
	)

	viewer, err := env.service.CurrentUser(ctx)
	if err != nil {
		env.close()
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	env.viewer = viewer
	logger.Debug("environment ready", "db", cfg.DBPath, "user", viewer.ID, "page_size", cfg.PageSize)
	return env, nil
}

func (e *environment) close() {
	if err := e.repo.Close(); err != nil {
		e.logger.Warn("close store", "err", err)
	}
	_ = e.closeLog()
}

func (e *environment) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.cfg.FetchTimeout())
}

// fail records err in the error log before handing it back to cobra.
func (e *environment) fail(ctx context.Context, err error, screen, action string) error {
	if err == nil {
		return nil
	}
	e.errors.LogError(ctx, err, app.ErrorContext{UserID: e.viewer.ID, Screen: screen, Action: action})
	return err
}

// runEnv wraps a command body with environment setup and teardown.
func runEnv(cmd *cobra.Command, tuiMode bool, body func(ctx context.Context, env *environment) error) error {
	setupCtx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	env, err := openEnv(setupCtx, cmd, tuiMode)
	cancel()
	if err != nil {
		return err
	}
	defer env.close()
	applyColorMode(env.out)

	ctx, cancel := env.context()
	defer cancel()
	return body(ctx, env)
}

// collectPages loads up to pages pages through a list controller, the same
// way the feed screen does when scrolling.
func collectPages[T pager.Item, P comparable](ctx context.Context, c *pager.Controller[T, P], pages int) ([]T, bool, error) {
	c.Start(ctx)
	for i := 1; i < pages; i++ {
		snap := c.Snapshot()
		if snap.Err != nil || !snap.HasMore {
			break
		}
		c.LoadMore(ctx)
	}
	snap := c.Snapshot()
	if snap.Err != nil {
		return snap.Items, snap.HasMore, snap.Err
	}
	return snap.Items, snap.HasMore, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
