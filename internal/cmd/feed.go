package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/glabrego/lumen-cli/internal/app"
	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
	"github.com/glabrego/lumen-cli/internal/sanitize"
	"github.com/glabrego/lumen-cli/internal/tui"
)

var (
	feedCategory string
	feedSort     string
	feedRange    string
	feedTUI      bool
	feedPages    int
	feedSearch   string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse posts",
	Long: `Browse posts, newest first by default.

Popular and most-commented sorts can be narrowed to a time range. The
range is ignored for the newest sort. --search filters the loaded pages
by title or content, ignoring case.

Examples:
  lumen feed                            # First page, newest first
  lumen feed --category work --pages 3  # Three pages of work posts
  lumen feed --sort popular --range 1w  # Most hugged this week
  lumen feed --pages 5 --search exam    # Loaded posts mentioning exams
  lumen feed --tui                      # Interactive feed`,
	Args: cobra.NoArgs,
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().StringVarP(&feedCategory, "category", "c", "", "Only show posts in this category")
	feedCmd.Flags().StringVarP(&feedSort, "sort", "s", "newest", "Sort order: newest, popular, comments")
	feedCmd.Flags().StringVarP(&feedRange, "range", "r", "all", "Time range for popular sorts: 6h, 24h, 1w, 1m, all")
	feedCmd.Flags().BoolVar(&feedTUI, "tui", false, "Open the interactive feed")
	feedCmd.Flags().IntVarP(&feedPages, "pages", "p", 1, "Number of pages to print")
	feedCmd.Flags().StringVarP(&feedSearch, "search", "q", "", "Only show loaded posts whose title or content contains this text")
}

func feedParamsFromFlags() (app.FeedParams, error) {
	sort, err := lumen.ParseSortOption(feedSort)
	if err != nil {
		return app.FeedParams{}, err
	}
	tr, err := lumen.ParseTimeRange(feedRange)
	if err != nil {
		return app.FeedParams{}, err
	}
	params := app.FeedParams{Sort: sort, TimeRange: tr}
	if feedCategory != "" {
		if !sanitize.CategoryID(feedCategory) {
			return app.FeedParams{}, fmt.Errorf("invalid category %q", feedCategory)
		}
		params.CategoryID = feedCategory
	}
	return params, nil
}

func runFeed(cmd *cobra.Command, args []string) error {
	params, err := feedParamsFromFlags()
	if err != nil {
		return err
	}
	if feedPages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	return runEnv(cmd, feedTUI, func(ctx context.Context, env *environment) error {
		opts := []pager.Option{pager.WithPageSize(env.cfg.PageSize), pager.WithLogger(env.logger)}
		feed := pager.New(env.service.FeedFetcher(env.viewer.ID), params, opts...)
		if feedTUI {
			return runFeedTUI(ctx, env, feed, opts)
		}

		posts, hasMore, err := collectPages(ctx, feed, feedPages)
		if err != nil {
			return env.fail(ctx, fmt.Errorf("load feed: %w", err), "feed", "load")
		}
		if query := strings.TrimSpace(feedSearch); query != "" {
			printSearchResults(env.out, lumen.FilterPosts(posts, query), len(posts), query, hasMore, time.Now())
			return nil
		}
		printPosts(env.out, posts, hasMore, time.Now())
		return nil
	})
}

func runFeedTUI(ctx context.Context, env *environment, feed *tui.FeedController, opts []pager.Option) error {
	categories, err := env.service.Categories(ctx)
	if err != nil {
		return err
	}
	comments := pager.New(env.service.PostCommentsFetcher(env.viewer.ID), app.CommentParams{},
		append(opts, pager.WithEnabled(false))...)

	model := tui.NewModel(tui.Config{
		Hugs:         env.service,
		Viewer:       env.viewer,
		Feed:         feed,
		Comments:     comments,
		Categories:   categories,
		Errors:       env.errors,
		Logger:       env.logger,
		FetchTimeout: env.cfg.FetchTimeout(),
		Search:       feedSearch,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
