package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/glabrego/lumen-cli/internal/app"
	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
)

var (
	profileSort  string
	profilePages int
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show who you are and what you shared",
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

var profilePostsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List your posts",
	Args:  cobra.NoArgs,
	RunE:  runProfilePosts,
}

var profileCommentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "List your comments",
	Args:  cobra.NoArgs,
	RunE:  runProfileComments,
}

func init() {
	profileCmd.PersistentFlags().StringVarP(&profileSort, "sort", "s", "newest", "Sort order: newest, oldest")
	profileCmd.PersistentFlags().IntVarP(&profilePages, "pages", "p", 1, "Number of pages to print")

	profileCmd.AddCommand(profilePostsCmd)
	profileCmd.AddCommand(profileCommentsCmd)
}

func profileParams(viewer lumen.User) (app.ProfileParams, error) {
	sort, err := lumen.ParseProfileSortOption(profileSort)
	if err != nil {
		return app.ProfileParams{}, err
	}
	if profilePages < 1 {
		return app.ProfileParams{}, fmt.Errorf("--pages must be at least 1")
	}
	return app.ProfileParams{AuthorID: viewer.ID, Sort: sort}, nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		fmt.Fprintf(env.out, "%s%s%s\n", colorBold, env.viewer.AnonymousName, colorReset)
		fmt.Fprintf(env.out, "%sID: %s · joined %s%s\n", colorDim, env.viewer.ID,
			env.viewer.CreatedAt.Local().Format("Jan 2, 2006"), colorReset)
		return nil
	})
}

func runProfilePosts(cmd *cobra.Command, args []string) error {
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		params, err := profileParams(env.viewer)
		if err != nil {
			return err
		}
		list := pager.New(env.service.ProfilePostsFetcher(env.viewer.ID), params,
			pager.WithPageSize(env.cfg.PageSize), pager.WithLogger(env.logger))
		posts, hasMore, err := collectPages(ctx, list, profilePages)
		if err != nil {
			return env.fail(ctx, fmt.Errorf("load posts: %w", err), "profile", "load_posts")
		}
		printPosts(env.out, posts, hasMore, time.Now())
		return nil
	})
}

func runProfileComments(cmd *cobra.Command, args []string) error {
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		params, err := profileParams(env.viewer)
		if err != nil {
			return err
		}
		list := pager.New(env.service.ProfileCommentsFetcher(env.viewer.ID), params,
			pager.WithPageSize(env.cfg.PageSize), pager.WithLogger(env.logger))
		comments, hasMore, err := collectPages(ctx, list, profilePages)
		if err != nil {
			return env.fail(ctx, fmt.Errorf("load comments: %w", err), "profile", "load_comments")
		}
		printComments(env.out, comments, hasMore, time.Now())
		return nil
	})
}
