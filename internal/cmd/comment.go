package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/glabrego/lumen-cli/internal/app"
	"github.com/glabrego/lumen-cli/internal/lumen"
	"github.com/glabrego/lumen-cli/internal/pager"
	"github.com/glabrego/lumen-cli/internal/sanitize"
)

var (
	commentContent string
	commentName    string
	commentSort    string
	commentPages   int
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Reply to posts",
}

var commentAddCmd = &cobra.Command{
	Use:   "add POST_ID",
	Short: "Add a supportive comment",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentAdd,
}

var commentListCmd = &cobra.Command{
	Use:   "list POST_ID",
	Short: "List comments on a post",
	Long: `List comments on a post.

Examples:
  lumen comment list POST_ID                 # Oldest first
  lumen comment list POST_ID --sort popular  # Most hugged first`,
	Args: cobra.ExactArgs(1),
	RunE: runCommentList,
}

func init() {
	commentAddCmd.Flags().StringVarP(&commentContent, "content", "m", "", "Comment text")
	commentAddCmd.Flags().StringVar(&commentName, "name", "", "Display name (default: your anonymous name)")
	commentListCmd.Flags().StringVarP(&commentSort, "sort", "s", "oldest", "Sort order: oldest, newest, popular")
	commentListCmd.Flags().IntVarP(&commentPages, "pages", "p", 1, "Number of pages to print")

	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentListCmd)
}

func runCommentAdd(cmd *cobra.Command, args []string) error {
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		comment, err := env.service.CreateComment(ctx, env.viewer, args[0], sanitize.CommentInput{
			Content:    commentContent,
			AuthorName: commentName,
		})
		if isNotFound(err) {
			return fmt.Errorf("post %s not found", args[0])
		}
		if err != nil {
			return env.fail(ctx, err, "post_detail", "comment")
		}
		fmt.Fprintf(env.out, "Commented %s on %s\n", comment.ID, comment.PostID)
		return nil
	})
}

func runCommentList(cmd *cobra.Command, args []string) error {
	sort, err := lumen.ParseCommentSortOption(commentSort)
	if err != nil {
		return err
	}
	if commentPages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		thread := pager.New(env.service.PostCommentsFetcher(env.viewer.ID),
			app.CommentParams{PostID: args[0], Sort: sort},
			pager.WithPageSize(env.cfg.PageSize), pager.WithLogger(env.logger))
		comments, hasMore, err := collectPages(ctx, thread, commentPages)
		if err != nil {
			return env.fail(ctx, fmt.Errorf("load comments: %w", err), "post_detail", "load_comments")
		}
		printComments(env.out, comments, hasMore, time.Now())
		return nil
	})
}
