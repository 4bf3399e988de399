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
	postTitle    string
	postContent  string
	postCategory string
	postImage    string
	postName     string
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Share or read a post",
}

var postCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Share a new post",
	Long: `Share a new post under a category.

The post is signed with your anonymous name unless --name is given.
Markup is stripped from the title and content.

Examples:
  lumen post create --title "Can't sleep" --content "Exams next week" --category education`,
	Args: cobra.NoArgs,
	RunE: runPostCreate,
}

var postShowCmd = &cobra.Command{
	Use:   "show POST_ID",
	Short: "Show a post and its first page of comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostShow,
}

func init() {
	postCreateCmd.Flags().StringVarP(&postTitle, "title", "t", "", "Post title")
	postCreateCmd.Flags().StringVarP(&postContent, "content", "m", "", "Post content")
	postCreateCmd.Flags().StringVarP(&postCategory, "category", "c", lumen.OtherCategoryID, "Category id (see lumen categories)")
	postCreateCmd.Flags().StringVar(&postImage, "image", "", "Optional http(s) image URL")
	postCreateCmd.Flags().StringVar(&postName, "name", "", "Display name (default: your anonymous name)")

	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postShowCmd)
}

func runPostCreate(cmd *cobra.Command, args []string) error {
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		post, err := env.service.CreatePost(ctx, env.viewer, sanitize.PostInput{
			Title:      postTitle,
			Content:    postContent,
			CategoryID: postCategory,
			AuthorName: postName,
			ImageURL:   postImage,
		})
		if err != nil {
			return env.fail(ctx, err, "create_post", "submit")
		}
		fmt.Fprintf(env.out, "Posted %s as %s\n", post.ID, post.AuthorName)
		return nil
	})
}

func runPostShow(cmd *cobra.Command, args []string) error {
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		post, err := env.service.GetPost(ctx, args[0], env.viewer.ID)
		if isNotFound(err) {
			return fmt.Errorf("post %s not found", args[0])
		}
		if err != nil {
			return env.fail(ctx, err, "post_detail", "load")
		}
		now := time.Now()
		printPostDetail(env.out, post, now)

		thread := pager.New(env.service.PostCommentsFetcher(env.viewer.ID),
			app.CommentParams{PostID: post.ID, Sort: lumen.CommentOldest},
			pager.WithPageSize(env.cfg.PageSize), pager.WithLogger(env.logger))
		comments, hasMore, err := collectPages(ctx, thread, 1)
		if err != nil {
			return env.fail(ctx, fmt.Errorf("load comments: %w", err), "post_detail", "load_comments")
		}
		fmt.Fprintln(env.out)
		printComments(env.out, comments, hasMore, now)
		return nil
	})
}
