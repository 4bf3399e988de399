package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var hugCmd = &cobra.Command{
	Use:   "hug",
	Short: "Send or take back a hug",
	Long: `Toggle your hug on a post or comment. Running the same command again
removes the hug.`,
}

var hugPostCmd = &cobra.Command{
	Use:   "post POST_ID",
	Short: "Toggle a hug on a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runHugPost,
}

var hugCommentCmd = &cobra.Command{
	Use:   "comment COMMENT_ID",
	Short: "Toggle a hug on a comment",
	Args:  cobra.ExactArgs(1),
	RunE:  runHugComment,
}

func init() {
	hugCmd.AddCommand(hugPostCmd)
	hugCmd.AddCommand(hugCommentCmd)
}

func runHugPost(cmd *cobra.Command, args []string) error {
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		hugged, err := env.service.ToggleHug(ctx, args[0], env.viewer)
		if isNotFound(err) {
			return fmt.Errorf("post %s not found", args[0])
		}
		if err != nil {
			return env.fail(ctx, err, "feed", "hug_post")
		}
		printHugResult(env, "post", args[0], hugged)
		return nil
	})
}

func runHugComment(cmd *cobra.Command, args []string) error {
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		hugged, err := env.service.ToggleCommentHug(ctx, args[0], env.viewer)
		if isNotFound(err) {
			return fmt.Errorf("comment %s not found", args[0])
		}
		if err != nil {
			return env.fail(ctx, err, "post_detail", "hug_comment")
		}
		printHugResult(env, "comment", args[0], hugged)
		return nil
	})
}

func printHugResult(env *environment, kind, id string, hugged bool) {
	if hugged {
		fmt.Fprintf(env.out, "Sent a hug to %s %s\n", kind, id)
		return
	}
	fmt.Fprintf(env.out, "Removed your hug from %s %s\n", kind, id)
}
