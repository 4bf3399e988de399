package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/glabrego/lumen-cli/internal/lumen"
)

var (
	prefsPostHug     bool
	prefsPostComment bool
	prefsCommentHug  bool
	prefsPushToken   string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change notification preferences",
	Long: `Show or change which activity creates notifications for you.

Only the flags you pass are changed.

Examples:
  lumen prefs                        # Show current preferences
  lumen prefs --post-hug=false       # Stop hug notifications on posts`,
	Args: cobra.NoArgs,
	RunE: runPrefs,
}

func init() {
	prefsCmd.Flags().BoolVar(&prefsPostHug, "post-hug", true, "Notify when someone hugs your post")
	prefsCmd.Flags().BoolVar(&prefsPostComment, "post-comment", true, "Notify when someone comments on your post")
	prefsCmd.Flags().BoolVar(&prefsCommentHug, "comment-hug", true, "Notify when someone hugs your comment")
	prefsCmd.Flags().StringVar(&prefsPushToken, "push-token", "", "Register a device push token")
}

func prefsPatch(cmd *cobra.Command) (lumen.NotificationPreferencesPatch, bool) {
	var patch lumen.NotificationPreferencesPatch
	flags := cmd.Flags()
	if flags.Changed("post-hug") {
		patch.PostHug = &prefsPostHug
	}
	if flags.Changed("post-comment") {
		patch.PostComment = &prefsPostComment
	}
	if flags.Changed("comment-hug") {
		patch.CommentHug = &prefsCommentHug
	}
	changed := patch.PostHug != nil || patch.PostComment != nil || patch.CommentHug != nil
	return patch, changed
}

func runPrefs(cmd *cobra.Command, args []string) error {
	patch, changed := prefsPatch(cmd)
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		if prefsPushToken != "" {
			if err := env.repo.SavePushToken(ctx, env.viewer.ID, prefsPushToken); err != nil {
				return env.fail(ctx, err, "settings", "save_push_token")
			}
			fmt.Fprintln(env.out, "Push token saved")
		}

		var (
			prefs lumen.NotificationPreferences
			err   error
		)
		if changed {
			prefs, err = env.service.UpdateNotificationPreferences(ctx, env.viewer.ID, patch)
		} else {
			prefs, err = env.service.NotificationPreferences(ctx, env.viewer.ID)
		}
		if err != nil {
			return env.fail(ctx, err, "settings", "notification_preferences")
		}
		printPrefs(env.out, prefs)
		return nil
	})
}

func printPrefs(w io.Writer, prefs lumen.NotificationPreferences) {
	fmt.Fprintf(w, "post hugs:     %s\n", onOff(prefs.PostHug))
	fmt.Fprintf(w, "post comments: %s\n", onOff(prefs.PostComment))
	fmt.Fprintf(w, "comment hugs:  %s\n", onOff(prefs.CommentHug))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
