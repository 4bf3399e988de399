package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/glabrego/lumen-cli/internal/app"
	"github.com/glabrego/lumen-cli/internal/pager"
	tuiview "github.com/glabrego/lumen-cli/internal/tui/view"
)

var inboxPages int

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Show hugs and comments on your content",
	Args:  cobra.NoArgs,
	RunE:  runInbox,
}

func init() {
	inboxCmd.Flags().IntVarP(&inboxPages, "pages", "p", 1, "Number of pages to print")
}

func runInbox(cmd *cobra.Command, args []string) error {
	if inboxPages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		inbox := pager.New(env.service.InboxFetcher(), app.InboxParams{UserID: env.viewer.ID},
			pager.WithPageSize(env.cfg.PageSize), pager.WithLogger(env.logger))
		items, hasMore, err := collectPages(ctx, inbox, inboxPages)
		if err != nil {
			return env.fail(ctx, fmt.Errorf("load inbox: %w", err), "inbox", "load")
		}
		if len(items) == 0 {
			fmt.Fprintln(env.out, "Nothing new.")
			return nil
		}
		now := time.Now()
		for _, n := range items {
			fmt.Fprintf(env.out, "%s %s· %s · post %s%s\n", n.Message(), colorDim,
				tuiview.RelativeTimeLabel(now, n.CreatedAt), n.PostID, colorReset)
		}
		fmt.Fprintf(env.out, "\n%sShowing %d notification(s)%s%s\n", colorDim, len(items), moreHint(hasMore), colorReset)
		return nil
	})
}
