package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var errorsLimit int

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Show recently recorded errors",
	Args:  cobra.NoArgs,
	RunE:  runErrors,
}

func init() {
	errorsCmd.Flags().IntVarP(&errorsLimit, "limit", "n", 20, "Number of entries to show")
}

func runErrors(cmd *cobra.Command, args []string) error {
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		logs, err := env.repo.RecentErrorLogs(ctx, errorsLimit)
		if err != nil {
			return err
		}
		if len(logs) == 0 {
			fmt.Fprintln(env.out, "No errors recorded.")
			return nil
		}
		for _, entry := range logs {
			fmt.Fprintf(env.out, "%s%s%s %-7s %s/%s %s\n", colorDim,
				entry.CreatedAt.Local().Format("2006-01-02 15:04:05"), colorReset,
				entry.Level, entry.Screen, entry.Action, entry.Message)
		}
		return nil
	})
}
