package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var categoriesSeed bool

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List post categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

func init() {
	categoriesCmd.Flags().BoolVar(&categoriesSeed, "seed", false, "Restore the built-in catalog before listing")
}

func runCategories(cmd *cobra.Command, args []string) error {
	return runEnv(cmd, false, func(ctx context.Context, env *environment) error {
		if categoriesSeed {
			if err := env.service.SeedCategories(ctx); err != nil {
				return env.fail(ctx, err, "settings", "seed_categories")
			}
		}
		categories, err := env.service.Categories(ctx)
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Fprintf(env.out, "%s %-14s %s%s%s\n", c.Emoji, c.ID, colorDim, c.Name, colorReset)
		}
		return nil
	})
}
