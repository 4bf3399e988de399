package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	colorMode  string
)

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "anonymous peer support from your terminal",
	Long: `lumen - share what weighs on you, anonymously
  - browse the feed by category, popularity or recency
  - send hugs and supportive comments`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $LUMEN_CONFIG or ~/.config/lumen/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Color output: auto, always, or never")

	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(hugCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(inboxCmd)
	rootCmd.AddCommand(errorsCmd)
}
