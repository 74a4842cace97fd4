package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "classpilot",
	Short: "AI chat dispatch service for the school management platform",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Missing .env is fine; the environment may already be populated.
		_ = godotenv.Load()
	},
}

// Execute runs the CLI.
func Execute() error {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStatusCmd())
	return rootCmd.Execute()
}
