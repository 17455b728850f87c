package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:          "crimectl",
		Short:        "Normalize crime CSV extracts and load them into the database",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configDir, "config", "./config", "Directory containing config.yaml")

	root.AddCommand(normalizeCmd(&configDir))
	root.AddCommand(loadCmd(&configDir))
	return root
}
