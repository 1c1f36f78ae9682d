package main

import (
	"os"

	"github.com/spf13/cobra"

	"cloudriddle/internal/config"
)

var cfg *config.Config

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cfg = config.Load()

	root := &cobra.Command{
		Use:          "cloudctl",
		Short:        "Inspect the cloud photo and sensor container",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfg.StoreBackend, "backend", cfg.StoreBackend, "object store backend (azure or filesystem)")
	root.PersistentFlags().StringVar(&cfg.StoreDirectory, "dir", cfg.StoreDirectory, "object directory for the filesystem backend")
	root.PersistentFlags().StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "riddle history database path")

	root.AddCommand(latestCmd())
	root.AddCommand(sensorsCmd())
	root.AddCommand(shotTimeCmd())
	root.AddCommand(extractCmd())
	root.AddCommand(analyzeCmd())
	root.AddCommand(historyCmd())
	return root
}
