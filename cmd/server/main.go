// Package main is the entry point for the progression server and its operator commands
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-progression/internal/config"
)

var (
	configPath string
	storeKind  string
)

var rootCmd = &cobra.Command{
	Use:   "progression",
	Short: "RPG character progression server",
	Long: `progression runs the character progression engine: talents, experience, effective stats,
ability activation and resource regeneration.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "progression.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "override the character store (redis, sqlite, memory)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(healthCmd)
}

// loadConfig reads the config file, applies flag overrides and installs the process logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if storeKind != "" {
		cfg.Store.Kind = storeKind
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	slog.SetDefault(cfg.Logger())
	return &cfg, nil
}
