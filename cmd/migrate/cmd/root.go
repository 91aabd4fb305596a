// Package cmd holds the migrate subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrationsDir string
	logLevel      string

	log *zap.Logger
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the POS ledger database schema",
	Long: `migrate applies the versioned SQL migrations to PostgreSQL.

MySQL and SQLite databases are created from the persistence models with
the automigrate command. Connection settings come from config.toml, a .env
file and POS_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogger(); err != nil {
			return err
		}
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func initLogger() error {
	l, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log = l
	return nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "path", "",
		"read migrations from this directory instead of the set embedded in the binary")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}
