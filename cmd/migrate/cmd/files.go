package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/pos/backend/internal/infrastructure/migration"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

func sourceDir() (string, error) {
	dir := migrationsDir
	if dir == "" {
		dir = defaultMigrationsDir
	}
	return filepath.Abs(dir)
}

var createCmd = &cobra.Command{
	Use:     "create <name> [description]",
	Short:   "Create the next numbered up/down migration pair",
	Example: `  migrate create add_stock_location "Track the shelf of each stock unit"`,
	Args:    cobra.RangeArgs(1, 2),
	// create and list work on files only
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initLogger() },
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := sourceDir()
		if err != nil {
			return err
		}
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		mf, err := migration.CreateMigration(dir, args[0], description)
		if err != nil {
			return err
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:               "list",
	Short:             "List the migrations in the migrations directory",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initLogger() },
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := sourceDir()
		if err != nil {
			return err
		}
		names, err := migration.ListMigrations(dir)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			log.Info("No migrations found", zap.String("path", dir))
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd, listCmd)
}
