package cmd

import (
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var automigrateCmd = &cobra.Command{
	Use:   "automigrate",
	Short: "Create or update the tables of a MySQL or SQLite database from the models",
	Long: `automigrate creates missing tables, columns and indexes from the GORM
persistence models. It never drops anything. PostgreSQL deployments should
use the versioned migrations (migrate up) instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Database.Driver == config.DriverPostgres {
			log.Warn("automigrate on postgres bypasses the versioned migrations")
		}
		db, err := persistence.NewDatabase(cfg.Database)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := persistence.AutoMigrate(db.DB); err != nil {
			return err
		}
		log.Info("Schema is up to date", zap.String("driver", db.Driver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(automigrateCmd)
}
