package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/osse101/CommentGarden_Go/internal/config"
	"github.com/osse101/CommentGarden_Go/internal/database"
	"github.com/osse101/CommentGarden_Go/internal/storage/sqlite"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Manage the snapshot store schema",
		Long:      "Runs the embedded goose migrations against postgres. The sqlite store migrates itself on open, so only \"up\" applies there.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{database.MigrateUp, database.MigrateDown, database.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := database.MigrateUp
			if len(args) == 1 {
				direction = args[0]
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			ctx := cmd.Context()

			if cfg.StorageDriver == config.StorageDriverSQLite {
				if direction != database.MigrateUp {
					return fmt.Errorf("migrate %s is only supported for postgres", direction)
				}
				store, err := sqlite.Open(cfg.SQLitePath)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sqlite store at %s is up to date\n", cfg.SQLitePath)
				return store.Close()
			}

			pool, err := database.NewPool(ctx, database.NewPoolConfig(cfg.GetDBConnString(), cfg.DBMaxConns))
			if err != nil {
				return err
			}
			defer pool.Close()

			return database.Migrate(ctx, pool, direction, os.Stdout)
		},
	}
}
