package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/CommentGarden_Go/internal/config"
	"github.com/osse101/CommentGarden_Go/internal/database"
	"github.com/osse101/CommentGarden_Go/internal/database/postgres"
	"github.com/osse101/CommentGarden_Go/internal/repository"
	"github.com/osse101/CommentGarden_Go/internal/storage/sqlite"
)

// Store is a snapshot store that can report readiness
type Store interface {
	repository.Progression
	Ping(ctx context.Context) error
}

// OpenStore opens the configured snapshot store and brings its schema up to date
func OpenStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverSQLite, "":
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
		}
		slog.Info(LogMsgStoreOpened, "driver", config.StorageDriverSQLite, "path", cfg.SQLitePath)
		return store, nil

	case config.StorageDriverPostgres:
		pool, err := database.NewPool(ctx, database.NewPoolConfig(cfg.GetDBConnString(), cfg.DBMaxConns))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenStore, err)
		}
		if err := database.Migrate(ctx, pool, database.MigrateUp, nil); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrateStore, err)
		}
		slog.Info(LogMsgStoreOpened, "driver", config.StorageDriverPostgres, "host", cfg.DBHost, "db", cfg.DBName)
		return postgres.NewStore(pool), nil

	default:
		return nil, fmt.Errorf(ErrMsgUnsupportedDriverFmt, cfg.StorageDriver)
	}
}
