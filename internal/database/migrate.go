package database

import (
	"context"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/osse101/CommentGarden_Go/internal/database/migrations"
	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// Migrate runs the embedded goose migrations in the given direction and
// writes a status table to out for MigrateStatus.
func Migrate(ctx context.Context, pool *pgxpool.Pool, direction string, out io.Writer) error {
	// The wrapper keeps no idle connections, so the pool stays the only owner
	db := stdlib.OpenDBFromPool(pool)
	if out == nil {
		out = io.Discard
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLoadMigrations, err)
	}

	log := logger.FromContext(ctx)
	switch direction {
	case MigrateUp, "":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
		}
		for _, r := range results {
			log.Info(LogMsgMigrationApplied, "version", r.Source.Version, "duration", r.Duration)
		}
	case MigrateDown:
		r, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
		}
		log.Info(LogMsgMigrationRolledBack, "version", r.Source.Version)
	case MigrateStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
		}
		for _, s := range statuses {
			applied := "pending"
			if s.State == goose.StateApplied {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(out, "%-6d %-40s %s\n", s.Source.Version, s.Source.Path, applied)
		}
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	return nil
}
