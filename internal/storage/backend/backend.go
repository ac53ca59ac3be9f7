// Package backend opens the storage.Store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/trainload/internal/config"
	"github.com/claude/trainload/internal/storage"
	"github.com/claude/trainload/internal/storage/jsonstore"
	"github.com/claude/trainload/internal/storage/sqlstore"
)

// Migrate applies pending schema migrations for relational drivers. The JSON
// driver has no schema and is a no-op.
func Migrate(cfg config.StorageConfig) error {
	dialect, dsn, ok := sqlTarget(cfg)
	if !ok {
		return nil
	}
	return sqlstore.RunMigrations(dialect, dsn)
}

// Open migrates (for relational drivers) and opens the configured store.
func Open(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (storage.Store, error) {
	if dialect, dsn, ok := sqlTarget(cfg); ok {
		if err := sqlstore.RunMigrations(dialect, dsn); err != nil {
			return nil, fmt.Errorf("migrating %s: %w", dialect, err)
		}
		log.Info("migrations applied", "driver", cfg.Driver)

		st, err := sqlstore.Open(ctx, dialect, dsn)
		if err != nil {
			return nil, err
		}
		log.Info("database connected", "driver", cfg.Driver)
		return st, nil
	}

	switch cfg.Driver {
	case config.DriverJSON:
		st, err := jsonstore.Open(cfg.JSONPath)
		if err != nil {
			return nil, err
		}
		log.Info("json store opened", "path", st.Path())
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func sqlTarget(cfg config.StorageConfig) (sqlstore.Dialect, string, bool) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlstore.SQLite, cfg.SQLitePath, true
	case config.DriverPostgres:
		return sqlstore.Postgres, cfg.Postgres.DSN(), true
	default:
		return "", "", false
	}
}
