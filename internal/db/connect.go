package db

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/go-pg/pg/v10"
	"github.com/jackc/pgx"
	"github.com/jackc/pgx/stdlib"
	"github.com/pressly/goose/v3"
)

// Connect opens a go-pg connection pool for databaseURL and checks that storage answers.
func Connect(ctx context.Context, databaseURL string, poolSize int) (*pg.DB, error) {
	opt, err := pg.ParseURL(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w: %w", ErrConnection, err)
	}

	if poolSize > 0 {
		opt.PoolSize = poolSize
	}

	database := pg.Connect(opt)
	if err := database.Ping(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping database: %w: %w", ErrConnection, err)
	}

	return database, nil
}

// Migrate applies the pending migrations found in fsys, in version order.
// Applied versions are recorded in goose_db_version, so each migration runs at most once.
func Migrate(ctx context.Context, databaseURL string, fsys fs.FS, logger *slog.Logger) error {
	config, err := pgx.ParseConnectionString(databaseURL)
	if err != nil {
		return fmt.Errorf("parse connection string: %w: %w", ErrConnection, err)
	}

	sqldb := stdlib.OpenDB(config)
	defer sqldb.Close()

	if err := sqldb.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w: %w", ErrConnection, err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, sqldb, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w: %w", ErrMigration, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w: %w", ErrMigration, err)
	}

	if len(results) == 0 {
		logger.Info("database schema up to date")
		return nil
	}

	for _, res := range results {
		logger.Info("migration applied",
			"version", res.Source.Version,
			"path", res.Source.Path,
			"duration", res.Duration,
		)
	}

	return nil
}
