// Package testdb prepares an isolated, migrated PostgreSQL schema for
// integration tests. Each test package passes its own schema name so packages
// can run concurrently against one database.
package testdb

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/coursewish/internal/app/migrations"
	"github.com/yigit/coursewish/internal/db"
)

// EnvDatabaseURL names the variable holding the test database DSN
const EnvDatabaseURL = "TEST_DATABASE_URL"

// DSN returns the test database DSN and whether it is set
func DSN() (string, bool) {
	dsn := os.Getenv(EnvDatabaseURL)
	return dsn, dsn != ""
}

// WithSearchPath pins every pooled connection of dsn to schema
func WithSearchPath(dsn, schema string) (string, error) {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return fmt.Sprintf("%s search_path=%s", dsn, schema), nil
	}
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid test database url: %w", err)
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Open connects to the test database, recreates schema and applies all migrations
func Open(ctx context.Context, dsn, schema string) (*db.PostgresDB, error) {
	scoped, err := WithSearchPath(dsn, schema)
	if err != nil {
		return nil, err
	}

	pg, err := db.NewPostgresDB(ctx, db.Options{ConnString: scoped, MaxConns: 5, Logger: zerolog.Nop()})
	if err != nil {
		return nil, err
	}

	ident := pgx.Identifier{schema}.Sanitize()
	if _, err := pg.Pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE; CREATE SCHEMA %s;", ident, ident)); err != nil {
		pg.Close()
		return nil, fmt.Errorf("failed to reset schema %s: %w", schema, err)
	}

	if _, err := migrations.NewMigrator(pg.Pool, zerolog.Nop()).Migrate(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("failed to migrate schema %s: %w", schema, err)
	}

	return pg, nil
}
