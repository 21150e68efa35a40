package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/coursewish/internal/config"
	"github.com/yigit/coursewish/internal/pkg/helpers"
	"github.com/yigit/coursewish/internal/pkg/logger"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx, so repositories
// can run either directly on the pool or inside a unit of work.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ DBTX = (*pgxpool.Pool)(nil)
	_ DBTX = (pgx.Tx)(nil)
)

// DefaultTxTimeout bounds a unit of work whose context carries no deadline
const DefaultTxTimeout = 30 * time.Second

// Options configures the connection pool
type Options struct {
	ConnString      string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	// Echo logs every statement through Logger
	Echo   bool
	Logger zerolog.Logger
}

// OptionsFromConfig derives pool options from the application configuration
func OptionsFromConfig(cfg *config.Config, lgr zerolog.Logger) Options {
	return Options{
		ConnString:      cfg.GetPostgresConnectionString(),
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		ConnMaxLifetime: helpers.ParseDuration(cfg.Database.ConnMaxLifetime, time.Hour),
		Echo:            cfg.Database.Echo,
		Logger:          lgr,
	}
}

// PostgresDB database connection structure
type PostgresDB struct {
	Pool   *pgxpool.Pool
	logger zerolog.Logger
}

// PoolConfig turns Options into a pgxpool configuration without connecting
func PoolConfig(opts Options) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	if opts.MaxConns > 0 {
		poolConfig.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 && opts.MinConns <= poolConfig.MaxConns {
		poolConfig.MinConns = opts.MinConns
	}
	if opts.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.ConnMaxLifetime
	}

	lgr := opts.Logger
	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			lgr.Warn().Err(err).Msg("Unhealthy connection detected")
			return false
		}
		return true
	}

	if opts.Echo {
		poolConfig.ConnConfig.Tracer = logger.NewPgxTracer(lgr)
	}

	return poolConfig, nil
}

// NewPostgresDB creates a connection pool and verifies it with a ping
func NewPostgresDB(ctx context.Context, opts Options) (*PostgresDB, error) {
	poolConfig, err := PoolConfig(opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return &PostgresDB{Pool: pool, logger: opts.Logger}, nil
}

// Ping checks that a connection can be acquired and used
func (db *PostgresDB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close closing method
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx pgx.Tx) error

// WithTransaction runs fn as one unit of work: committed when fn returns nil,
// rolled back when it returns an error or panics. Values read inside fn are plain
// Go structs and remain valid after commit.
func (db *PostgresDB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	return RunInTx(ctx, db.Pool, db.logger, fn)
}

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// RunInTx is the unit-of-work primitive behind WithTransaction
func RunInTx(ctx context.Context, b TxBeginner, lgr zerolog.Logger, fn TransactionFn) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTxTimeout)
		defer cancel()
	}

	tx, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			lgr.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
