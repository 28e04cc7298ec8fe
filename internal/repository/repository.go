// Package repository provides the PostgreSQL access layer.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// pool is the subset of *pgxpool.Pool the repository uses.
// pgxmock.PgxPoolIface satisfies it in unit tests.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Repository provides database access methods.
type Repository struct {
	pool pool
}

// Options tunes connection setup.
type Options struct {
	// Retries is how many times a failed connect is retried.
	Retries uint64
	// Backoff is the initial retry delay; it doubles on every attempt.
	Backoff time.Duration
	Logger  *slog.Logger
}

// New creates a Repository with a connection pool, retrying the initial
// connect with exponential backoff.
func New(ctx context.Context, databaseURL string, opts Options) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var p *pgxpool.Pool
	backoff := retry.WithMaxRetries(opts.Retries, retry.NewExponential(opts.Backoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		candidate, err := pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		if err := candidate.Ping(ctx); err != nil {
			candidate.Close()
			opts.Logger.Warn("database not reachable, retrying", slog.String("error", err.Error()))
			return retry.RetryableError(fmt.Errorf("failed to ping database: %w", err))
		}
		p = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Repository{pool: p}, nil
}

// NewWithPool wraps an existing pool. Used by tests.
func NewWithPool(p pool) *Repository {
	return &Repository{pool: p}
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
