// Package db wraps the pooled *sql.DB shared by every store. Each call
// borrows a connection from the pool for one statement and returns it on
// every exit path; driver errors are translated into the package sentinels.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Logger          *slog.Logger
}

type DB struct {
	sqldb  *sql.DB
	driver string
	dsn    string
	logger *slog.Logger
}

// Querier is satisfied by both *DB and *Tx.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) *Row
}

var (
	_ Querier = (*DB)(nil)
	_ Querier = (*Tx)(nil)
)

func Open(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("db: DSN must not be empty")
	}
	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}

	sqldb, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := &DB{sqldb: sqldb, driver: cfg.Driver, dsn: cfg.DSN, logger: logger}
	if err := d.Ping(ctx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	logger.Info("database connection established", "driver", cfg.Driver)
	return d, nil
}

func (d *DB) Raw() *sql.DB { return d.sqldb }
func (d *DB) Driver() string { return d.driver }
func (d *DB) Close() error { return d.sqldb.Close() }
func (d *DB) Stats() sql.DBStats { return d.sqldb.Stats() }

func (d *DB) Ping(ctx context.Context) error {
	return mapErr(d.sqldb.PingContext(ctx))
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.sqldb.ExecContext(ctx, query, args...)
	err = mapErr(err)
	d.logQuery(ctx, query, time.Since(start), err)
	return res, err
}

// Query runs a statement returning rows. The caller must close the rows.
func (d *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.sqldb.QueryContext(ctx, query, args...)
	err = mapErr(err)
	d.logQuery(ctx, query, time.Since(start), err)
	return rows, err
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) *Row {
	start := time.Now()
	raw := d.sqldb.QueryRowContext(ctx, query, args...)
	d.logQuery(ctx, query, time.Since(start), nil)
	return &Row{raw: raw}
}

// ExecTx runs fn inside a transaction, committing when fn returns nil and
// rolling back on error or panic.
func (d *DB) ExecTx(ctx context.Context, fn func(*Tx) error) (err error) {
	sqltx, err := d.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	tx := &Tx{sqltx: sqltx, db: d}

	defer func() {
		if p := recover(); p != nil {
			_ = sqltx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqltx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = fmt.Errorf("db: rollback failed (%v) after: %w", rbErr, err)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return mapErr(err)
	}
	if err = sqltx.Commit(); err != nil {
		return mapErr(err)
	}
	return nil
}

func (d *DB) logQuery(ctx context.Context, query string, dur time.Duration, err error) {
	if err != nil && !errors.Is(err, ErrNotFound) {
		d.logger.ErrorContext(ctx, "query failed", "query", trimQuery(query), "duration", dur, "error", err)
		return
	}
	d.logger.DebugContext(ctx, "query", "query", trimQuery(query), "duration", dur)
}

func trimQuery(q string) string {
	if len(q) > 200 {
		return q[:200] + "…"
	}
	return q
}

type Tx struct {
	sqltx *sql.Tx
	db    *DB
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := t.sqltx.ExecContext(ctx, query, args...)
	err = mapErr(err)
	t.db.logQuery(ctx, query, time.Since(start), err)
	return res, err
}

func (t *Tx) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.sqltx.QueryContext(ctx, query, args...)
	err = mapErr(err)
	t.db.logQuery(ctx, query, time.Since(start), err)
	return rows, err
}

func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) *Row {
	start := time.Now()
	raw := t.sqltx.QueryRowContext(ctx, query, args...)
	t.db.logQuery(ctx, query, time.Since(start), nil)
	return &Row{raw: raw}
}

// Row maps Scan errors so a missing row surfaces as ErrNotFound.
type Row struct {
	raw *sql.Row
}

func (r *Row) Scan(dest ...any) error {
	return mapErr(r.raw.Scan(dest...))
}
