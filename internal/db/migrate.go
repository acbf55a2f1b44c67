package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite3/*.sql
var migrationFS embed.FS

// Migrate brings the schema up to the latest embedded version for the
// connected driver. It runs on its own short-lived pool so the migration
// driver never holds a connection of the shared one.
func (d *DB) Migrate() (err error) {
	src, err := iofs.New(migrationFS, "migrations/"+d.driver)
	if err != nil {
		return fmt.Errorf("db: migration source: %w", err)
	}

	conn, err := sql.Open(d.driver, d.dsn)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("db: migration open: %w", err)
	}

	var drv database.Driver
	switch d.driver {
	case DriverPostgres:
		drv, err = migratepg.WithInstance(conn, &migratepg.Config{})
	case DriverSQLite:
		drv, err = migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", d.driver)
	}
	if err != nil {
		_ = src.Close()
		_ = conn.Close()
		return fmt.Errorf("db: migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, d.driver, drv)
	if err != nil {
		_ = src.Close()
		_ = drv.Close()
		_ = conn.Close()
		return fmt.Errorf("db: migration init: %w", err)
	}
	m.Log = &migrateLogger{logger: d.logger}
	defer func() {
		srcErr, dbErr := m.Close()
		_ = conn.Close()
		if err == nil {
			err = errors.Join(srcErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("db: migrate up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("db: migration version: %w", err)
	}
	d.logger.Info("migrations: up completed", "version", version, "dirty", dirty)
	return nil
}

type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *migrateLogger) Verbose() bool { return false }
