// Package migrations applies the embedded schema for the configured store.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitedb "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Driver names a supported database
type Driver string

const (
	Postgres Driver = "postgres"
	SQLite   Driver = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Run applies every pending migration for driver
func Run(db *sql.DB, driver Driver, logger *zap.Logger) error {
	src, err := iofs.New(files, string(driver))
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	var dbDriver database.Driver
	switch driver {
	case Postgres:
		dbDriver, err = postgresdb.WithInstance(db, &postgresdb.Config{})
	case SQLite:
		dbDriver, err = sqlitedb.WithInstance(db, &sqlitedb.Config{})
	default:
		return fmt.Errorf("unsupported migration driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(driver), dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	// m.Close would close db as well, so the instance is left for GC
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply", zap.String("driver", string(driver)))
	} else {
		logger.Info("Migrations applied successfully", zap.String("driver", string(driver)))
	}

	return nil
}
