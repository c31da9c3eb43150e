// Package app holds the start-up wiring shared by the bot and the HTTP server.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"lexicards/internal/config"
	"lexicards/internal/deck"
	"lexicards/internal/migrations"
	"lexicards/internal/repository"
	"lexicards/internal/repository/postgres"
	"lexicards/internal/repository/sqlite"
	"lexicards/internal/vocab"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// NewLogger builds a development logger for "debug" and a production
// logger at the given level otherwise
func NewLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}

// OpenStore connects to the configured store, applies migrations and
// returns the repository with the connection to close on shutdown
func OpenStore(cfg *config.Config, logger *zap.Logger) (repository.StateRepository, io.Closer, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := connectDatabase(cfg.DSN(), logger)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.Run(db, migrations.Postgres, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewStateRepo(db), db, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.Run(db.DB, migrations.SQLite, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("SQLite store opened", zap.String("path", cfg.Store.SQLitePath))
		return sqlite.NewStateRepo(db), db, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		logger.Info("Database connection established")
		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// LoadDeck reads the vocabulary at source, falling back to the built-in
// sample list, and returns the deck with the load outcome
func LoadDeck(ctx context.Context, source string, logger *zap.Logger) (*deck.Deck, vocab.Result) {
	res := vocab.NewLoader(logger).Load(ctx, source)
	d := deck.NewDeck(res.Entries)
	logger.Info("Deck ready",
		zap.Int("words", d.Len()),
		zap.Bool("fallback", res.Fallback))
	return d, res
}
