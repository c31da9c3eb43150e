package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lexicards/internal/domain"
	"lexicards/internal/repository"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the SQLite file at path, creating its directory if needed
func Open(path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, nil
}

// StateRepo implements repository.StateRepository on SQLite
type StateRepo struct {
	db *sqlx.DB
}

// NewStateRepo creates a new state repository
func NewStateRepo(db *sqlx.DB) *StateRepo {
	return &StateRepo{db: db}
}

// Load returns the states saved under key
func (r *StateRepo) Load(ctx context.Context, key string) (map[string]domain.ReviewState, error) {
	var payload string
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM review_states WHERE storage_key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]domain.ReviewState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load review states: %w", err)
	}
	return repository.DecodeStates([]byte(payload))
}

// Save upserts the whole state document for key
func (r *StateRepo) Save(ctx context.Context, key string, states map[string]domain.ReviewState) error {
	payload, err := repository.EncodeStates(states)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO review_states (storage_key, payload, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(storage_key) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		key, string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save review states: %w", err)
	}
	return nil
}

// Delete removes the state document for key
func (r *StateRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM review_states WHERE storage_key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete review states: %w", err)
	}
	return nil
}

// Keys lists every storage key with saved state
func (r *StateRepo) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, `SELECT storage_key FROM review_states ORDER BY storage_key`); err != nil {
		return nil, fmt.Errorf("failed to list storage keys: %w", err)
	}
	return keys, nil
}
