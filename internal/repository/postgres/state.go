package postgres

import (
	"context"
	"database/sql"
	"errors"

	"lexicards/internal/domain"
	"lexicards/internal/repository"
)

// StateRepo implements repository.StateRepository on PostgreSQL
type StateRepo struct {
	db *sql.DB
}

// NewStateRepo creates a new state repository
func NewStateRepo(db *sql.DB) *StateRepo {
	return &StateRepo{db: db}
}

// Load returns the states saved under key
func (r *StateRepo) Load(ctx context.Context, key string) (map[string]domain.ReviewState, error) {
	var payload []byte
	query := `
		SELECT payload
		FROM review_states
		WHERE storage_key = $1
	`
	err := r.db.QueryRowContext(ctx, query, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]domain.ReviewState{}, nil
	}
	if err != nil {
		return nil, err
	}
	return repository.DecodeStates(payload)
}

// Save upserts the whole state document for key
func (r *StateRepo) Save(ctx context.Context, key string, states map[string]domain.ReviewState) error {
	payload, err := repository.EncodeStates(states)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO review_states (storage_key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (storage_key)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`
	_, err = r.db.ExecContext(ctx, query, key, payload)
	return err
}

// Delete removes the state document for key
func (r *StateRepo) Delete(ctx context.Context, key string) error {
	query := `
		DELETE FROM review_states
		WHERE storage_key = $1
	`
	_, err := r.db.ExecContext(ctx, query, key)
	return err
}

// Keys lists every storage key with saved state
func (r *StateRepo) Keys(ctx context.Context) ([]string, error) {
	query := `
		SELECT storage_key
		FROM review_states
		ORDER BY storage_key
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}
