package repository

import (
	"context"

	"lexicards/internal/domain"
)

// StateRepository persists spaced-repetition state. Each storage key
// (one learner profile) holds a single flat map of word key to state,
// stored as one JSON document.
type StateRepository interface {
	// Load returns the saved states for key, or an empty map if none were saved
	Load(ctx context.Context, key string) (map[string]domain.ReviewState, error)
	// Save replaces the states stored under key
	Save(ctx context.Context, key string, states map[string]domain.ReviewState) error
	// Delete removes everything stored under key
	Delete(ctx context.Context, key string) error
	// Keys lists every storage key with saved state
	Keys(ctx context.Context) ([]string, error)
}
