package service

import (
	"context"
	"fmt"
	"time"

	"lexicards/internal/deck"
	"lexicards/internal/domain"
	"lexicards/internal/repository"
	"lexicards/internal/review"

	"go.uber.org/zap"
)

// DueSummary splits the deck by scheduling state for one profile
type DueSummary struct {
	DueToday  int         `json:"due_today"`
	Later     int         `json:"scheduled_later"`
	NeverSeen int         `json:"never_seen"`
	NextDue   domain.Date `json:"next_due,omitempty"`
}

// Total is the number of words the summary covers
func (d DueSummary) Total() int {
	return d.DueToday + d.Later + d.NeverSeen
}

// StatsService reports and resets saved review progress
type StatsService struct {
	deck   *deck.Deck
	repo   repository.StateRepository
	clock  review.Clock
	logger *zap.Logger
}

// NewStatsService creates a new stats service. clock may be nil.
func NewStatsService(d *deck.Deck, repo repository.StateRepository, clock review.Clock, logger *zap.Logger) *StatsService {
	if clock == nil {
		clock = time.Now
	}
	return &StatsService{
		deck:   d,
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

// Today returns the current calendar day
func (s *StatsService) Today() domain.Date {
	return domain.DateOf(s.clock())
}

// DueSummary counts the deck's words that are due today, scheduled for a
// later day, or have never been graded by the profile at key
func (s *StatsService) DueSummary(ctx context.Context, key string) (DueSummary, error) {
	states, err := s.repo.Load(ctx, key)
	if err != nil {
		return DueSummary{}, fmt.Errorf("failed to load review progress: %w", err)
	}

	var summary DueSummary
	if !s.deck.Loaded() {
		return summary, nil
	}

	today := s.Today()
	for _, e := range s.deck.Entries() {
		st, ok := states[e.Key()]
		switch {
		case !ok:
			summary.NeverSeen++
		case st.IsDue(today):
			summary.DueToday++
		default:
			summary.Later++
			if summary.NextDue == "" || summary.NextDue.After(st.DueDate) {
				summary.NextDue = st.DueDate
			}
		}
	}
	return summary, nil
}

// Profiles lists every storage key with saved progress
func (s *StatsService) Profiles(ctx context.Context) ([]string, error) {
	keys, err := s.repo.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return keys, nil
}

// ResetProgress forgets every saved review state of key
func (s *StatsService) ResetProgress(ctx context.Context, key string) error {
	s.logger.Info("Resetting review progress", zap.String("storage_key", key))

	if err := s.repo.Delete(ctx, key); err != nil {
		s.logger.Error("Failed to reset review progress",
			zap.String("storage_key", key),
			zap.Error(err))
		return err
	}

	s.logger.Info("Review progress reset", zap.String("storage_key", key))
	return nil
}
