package testutil

import (
	"time"

	"lexicards/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestEntry creates a vocabulary entry with only word and meaning set
func NewTestEntry(word, meaning string) domain.VocabEntry {
	return domain.VocabEntry{
		Word:    word,
		Meaning: meaning,
	}
}

// NewTestState creates a review state due on the given day
func NewTestState(repetitions, interval int, due domain.Date) domain.ReviewState {
	return domain.ReviewState{
		Repetitions: repetitions,
		Interval:    interval,
		EaseFactor:  domain.DefaultEaseFactor,
		DueDate:     due,
	}
}

// FixedClock returns a clock that always reports t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
