// Package review holds the study state machine: the working queue of a
// session and the scheduling strategies that decide what happens to a
// card once it has been graded.
package review

import (
	"context"
	"fmt"

	"lexicards/internal/domain"
)

// Scheduler is one grading strategy. A deployment picks exactly one.
type Scheduler interface {
	// Name identifies the strategy in configuration ("again", "sm2", "leveling")
	Name() string
	// Grades lists the verdicts the strategy accepts
	Grades() []domain.Grade
	// Build replaces the working queue with the given filtered entries
	Build(entries []domain.VocabEntry)
	// Queue returns the current working queue
	Queue() []domain.VocabEntry
	// Grade applies a verdict to the card at pos and returns the new pointer
	Grade(ctx context.Context, pos int, grade domain.Grade) (int, error)
	// Done returns the cards finished in this session, in order
	Done() []domain.VocabEntry
	// Remaining counts the cards still to be studied
	Remaining() int
}

// Previewer is implemented by schedulers that can tell what each grade
// would do to a card
type Previewer interface {
	Preview(word string) map[domain.Grade]domain.ReviewState
}

// Leveled is implemented by round-based schedulers
type Leveled interface {
	Round() int
	Bucket(grade domain.Grade) []domain.VocabEntry
}

var (
	_ Previewer = (*SM2)(nil)
	_ Leveled   = (*Leveling)(nil)
)

// Strategy names accepted by New
const (
	StrategyAgain    = "again"
	StrategySM2      = "sm2"
	StrategyLeveling = "leveling"
)

// New builds the scheduler named by strategy. store and clock are only
// used by the sm2 strategy.
func New(strategy string, states map[string]domain.ReviewState, store StateStore, clock Clock) (Scheduler, error) {
	switch strategy {
	case StrategyAgain:
		return NewAgainQueue(), nil
	case StrategySM2, "":
		return NewSM2(states, store, clock), nil
	case StrategyLeveling:
		return NewLeveling(), nil
	}
	return nil, fmt.Errorf("unknown scheduler %q", strategy)
}

func supports(s Scheduler, g domain.Grade) bool {
	for _, allowed := range s.Grades() {
		if allowed == g {
			return true
		}
	}
	return false
}

func cloneEntries(entries []domain.VocabEntry) []domain.VocabEntry {
	out := make([]domain.VocabEntry, len(entries))
	copy(out, entries)
	return out
}

func removeAt(entries []domain.VocabEntry, i int) []domain.VocabEntry {
	return append(entries[:i], entries[i+1:]...)
}

func insertAt(entries []domain.VocabEntry, i int, e domain.VocabEntry) []domain.VocabEntry {
	entries = append(entries, domain.VocabEntry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = e
	return entries
}

// clampPos keeps pos inside the queue, wrapping to the front when it falls off the end
func clampPos(pos, n int) int {
	if pos < 0 || pos >= n {
		return 0
	}
	return pos
}
