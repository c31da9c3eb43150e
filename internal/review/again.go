package review

import (
	"context"
	"fmt"

	"lexicards/internal/domain"
)

// AgainQueue is the binary "do it again / move on" strategy.
//
// Move on removes the card and appends it to the learned list. Again
// removes the card and reinserts it one slot after the card that takes
// its place, so exactly one other card is shown before it comes back.
// When the failed card was last in the queue it lands under the pointer
// again; the pointer then wraps to the front so another card is shown.
type AgainQueue struct {
	queue   []domain.VocabEntry
	learned []domain.VocabEntry
}

// NewAgainQueue creates an empty AgainQueue
func NewAgainQueue() *AgainQueue {
	return &AgainQueue{}
}

func (q *AgainQueue) Name() string { return StrategyAgain }

func (q *AgainQueue) Grades() []domain.Grade {
	return []domain.Grade{domain.Again, domain.MoveOn}
}

func (q *AgainQueue) Build(entries []domain.VocabEntry) {
	q.queue = cloneEntries(entries)
	q.learned = []domain.VocabEntry{}
}

func (q *AgainQueue) Queue() []domain.VocabEntry {
	return cloneEntries(q.queue)
}

func (q *AgainQueue) Done() []domain.VocabEntry {
	return cloneEntries(q.learned)
}

func (q *AgainQueue) Remaining() int {
	return len(q.queue)
}

func (q *AgainQueue) Grade(_ context.Context, pos int, grade domain.Grade) (int, error) {
	if len(q.queue) == 0 {
		return 0, nil
	}
	if !supports(q, grade) {
		return pos, fmt.Errorf("%w: %s", domain.ErrUnsupportedGrade, grade)
	}
	pos = clampPos(pos, len(q.queue))
	card := q.queue[pos]
	q.queue = removeAt(q.queue, pos)

	switch grade {
	case domain.MoveOn:
		q.learned = append(q.learned, card)
	case domain.Again:
		at := pos + 1
		if at > len(q.queue) {
			at = len(q.queue)
		}
		q.queue = insertAt(q.queue, at, card)
		if at == pos && len(q.queue) > 1 {
			pos = 0
		}
	}

	return clampPos(pos, len(q.queue)), nil
}
