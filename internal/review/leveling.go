package review

import (
	"context"
	"fmt"

	"lexicards/internal/domain"
)

// levelOrder is the priority in which buckets become the next round
var levelOrder = []domain.Grade{domain.Again, domain.Hard, domain.Good}

// Leveling is the round-based bucket strategy. Cards graded Again, Hard or
// Good are parked in the bucket of that grade; Easy retires the card. When
// the working queue runs dry the first non-empty bucket, in the order
// Again, Hard, Good, becomes the next round.
type Leveling struct {
	working  []domain.VocabEntry
	buckets  map[domain.Grade][]domain.VocabEntry
	mastered []domain.VocabEntry
	round    int
}

// NewLeveling creates an empty Leveling scheduler
func NewLeveling() *Leveling {
	return &Leveling{buckets: make(map[domain.Grade][]domain.VocabEntry)}
}

func (l *Leveling) Name() string { return StrategyLeveling }

func (l *Leveling) Grades() []domain.Grade {
	return []domain.Grade{domain.Again, domain.Hard, domain.Good, domain.Easy}
}

func (l *Leveling) Build(entries []domain.VocabEntry) {
	l.working = cloneEntries(entries)
	l.buckets = make(map[domain.Grade][]domain.VocabEntry)
	l.mastered = []domain.VocabEntry{}
	l.round = 1
}

func (l *Leveling) Queue() []domain.VocabEntry {
	return cloneEntries(l.working)
}

func (l *Leveling) Done() []domain.VocabEntry {
	return cloneEntries(l.mastered)
}

// Round is the 1-based number of the current pass
func (l *Leveling) Round() int {
	return l.round
}

// Bucket returns the cards parked under grade
func (l *Leveling) Bucket(grade domain.Grade) []domain.VocabEntry {
	return cloneEntries(l.buckets[grade])
}

func (l *Leveling) Remaining() int {
	n := len(l.working)
	for _, b := range l.buckets {
		n += len(b)
	}
	return n
}

func (l *Leveling) Grade(_ context.Context, pos int, grade domain.Grade) (int, error) {
	if len(l.working) == 0 {
		return 0, nil
	}
	if !supports(l, grade) {
		return pos, fmt.Errorf("%w: %s", domain.ErrUnsupportedGrade, grade)
	}
	pos = clampPos(pos, len(l.working))
	card := l.working[pos]
	l.working = removeAt(l.working, pos)

	if grade == domain.Easy {
		l.mastered = append(l.mastered, card)
	} else {
		l.buckets[grade] = append(l.buckets[grade], card)
	}

	if len(l.working) == 0 {
		l.promote()
		return 0, nil
	}
	return clampPos(pos, len(l.working)), nil
}

func (l *Leveling) promote() {
	for _, g := range levelOrder {
		if b := l.buckets[g]; len(b) > 0 {
			l.working = b
			delete(l.buckets, g)
			l.round++
			return
		}
	}
}
