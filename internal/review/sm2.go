package review

import (
	"context"
	"fmt"
	"math"
	"time"

	"lexicards/internal/domain"
)

// Clock returns the current time
type Clock func() time.Time

// StateStore persists the scheduling state of one profile. The whole map
// is written after every grade; the last write wins.
type StateStore interface {
	Save(ctx context.Context, states map[string]domain.ReviewState) error
}

// SM2 schedules words by due date using the SuperMemo-2 update rule on a
// four-point scale (Again, Hard, Good, Easy). The working queue is the
// filtered entries that are due today and is recomputed after each grade.
type SM2 struct {
	states   map[string]domain.ReviewState
	store    StateStore
	clock    Clock
	pool     []domain.VocabEntry
	queue    []domain.VocabEntry
	reviewed []domain.VocabEntry // recalled this session
}

// NewSM2 creates an SM2 scheduler over previously saved states.
// A nil store keeps state in memory only; a nil clock uses time.Now.
func NewSM2(states map[string]domain.ReviewState, store StateStore, clock Clock) *SM2 {
	if states == nil {
		states = make(map[string]domain.ReviewState)
	}
	if clock == nil {
		clock = time.Now
	}
	return &SM2{states: states, store: store, clock: clock}
}

func (s *SM2) Name() string { return StrategySM2 }

func (s *SM2) Grades() []domain.Grade {
	return []domain.Grade{domain.Again, domain.Hard, domain.Good, domain.Easy}
}

func (s *SM2) today() domain.Date {
	return domain.DateOf(s.clock())
}

// Build keeps entries as the candidate pool and queues the ones due today
func (s *SM2) Build(entries []domain.VocabEntry) {
	s.pool = cloneEntries(entries)
	s.reviewed = []domain.VocabEntry{}
	s.rebuild()
}

func (s *SM2) rebuild() {
	today := s.today()
	s.queue = make([]domain.VocabEntry, 0, len(s.pool))
	for _, e := range s.pool {
		if s.State(e.Word).IsDue(today) {
			s.queue = append(s.queue, e)
		}
	}
}

func (s *SM2) Queue() []domain.VocabEntry {
	return cloneEntries(s.queue)
}

// Done lists the cards recalled (Good or Easy) in this session
func (s *SM2) Done() []domain.VocabEntry {
	return cloneEntries(s.reviewed)
}

func (s *SM2) Remaining() int {
	return len(s.queue)
}

// State returns the saved state of word, or the default state of a word
// that has never been graded (due today)
func (s *SM2) State(word string) domain.ReviewState {
	key := domain.VocabEntry{Word: word}.Key()
	if st, ok := s.states[key]; ok {
		return st
	}
	return domain.NewReviewState(s.today())
}

// States returns a copy of every saved state
func (s *SM2) States() map[string]domain.ReviewState {
	out := make(map[string]domain.ReviewState, len(s.states))
	for k, v := range s.states {
		out[k] = v
	}
	return out
}

// Preview returns the state each grade would produce for word
func (s *SM2) Preview(word string) map[domain.Grade]domain.ReviewState {
	today := s.today()
	current := s.State(word)
	out := make(map[domain.Grade]domain.ReviewState, 4)
	for _, g := range s.Grades() {
		next, _ := NextState(current, g, today)
		out[g] = next
	}
	return out
}

// Grade updates the card at pos, persists every state and rebuilds the queue
func (s *SM2) Grade(ctx context.Context, pos int, grade domain.Grade) (int, error) {
	if len(s.queue) == 0 {
		return 0, nil
	}
	pos = clampPos(pos, len(s.queue))
	card := s.queue[pos]

	next, err := NextState(s.State(card.Word), grade, s.today())
	if err != nil {
		return pos, err
	}
	s.states[card.Key()] = next
	if grade >= domain.Good {
		s.reviewed = append(s.reviewed, card)
	}
	s.rebuild()
	pos = clampPos(pos, len(s.queue))

	if s.store != nil {
		if err := s.store.Save(ctx, s.States()); err != nil {
			return pos, fmt.Errorf("failed to save review state for %q: %w", card.Word, err)
		}
	}
	return pos, nil
}

// NextState applies one SM-2 grade to state.
//
// Again and Hard reset the repetition count and schedule the word for the
// next day. Good and Easy advance the repetition count; the interval is
// 1 day, then 6, then the previous interval times the ease factor. The
// ease factor moves by 0.1-(3-q)*(0.08+(3-q)*0.02) for every grade but
// Again and never drops below 1.3. Intervals are not capped.
func NextState(state domain.ReviewState, grade domain.Grade, today domain.Date) (domain.ReviewState, error) {
	if grade < domain.Again || grade > domain.Easy {
		return state, fmt.Errorf("%w: %s", domain.ErrUnsupportedGrade, grade)
	}
	if state.EaseFactor == 0 {
		state.EaseFactor = domain.DefaultEaseFactor
	}

	if grade < domain.Good {
		state.Repetitions = 0
		state.Interval = 1
	} else {
		state.Repetitions++
		switch state.Repetitions {
		case 1:
			state.Interval = 1
		case 2:
			state.Interval = 6
		default:
			state.Interval = int(math.Round(float64(state.Interval) * state.EaseFactor))
		}
	}

	if grade != domain.Again {
		q := float64(3 - grade)
		state.EaseFactor = math.Max(domain.MinEaseFactor, state.EaseFactor+(0.1-q*(0.08+q*0.02)))
	}

	state.DueDate = today.AddDays(state.Interval)
	return state, nil
}
