package review

import (
	"context"
	"fmt"

	"lexicards/internal/deck"
	"lexicards/internal/domain"
)

// Session is one learner's pass over a letter of the deck. It is not safe
// for concurrent use; callers serialise access.
type Session struct {
	deck      *deck.Deck
	scheduler Scheduler
	letter    string
	pos       int
	flipped   bool
}

// NewSession creates a session over d graded by s. Call Reset to fill the queue.
func NewSession(d *deck.Deck, s Scheduler) *Session {
	return &Session{deck: d, scheduler: s}
}

// Reset rebuilds the queue for letter ("all" or A-Z)
func (s *Session) Reset(letter string) error {
	l, err := domain.ParseLetter(letter)
	if err != nil {
		return err
	}
	if !s.deck.Loaded() {
		return domain.ErrNoVocabulary
	}
	s.letter = l
	s.scheduler.Build(s.deck.Select(l))
	s.pos = 0
	s.flipped = false
	return nil
}

// Restart rebuilds the queue for the current letter
func (s *Session) Restart() error {
	return s.Reset(s.letter)
}

// Letter returns the active letter
func (s *Session) Letter() string {
	return s.letter
}

// Scheduler returns the grading strategy of the session
func (s *Session) Scheduler() Scheduler {
	return s.scheduler
}

// Grades lists the verdicts the session accepts
func (s *Session) Grades() []domain.Grade {
	return s.scheduler.Grades()
}

// Exhausted reports whether there is nothing left to study
func (s *Session) Exhausted() bool {
	return len(s.scheduler.Queue()) == 0
}

// Current returns the card under the pointer
func (s *Session) Current() (domain.VocabEntry, bool) {
	q := s.scheduler.Queue()
	if len(q) == 0 {
		return domain.VocabEntry{}, false
	}
	return q[clampPos(s.pos, len(q))], true
}

// Flipped reports whether the back of the card is showing
func (s *Session) Flipped() bool {
	return s.flipped
}

// Flip turns the current card over. It does nothing on an empty queue.
func (s *Session) Flip() bool {
	if s.Exhausted() {
		return false
	}
	s.flipped = !s.flipped
	return s.flipped
}

// Next moves the pointer forward, wrapping to the first card
func (s *Session) Next() {
	s.move(1)
}

// Prev moves the pointer back, wrapping to the last card
func (s *Session) Prev() {
	s.move(-1)
}

func (s *Session) move(step int) {
	n := len(s.scheduler.Queue())
	if n == 0 {
		return
	}
	s.pos = ((s.pos+step)%n + n) % n
	s.flipped = false
}

// Grade applies a verdict to the current card. Grading an empty queue is a no-op.
func (s *Session) Grade(ctx context.Context, grade domain.Grade) error {
	if s.Exhausted() {
		return nil
	}
	pos, err := s.scheduler.Grade(ctx, s.pos, grade)
	s.pos = pos
	if err != nil {
		return fmt.Errorf("grade %s: %w", grade, err)
	}
	s.flipped = false
	return nil
}

// View projects the session for rendering
func (s *Session) View() domain.CardView {
	q := s.scheduler.Queue()
	view := domain.CardView{
		Letter:  s.letter,
		Total:   len(q),
		Flipped: s.flipped,
	}
	if len(q) == 0 {
		view.Empty = true
		return view
	}
	pos := clampPos(s.pos, len(q))
	card := q[pos]
	view.Position = pos + 1
	view.FrontText = card.FrontText()
	view.BackText = card.BackText()

	if p, ok := s.scheduler.(Previewer); ok {
		preview := p.Preview(card.Word)
		view.Intervals = make(map[domain.Grade]int, len(preview))
		for g, st := range preview {
			view.Intervals[g] = st.Interval
		}
	}
	if l, ok := s.scheduler.(Leveled); ok {
		view.Round = l.Round()
		view.Parked = make(map[domain.Grade]int, len(levelOrder))
		for _, g := range levelOrder {
			view.Parked[g] = len(l.Bucket(g))
		}
	}
	return view
}

// Report returns the finished cards and how many are left
func (s *Session) Report() domain.Report {
	return domain.Report{
		Learned:   s.scheduler.Done(),
		Remaining: s.scheduler.Remaining(),
	}
}
