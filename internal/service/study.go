package service

import (
	"context"
	"fmt"
	"sync"

	"lexicards/internal/deck"
	"lexicards/internal/domain"
	"lexicards/internal/repository"
	"lexicards/internal/review"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StudyService runs one review session per learner. Sessions live in
// memory; only the sm2 scheduling state is persisted, per storage key.
// Every session on a storage key grades into the same state map, so a
// save never carries another session's stale copy.
type StudyService struct {
	deck     *deck.Deck
	repo     repository.StateRepository
	strategy string
	clock    review.Clock
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*studySession
	profiles map[string]map[string]domain.ReviewState
}

type studySession struct {
	key     string
	session *review.Session
}

// profileStore saves scheduling state under one storage key
type profileStore struct {
	repo repository.StateRepository
	key  string
}

func (p profileStore) Save(ctx context.Context, states map[string]domain.ReviewState) error {
	return p.repo.Save(ctx, p.key, states)
}

// NewStudyService creates a study service. strategy names the scheduler
// every session uses; clock may be nil.
func NewStudyService(
	d *deck.Deck,
	repo repository.StateRepository,
	strategy string,
	clock review.Clock,
	logger *zap.Logger,
) *StudyService {
	return &StudyService{
		deck:     d,
		repo:     repo,
		strategy: strategy,
		clock:    clock,
		logger:   logger,
		sessions: make(map[string]*studySession),
		profiles: make(map[string]map[string]domain.ReviewState),
	}
}

// Strategy returns the configured scheduler name
func (s *StudyService) Strategy() string {
	return s.strategy
}

// Letters lists A-Z with the number of words under each
func (s *StudyService) Letters() []deck.LetterOption {
	if !s.deck.Loaded() {
		return deck.Letters(nil)
	}
	return deck.Letters(s.deck.Entries())
}

// Lookup finds a word of the deck, ignoring case
func (s *StudyService) Lookup(word string) (domain.VocabEntry, bool) {
	return s.deck.Lookup(word)
}

// Start opens (or replaces) the session id for storageKey on letter. An
// empty id gets a generated one. It returns the session id and first card.
func (s *StudyService) Start(ctx context.Context, id, storageKey, letter string) (string, domain.CardView, error) {
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var states map[string]domain.ReviewState
	if s.strategy == review.StrategySM2 || s.strategy == "" {
		loaded, err := s.profileStates(ctx, storageKey)
		if err != nil {
			s.logger.Error("Failed to load review progress",
				zap.String("storage_key", storageKey),
				zap.Error(err))
			return "", domain.CardView{}, fmt.Errorf("failed to load review progress: %w", err)
		}
		states = loaded
	}

	scheduler, err := review.New(s.strategy, states, profileStore{repo: s.repo, key: storageKey}, s.clock)
	if err != nil {
		s.releaseProfile(storageKey)
		return "", domain.CardView{}, err
	}

	session := review.NewSession(s.deck, scheduler)
	if err := session.Reset(letter); err != nil {
		s.releaseProfile(storageKey)
		return "", domain.CardView{}, err
	}

	prev, replaced := s.sessions[id]
	s.sessions[id] = &studySession{key: storageKey, session: session}
	if replaced && prev.key != storageKey {
		s.releaseProfile(prev.key)
	}

	view := session.View()
	s.logger.Info("Study session started",
		zap.String("session_id", id),
		zap.String("storage_key", storageKey),
		zap.String("letter", view.Letter),
		zap.String("scheduler", scheduler.Name()),
		zap.Int("cards", view.Total))

	return id, view, nil
}

// profileStates returns the state map shared by every session on
// storageKey, loading it on first use. Callers hold s.mu.
func (s *StudyService) profileStates(ctx context.Context, storageKey string) (map[string]domain.ReviewState, error) {
	if states, ok := s.profiles[storageKey]; ok {
		return states, nil
	}
	states, err := s.repo.Load(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	if states == nil {
		states = make(map[string]domain.ReviewState)
	}
	s.profiles[storageKey] = states
	return states, nil
}

// releaseProfile drops the shared state of storageKey once no session
// uses it. Callers hold s.mu.
func (s *StudyService) releaseProfile(storageKey string) {
	for _, st := range s.sessions {
		if st.key == storageKey {
			return
		}
	}
	delete(s.profiles, storageKey)
}

// withSession runs fn on the session id under the service lock
func (s *StudyService) withSession(id string, fn func(*studySession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	return fn(st)
}

// View returns the current card of session id
func (s *StudyService) View(id string) (domain.CardView, error) {
	var view domain.CardView
	err := s.withSession(id, func(st *studySession) error {
		view = st.session.View()
		return nil
	})
	return view, err
}

// Flip turns the current card over
func (s *StudyService) Flip(id string) (domain.CardView, error) {
	var view domain.CardView
	err := s.withSession(id, func(st *studySession) error {
		st.session.Flip()
		view = st.session.View()
		return nil
	})
	return view, err
}

// Next moves to the following card
func (s *StudyService) Next(id string) (domain.CardView, error) {
	var view domain.CardView
	err := s.withSession(id, func(st *studySession) error {
		st.session.Next()
		view = st.session.View()
		return nil
	})
	return view, err
}

// Prev moves to the preceding card
func (s *StudyService) Prev(id string) (domain.CardView, error) {
	var view domain.CardView
	err := s.withSession(id, func(st *studySession) error {
		st.session.Prev()
		view = st.session.View()
		return nil
	})
	return view, err
}

// Grade applies grade to the current card. When saving progress fails the
// returned view still reflects the new in-memory state.
func (s *StudyService) Grade(ctx context.Context, id string, grade domain.Grade) (domain.CardView, error) {
	var view domain.CardView
	err := s.withSession(id, func(st *studySession) error {
		word := ""
		if card, ok := st.session.Current(); ok {
			word = card.Word
		}

		err := st.session.Grade(ctx, grade)
		view = st.session.View()
		if err != nil {
			s.logger.Error("Failed to grade card",
				zap.String("session_id", id),
				zap.String("word", word),
				zap.Stringer("grade", grade),
				zap.Error(err))
			return err
		}

		s.logger.Debug("Card graded",
			zap.String("session_id", id),
			zap.String("word", word),
			zap.Stringer("grade", grade),
			zap.Int("remaining", view.Total))
		return nil
	})
	return view, err
}

// Restart rebuilds the queue for the session's letter. Under sm2 the
// queue reflects grades given in other sessions on the same profile.
func (s *StudyService) Restart(ctx context.Context, id string) (domain.CardView, error) {
	s.mu.Lock()
	st, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return domain.CardView{}, domain.ErrSessionNotFound
	}

	_, view, err := s.Start(ctx, id, st.key, st.session.Letter())
	return view, err
}

// Report lists the cards finished in session id and the number remaining
func (s *StudyService) Report(id string) (domain.Report, error) {
	var report domain.Report
	err := s.withSession(id, func(st *studySession) error {
		report = st.session.Report()
		return nil
	})
	return report, err
}

// Grades lists the verdicts session id accepts
func (s *StudyService) Grades(id string) ([]domain.Grade, error) {
	var grades []domain.Grade
	err := s.withSession(id, func(st *studySession) error {
		grades = st.session.Grades()
		return nil
	})
	return grades, err
}

// End discards session id
func (s *StudyService) End(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.releaseProfile(st.key)
	return nil
}

// EndAll discards every session stored under storageKey along with its
// shared state, so the next session reloads from the store
func (s *StudyService) EndAll(storageKey string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, storageKey)

	n := 0
	for id, st := range s.sessions {
		if st.key == storageKey {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
