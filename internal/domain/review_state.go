package domain

// Scheduling defaults for a word that has never been graded
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// ReviewState is the per-word spaced-repetition bookkeeping
type ReviewState struct {
	Repetitions int     `json:"repetitions"`
	Interval    int     `json:"interval"`
	EaseFactor  float64 `json:"easeFactor"`
	DueDate     Date    `json:"dueDate"`
}

// NewReviewState returns the state of a word seen for the first time
func NewReviewState(today Date) ReviewState {
	return ReviewState{
		EaseFactor: DefaultEaseFactor,
		DueDate:    today,
	}
}

// IsDue reports whether the word may be studied on the given day
func (s ReviewState) IsDue(today Date) bool {
	return !s.DueDate.After(today)
}
