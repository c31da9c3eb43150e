package domain

import "strings"

// VocabEntry is a single vocabulary card
type VocabEntry struct {
	Word    string `json:"Word"`
	Meaning string `json:"Meanings,omitempty"`
	Synonym string `json:"Synonym,omitempty"`
	Antonym string `json:"Antonym,omitempty"`
}

// Key returns the case-insensitive identity of the entry
func (e VocabEntry) Key() string {
	return strings.ToLower(strings.TrimSpace(e.Word))
}

// HasWord reports whether the entry carries a usable word
func (e VocabEntry) HasWord() bool {
	return strings.TrimSpace(e.Word) != ""
}

// FrontText is what the card shows before flipping
func (e VocabEntry) FrontText() string {
	if !e.HasWord() {
		return "No word"
	}
	return strings.TrimSpace(e.Word)
}

// BackText lists meaning, synonym and antonym on separate lines
func (e VocabEntry) BackText() string {
	return "Meaning: " + orDefault(e.Meaning, "No definition") +
		"\nSynonym: " + orDefault(e.Synonym, "—") +
		"\nAntonym: " + orDefault(e.Antonym, "—")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// CardView is the read-only projection the presentation layers render
type CardView struct {
	FrontText string `json:"front_text"`
	BackText  string `json:"back_text"`
	Position  int    `json:"position"`
	Total     int    `json:"total"`
	Flipped   bool   `json:"flipped"`
	Letter    string `json:"letter"`
	Empty     bool   `json:"empty"`

	// Intervals maps each grade to the days it would schedule the card (sm2)
	Intervals map[Grade]int `json:"intervals,omitempty"`
	// Round and Parked describe the bucket rounds of the leveling scheduler
	Round  int           `json:"round,omitempty"`
	Parked map[Grade]int `json:"parked,omitempty"`
}

// Report summarises a session once its queue is exhausted
type Report struct {
	Learned   []VocabEntry `json:"learned"`
	Remaining int          `json:"remaining"`
}
