package deck

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"lexicards/internal/domain"
)

// Deck holds the vocabulary loaded for the process. Entries never change
// after construction, so a Deck may be shared between sessions.
type Deck struct {
	entries []domain.VocabEntry
	byKey   map[string]domain.VocabEntry
	loaded  bool
}

// NewDeck builds a loaded deck. Entries without a word are dropped and
// duplicate words keep their first occurrence.
func NewDeck(entries []domain.VocabEntry) *Deck {
	d := &Deck{
		entries: make([]domain.VocabEntry, 0, len(entries)),
		byKey:   make(map[string]domain.VocabEntry, len(entries)),
		loaded:  true,
	}
	for _, e := range entries {
		if !e.HasWord() {
			continue
		}
		if _, dup := d.byKey[e.Key()]; dup {
			continue
		}
		d.byKey[e.Key()] = e
		d.entries = append(d.entries, e)
	}
	d.entries = SelectByLetter(d.entries, domain.AllLetters)
	return d
}

// Loaded is false for a nil or zero Deck, which stands for "not yet loaded"
func (d *Deck) Loaded() bool {
	return d != nil && d.loaded
}

// Entries returns the deck sorted by word
func (d *Deck) Entries() []domain.VocabEntry {
	if d == nil {
		return nil
	}
	out := make([]domain.VocabEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Len returns the number of entries
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Lookup finds an entry by its case-insensitive word
func (d *Deck) Lookup(word string) (domain.VocabEntry, bool) {
	if d == nil {
		return domain.VocabEntry{}, false
	}
	e, ok := d.byKey[strings.ToLower(strings.TrimSpace(word))]
	return e, ok
}

// Select is SelectByLetter over the deck's entries
func (d *Deck) Select(letter string) []domain.VocabEntry {
	return SelectByLetter(d.Entries(), letter)
}

// SelectByLetter keeps entries whose word starts with letter (case-insensitive),
// or every entry with a word when letter is "all". The result is sorted by
// lower-cased word and is never nil.
func SelectByLetter(entries []domain.VocabEntry, letter string) []domain.VocabEntry {
	all := letter == "" || strings.EqualFold(letter, domain.AllLetters)
	want, _ := utf8.DecodeRuneInString(strings.TrimSpace(letter))
	want = unicode.ToUpper(want)

	out := make([]domain.VocabEntry, 0, len(entries))
	for _, e := range entries {
		if !e.HasWord() {
			continue
		}
		if !all && firstLetter(e.Word) != want {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}

// LetterOption is one entry of the letter picker
type LetterOption struct {
	Letter    string `json:"letter"`
	Available bool   `json:"available"`
	Count     int    `json:"count"`
}

// Letters returns A to Z, each marked available when some word starts with it
func Letters(entries []domain.VocabEntry) []LetterOption {
	counts := make(map[rune]int)
	for _, e := range entries {
		if e.HasWord() {
			counts[firstLetter(e.Word)]++
		}
	}

	opts := make([]LetterOption, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		opts = append(opts, LetterOption{
			Letter:    string(c),
			Available: counts[c] > 0,
			Count:     counts[c],
		})
	}
	return opts
}

func firstLetter(word string) rune {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(word))
	return unicode.ToUpper(r)
}
