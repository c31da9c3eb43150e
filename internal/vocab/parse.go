// Package vocab loads word lists from JSON, CSV or Excel sources.
package vocab

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"lexicards/internal/domain"
)

// ErrUnknownShape is returned for JSON that is none of the accepted layouts
var ErrUnknownShape = errors.New("unrecognised vocabulary layout")

// wrapperKeys are the object keys that may hold the entry array
var wrapperKeys = []string{"data", "words", "items", "vocab"}

// Parse decodes a JSON word list in any of the accepted layouts:
//
//	[{"Word": "...", "Meanings": "...", "Synonym": "...", "Antonym": "..."}]
//	{"A": [...], "B": [...]}
//	{"words": [...]}   (also "data", "items", "vocab")
//
// Entries without a word are dropped and repeated words keep their first
// occurrence.
func Parse(data []byte) ([]domain.VocabEntry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrUnknownShape)
	}

	switch data[0] {
	case '[':
		return parseArray(data)
	case '{':
		return parseObject(data)
	}
	return nil, fmt.Errorf("%w: document must be an array or object", ErrUnknownShape)
}

func parseArray(data []byte) ([]domain.VocabEntry, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode word list: %w", err)
	}
	entries := make([]domain.VocabEntry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, entryFromMap(r))
	}
	return clean(entries), nil
}

func parseObject(data []byte) ([]domain.VocabEntry, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("failed to decode word list: %w", err)
	}

	for _, k := range wrapperKeys {
		for key, v := range obj {
			if strings.EqualFold(key, k) && isArray(v) {
				return parseArray(v)
			}
		}
	}

	letters := make([]string, 0, len(obj))
	for key, v := range obj {
		if _, err := domain.ParseLetter(key); err != nil || len(key) != 1 || !isArray(v) {
			return nil, fmt.Errorf("%w: unexpected key %q", ErrUnknownShape, key)
		}
		letters = append(letters, key)
	}
	sort.Strings(letters)

	var entries []domain.VocabEntry
	for _, l := range letters {
		part, err := parseArray(obj[l])
		if err != nil {
			return nil, fmt.Errorf("letter %s: %w", l, err)
		}
		entries = append(entries, part...)
	}
	return clean(entries), nil
}

func isArray(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '['
}

// field aliases seen across word-list exports, matched case-insensitively
var (
	wordFields    = []string{"word", "term"}
	meaningFields = []string{"meanings", "meaning", "definition", "definitions"}
	synonymFields = []string{"synonym", "synonyms"}
	antonymFields = []string{"antonym", "antonyms"}
)

func entryFromMap(r map[string]any) domain.VocabEntry {
	return domain.VocabEntry{
		Word:    strings.TrimSpace(pick(r, wordFields)),
		Meaning: pick(r, meaningFields),
		Synonym: pick(r, synonymFields),
		Antonym: pick(r, antonymFields),
	}
}

func pick(r map[string]any, names []string) string {
	for _, name := range names {
		for k, v := range r {
			if strings.EqualFold(k, name) {
				if s := stringify(v); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			if s := stringify(p); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case float64, bool:
		return fmt.Sprint(t)
	}
	return ""
}

// clean drops entries without a word and repeated words
func clean(entries []domain.VocabEntry) []domain.VocabEntry {
	seen := make(map[string]bool, len(entries))
	out := make([]domain.VocabEntry, 0, len(entries))
	for _, e := range entries {
		if !e.HasWord() || seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		out = append(out, e)
	}
	return out
}
