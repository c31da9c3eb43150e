package domain

import (
	"fmt"
	"strings"
)

// AllLetters is the sentinel that selects every entry
const AllLetters = "all"

// ParseLetter normalises a letter choice to "all" or a single upper-case letter
func ParseLetter(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, AllLetters) {
		return AllLetters, nil
	}
	if len(s) != 1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidLetter, s)
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return "", fmt.Errorf("%w: %q", ErrInvalidLetter, s)
	}
	return string(c), nil
}
