package domain

import (
	"encoding"
	"encoding/json"
	"fmt"
	"strings"
)

// Grade is the user's self-assessment of recall
type Grade int

const (
	Again  Grade = iota // Not recalled
	Hard                // Recalled with significant effort
	Good                // Recalled
	Easy                // Recalled effortlessly
	MoveOn              // Binary "got it" verdict
)

var gradeNames = [...]string{
	Again:  "again",
	Hard:   "hard",
	Good:   "good",
	Easy:   "easy",
	MoveOn: "move_on",
}

var (
	_ fmt.Stringer             = Grade(0)
	_ json.Marshaler           = Grade(0)
	_ encoding.TextMarshaler   = Grade(0)
	_ json.Unmarshaler         = (*Grade)(nil)
	_ encoding.TextUnmarshaler = (*Grade)(nil)
)

// IsValid reports whether g is one of the known grades
func (g Grade) IsValid() bool {
	return g >= Again && g <= MoveOn
}

func (g Grade) String() string {
	if g.IsValid() {
		return gradeNames[g]
	}
	return fmt.Sprintf("Grade(%d)", int(g))
}

// Label is the button caption for the grade
func (g Grade) Label() string {
	switch g {
	case Again:
		return "Again"
	case Hard:
		return "Hard"
	case Good:
		return "Good"
	case Easy:
		return "Easy"
	case MoveOn:
		return "Move on"
	}
	return g.String()
}

// ParseGrade accepts a grade name ("good", "move_on") or its number
func ParseGrade(s string) (Grade, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for g, name := range gradeNames {
		if s == name || s == fmt.Sprint(g) {
			return Grade(g), nil
		}
	}
	if s == "moveon" || s == "move-on" {
		return MoveOn, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidGrade, s)
}

func (g Grade) MarshalJSON() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return json.Marshal(gradeNames[g])
}

// MarshalText gives the grade name, used for JSON map keys
func (g Grade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGrade, int(g))
	}
	return []byte(gradeNames[g]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (g *Grade) UnmarshalText(text []byte) error {
	v, err := ParseGrade(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// UnmarshalJSON accepts either a grade name or a number
func (g *Grade) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if !Grade(n).IsValid() {
			return fmt.Errorf("%w: %d", ErrInvalidGrade, n)
		}
		*g = Grade(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidGrade, data)
	}
	return g.UnmarshalText([]byte(s))
}
