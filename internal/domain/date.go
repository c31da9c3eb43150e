package domain

import (
	"fmt"
	"time"
)

// DateLayout is the storage format of a Date
const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form
type Date string

// DateOf returns the calendar day of t in t's location
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time returns midnight UTC of the day, or the zero time if d is malformed
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day n days after d
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// After reports whether d is strictly later than other
func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// DaysUntil returns the number of days from d to other
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// DisplayString returns a user-friendly date relative to today
func (d Date) DisplayString(today Date) string {
	switch n := today.DaysUntil(d); {
	case n == 0:
		return "Today"
	case n == 1:
		return "Tomorrow"
	case n == -1:
		return "Yesterday"
	case n > 1 && n < 7:
		return fmt.Sprintf("in %d days", n)
	}
	return d.Time().Format("Jan 2, 2006")
}
