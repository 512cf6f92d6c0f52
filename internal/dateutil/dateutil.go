// Package dateutil works on calendar-date strings ("2006-01-02") and
// month keys ("2006-01"). Natural keys in this system are date strings,
// not timestamps, so comparisons stay timezone-free.
package dateutil

import (
	"fmt"
	"time"
)

const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

// ParseDay validates and parses a YYYY-MM-DD date string.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(DayLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

// ValidDay reports whether value is a well-formed YYYY-MM-DD date.
func ValidDay(value string) bool {
	_, err := ParseDay(value)
	return err == nil
}

// ValidMonth reports whether value is a well-formed YYYY-MM month key.
func ValidMonth(value string) bool {
	_, err := time.Parse(MonthLayout, value)
	return err == nil
}

// WeekStart returns the Sunday beginning the week that contains the
// given date. A Sunday maps to itself.
func WeekStart(day string) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	t = t.AddDate(0, 0, -int(t.Weekday()))
	return t.Format(DayLayout), nil
}

// AddDays shifts a date string by n calendar days (n may be negative).
func AddDays(day string, n int) (string, error) {
	t, err := ParseDay(day)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(DayLayout), nil
}

// DaysInRange counts calendar days between start and end, inclusive of
// both endpoints. Returns 0 when end precedes start or either is malformed.
func DaysInRange(start, end string) int {
	from, err := ParseDay(start)
	if err != nil {
		return 0
	}
	to, err := ParseDay(end)
	if err != nil {
		return 0
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days < 1 {
		return 0
	}
	return days
}
