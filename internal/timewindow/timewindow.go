// Package timewindow turns calendar dates and wall-clock strings into instants
// in an explicitly configured location.
package timewindow

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	ErrInvalidDate  = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidClock = errors.New("time must be formatted as HH:MM")
	ErrEmptyWindow  = errors.New("start must be before end")
)

// Validator resolves dates and clocks against a single location.
type Validator struct {
	loc *time.Location
}

// New creates a Validator. A nil location falls back to UTC.
func New(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.UTC
	}
	return &Validator{loc: loc}
}

// Location returns the location used for all conversions.
func (v *Validator) Location() *time.Location {
	return v.loc
}

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(date string) (time.Time, error) {
	if len(date) != len(DateLayout) {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseClock validates a zero-padded HH:MM string and returns minutes since midnight.
func ParseClock(hhmm string) (int, error) {
	if len(hhmm) != len(ClockLayout) {
		return 0, ErrInvalidClock
	}
	t, err := time.Parse(ClockLayout, hhmm)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateSlot checks both clock strings and requires start < end.
func ValidateSlot(start, end string) error {
	s, err := ParseClock(start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if s >= e {
		return ErrEmptyWindow
	}
	return nil
}

// ToInstant combines a date and a wall-clock time into an instant in the validator's location.
func (v *Validator) ToInstant(date, hhmm string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	minutes, err := ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, v.loc), nil
}

// Window returns the absolute start and end instants of a slot on date.
func (v *Validator) Window(date, start, end string) (time.Time, time.Time, error) {
	from, err := v.ToInstant(date, start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := v.ToInstant(date, end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, ErrEmptyWindow
	}
	return from, to, nil
}

// IsWithin reports whether start <= now <= end.
func IsWithin(now, start, end time.Time) bool {
	return !now.Before(start) && !now.After(end)
}

// Today returns the calendar date of now in the validator's location.
func (v *Validator) Today(now time.Time) string {
	return now.In(v.loc).Format(DateLayout)
}
