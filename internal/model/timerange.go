package model

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the layout of range bounds accepted by the API and CLI.
const DateLayout = "2006-01-02"

// TimeRange is an inclusive [Start, End] window compared against record timestamps.
//
// Bounds are built from calendar dates at midnight, so by default End excludes everything
// after 00:00:00 of the end day. IncludeEndDay widens End to the last second of that day.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeRange builds a range from two dates.
func NewTimeRange(start, end time.Time, includeEndDay bool) (TimeRange, error) {
	r := TimeRange{Start: midnight(start), End: midnight(end)}
	if includeEndDay {
		r.End = r.End.Add(24*time.Hour - time.Second)
	}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

// ParseTimeRange parses YYYY-MM-DD bounds.
func ParseTimeRange(start, end string, includeEndDay bool) (TimeRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return TimeRange{}, NewError(KindInvalidInput, fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", start), err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return TimeRange{}, NewError(KindInvalidInput, fmt.Sprintf("invalid end date %q, expected YYYY-MM-DD", end), err)
	}
	return NewTimeRange(s, e, includeEndDay)
}

var (
	ErrZeroLengthRange = errors.New("time range has zero length")
	ErrReversedRange   = errors.New("time range ends before it starts")
)

func (r TimeRange) Validate() error {
	switch {
	case r.End.Equal(r.Start):
		return NewError(KindInvalidRange, "start and end dates must differ (availability would be zero hours)", ErrZeroLengthRange)
	case r.End.Before(r.Start):
		return NewError(KindInvalidRange, "end date must not be before start date", ErrReversedRange)
	}
	return nil
}

// Contains reports whether t is within the inclusive bounds.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Hours is the availability of the window in hours.
func (r TimeRange) Hours() float64 {
	return r.Duration().Hours()
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
