package util

import (
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseDateRange accepts YYYY-MM-DD or RFC3339 bounds. A date-only end is
// widened to the start of the next day so the whole end date is included.
func ParseDateRange(startStr, endStr *string) (start time.Time, hasStart bool, endExclusive time.Time, hasEnd bool, err error) {
	parseAny := func(s string) (t time.Time, ok bool, isDateOnly bool, err error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, false, false, nil
		}
		if tt, e := time.Parse(time.RFC3339, s); e == nil {
			return tt, true, false, nil
		}
		if tt, e := time.Parse(DateLayout, s); e == nil {
			return tt, true, true, nil
		}
		return time.Time{}, false, false, errors.New("invalid date format (use YYYY-MM-DD or RFC3339)")
	}

	var (
		rawStart, rawEnd time.Time
		startOk, endOk   bool
		endDateOnly      bool
	)

	if startStr != nil {
		t, ok, _, e := parseAny(*startStr)
		if e != nil {
			return time.Time{}, false, time.Time{}, false, e
		}
		rawStart, startOk = t, ok
	}

	if endStr != nil {
		t, ok, isDateOnly, e := parseAny(*endStr)
		if e != nil {
			return time.Time{}, false, time.Time{}, false, e
		}
		rawEnd, endOk, endDateOnly = t, ok, isDateOnly
	}

	// reversed input: swap raw values, keep end's date-only flag
	if startOk && endOk && rawEnd.Before(rawStart) {
		rawStart, rawEnd = rawEnd, rawStart
	}

	if startOk {
		start = rawStart
		hasStart = true
	}
	if endOk {
		if endDateOnly {
			endExclusive = rawEnd.AddDate(0, 0, 1)
		} else {
			endExclusive = rawEnd
		}
		hasEnd = true
	}

	return start, hasStart, endExclusive, hasEnd, nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, NewFieldError(field, "invalid date (use YYYY-MM-DD)")
	}
	return t, nil
}

// ParseDay is ParseDate for date columns.
func ParseDay(field, s string) (datatypes.Date, error) {
	t, err := ParseDate(field, s)
	return datatypes.Date(t), err
}

// ParseOptionalDay returns nil for a blank value.
func ParseOptionalDay(field, s string) (*datatypes.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := ParseDay(field, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DayOf truncates t to its calendar date in UTC.
func DayOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// DayString formats a date column as YYYY-MM-DD.
func DayString(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

// ParseClock parses an HH:MM wall-clock time and returns minutes since midnight.
func ParseClock(field, s string) (int, error) {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, NewFieldError(field, "invalid time (use HH:MM)")
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateTimeRange checks that from and to are HH:MM and from < to.
func ValidateTimeRange(fromField, from, toField, to string) error {
	f, err := ParseClock(fromField, from)
	if err != nil {
		return err
	}
	t, err := ParseClock(toField, to)
	if err != nil {
		return err
	}
	if f >= t {
		return NewFieldError(toField, "end time must be after start time")
	}
	return nil
}
