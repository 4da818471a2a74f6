package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// MinutesPerDay is the length of a calendar day in minutes.
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time expressed as minutes since local midnight.
type TimeOfDay int

// NoTime marks an optional TimeOfDay that was not supplied.
const NoTime TimeOfDay = -1

// ParseTimeOfDay parses "HH:MM". Anything after the first whitespace is
// ignored, so "04:30 (WIB)" parses as 04:30.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.IndexFunc(s, unicode.IsSpace); idx != -1 {
		s = s[:idx]
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return NoTime, fmt.Errorf("invalid time format: %q", raw)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil {
		return NoTime, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return NoTime, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}

	if hour < 0 || hour > 23 {
		return NoTime, fmt.Errorf("hour out of range in %q", raw)
	}
	if minute < 0 || minute > 59 {
		return NoTime, fmt.Errorf("minute out of range in %q", raw)
	}

	return TimeOfDay(hour*60 + minute), nil
}

// TimeOfDayOf truncates t to its minute of the day. Seconds are dropped.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	if t == NoTime {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*t = NoTime
		return nil
	}
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// On returns the instant at this time of day on the calendar date of day, in loc.
func (t TimeOfDay) On(day time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = day.Location()
	}
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
}
