// Package prayer derives the current and next prayer from a daily schedule.
package prayer

import (
	"fmt"
	"time"

	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

// Cursor is the (current, next, remaining) triple for one instant.
type Cursor struct {
	Current            model.Prayer    `json:"current"`
	CurrentTime        model.TimeOfDay `json:"current_time"`
	CurrentIsYesterday bool            `json:"current_is_yesterday"`
	Next               model.Prayer    `json:"next"`
	NextTime           model.TimeOfDay `json:"next_time"`
	NextIsTomorrow     bool            `json:"next_is_tomorrow"`
	Remaining          time.Duration   `json:"-"`
	RemainingMinutes   int             `json:"remaining_minutes"`
	RemainingLabel     string          `json:"remaining"`
}

// Compute finds the first prayer strictly after now. A prayer whose minute
// equals now has already begun and is current, not next. Before Fajr the
// current prayer is the previous day's Isha; after Isha the next prayer is
// tomorrow's Fajr. Only the hour and minute of now are used.
func Compute(s model.DailyPrayerSchedule, now time.Time) Cursor {
	nowMinutes := model.TimeOfDayOf(now)

	for i, p := range model.Prayers {
		t := s.Times[i]
		if t <= nowMinutes {
			continue
		}
		current := model.Isha
		if i > 0 {
			current = model.Prayers[i-1]
		}
		return newCursor(s, current, p, int(t-nowMinutes), i == 0, false)
	}

	remaining := model.MinutesPerDay - int(nowMinutes) + int(s.Times[model.Fajr])
	return newCursor(s, model.Isha, model.Fajr, remaining, false, true)
}

// ComputeIn evaluates now in loc before computing, so the wall clock matches
// the schedule's city rather than the host.
func ComputeIn(s model.DailyPrayerSchedule, now time.Time, loc *time.Location) Cursor {
	if loc != nil {
		now = now.In(loc)
	}
	return Compute(s, now)
}

// Location resolves the schedule's timezone, falling back when it is empty or unknown.
func Location(s model.DailyPrayerSchedule, fallback *time.Location) *time.Location {
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	if fallback == nil {
		return time.Local
	}
	return fallback
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatRemainingLocal formats a duration as "H jam M menit", the label
// shown on the home screen.
func FormatRemainingLocal(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%d jam %d menit", int(d.Hours()), int(d.Minutes())%60)
}

func newCursor(s model.DailyPrayerSchedule, current, next model.Prayer, minutes int, yesterday, tomorrow bool) Cursor {
	remaining := time.Duration(minutes) * time.Minute
	return Cursor{
		Current:            current,
		CurrentTime:        s.At(current),
		CurrentIsYesterday: yesterday,
		Next:               next,
		NextTime:           s.At(next),
		NextIsTomorrow:     tomorrow,
		Remaining:          remaining,
		RemainingMinutes:   minutes,
		RemainingLabel:     FormatRemaining(remaining),
	}
}
