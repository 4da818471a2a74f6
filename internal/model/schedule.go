package model

import (
	"errors"
	"fmt"
)

// ErrScheduleOrder is returned when prayer times decrease in chronological order.
var ErrScheduleOrder = errors.New("prayer times out of order")

// DailyPrayerSchedule is one day of prayer instants for a location.
type DailyPrayerSchedule struct {
	Times    [PrayerCount]TimeOfDay
	Sunrise  TimeOfDay
	Date     CalendarDate
	Timezone string // IANA name reported by the upstream API, may be empty
}

// CalendarDate carries the Gregorian and Hijri descriptors of a schedule day.
type CalendarDate struct {
	Readable  string    `json:"readable"`
	Gregorian string    `json:"gregorian"` // DD-MM-YYYY
	Weekday   string    `json:"weekday"`
	Hijri     HijriDate `json:"hijri"`
}

type HijriDate struct {
	Date        string `json:"date"` // DD-MM-YYYY
	Day         string `json:"day"`
	MonthNumber int    `json:"month_number"`
	MonthEn     string `json:"month_en"`
	MonthAr     string `json:"month_ar"`
	Year        string `json:"year"`
}

// Format renders the Hijri date as "DD Month YYYY H".
func (h HijriDate) Format() string {
	if h.Day == "" || h.MonthEn == "" || h.Year == "" {
		return ""
	}
	return h.Day + " " + h.MonthEn + " " + h.Year + " H"
}

// NewDailySchedule parses exactly five "HH:MM" strings in the order
// Fajr, Dhuhr, Asr, Maghrib, Isha. sunrise may be empty.
func NewDailySchedule(times []string, sunrise string) (DailyPrayerSchedule, error) {
	var s DailyPrayerSchedule
	if len(times) != PrayerCount {
		return s, fmt.Errorf("expected %d prayer times, got %d", PrayerCount, len(times))
	}

	for i, p := range Prayers {
		t, err := ParseTimeOfDay(times[i])
		if err != nil {
			return s, fmt.Errorf("failed to parse time for %s: %w", p, err)
		}
		if i > 0 && t < s.Times[i-1] {
			return s, fmt.Errorf("%w: %s (%s) before %s (%s)",
				ErrScheduleOrder, p, t, Prayers[i-1], s.Times[i-1])
		}
		s.Times[i] = t
	}

	s.Sunrise = NoTime
	if sunrise != "" {
		t, err := ParseTimeOfDay(sunrise)
		if err != nil {
			return s, fmt.Errorf("failed to parse time for Sunrise: %w", err)
		}
		s.Sunrise = t
	}

	return s, nil
}

// At returns the time of the given prayer.
func (s DailyPrayerSchedule) At(p Prayer) TimeOfDay {
	if !p.Valid() {
		return NoTime
	}
	return s.Times[p]
}
