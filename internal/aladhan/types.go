package aladhan

import (
	"encoding/json"
	"fmt"

	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

// Response is the top-level Aladhan envelope. Data is kept raw so the
// proxy can forward it verbatim.
type Response struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Data holds the prayer timings, date info, and metadata.
type Data struct {
	Timings Timings  `json:"timings"`
	Date    DateInfo `json:"date"`
	Meta    Meta     `json:"meta"`

	// Raw is the undecoded "data" object exactly as received.
	Raw json.RawMessage `json:"-"`
}

// Timings values are "HH:MM", possibly followed by a suffix like " (WIB)".
type Timings struct {
	Fajr     string `json:"Fajr"`
	Sunrise  string `json:"Sunrise"`
	Dhuhr    string `json:"Dhuhr"`
	Asr      string `json:"Asr"`
	Sunset   string `json:"Sunset"`
	Maghrib  string `json:"Maghrib"`
	Isha     string `json:"Isha"`
	Imsak    string `json:"Imsak"`
	Midnight string `json:"Midnight"`
}

type DateInfo struct {
	Readable  string        `json:"readable"`
	Timestamp string        `json:"timestamp"`
	Hijri     HijriDate     `json:"hijri"`
	Gregorian GregorianDate `json:"gregorian"`
}

type HijriDate struct {
	Date  string     `json:"date"` // e.g. "10-09-1447"
	Day   string     `json:"day"`
	Month HijriMonth `json:"month"`
	Year  string     `json:"year"`
}

type HijriMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
	Ar     string `json:"ar"`
}

type GregorianDate struct {
	Date    string         `json:"date"` // e.g. "01-03-2026"
	Day     string         `json:"day"`
	Weekday GregorianDay   `json:"weekday"`
	Month   GregorianMonth `json:"month"`
	Year    string         `json:"year"`
}

type GregorianDay struct {
	En string `json:"en"`
}

type GregorianMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

type Meta struct {
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Timezone  string     `json:"timezone"`
	Method    MethodInfo `json:"method"`
}

type MethodInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DecodeData parses a raw "data" object and keeps the raw bytes on the result.
func DecodeData(raw json.RawMessage) (*Data, error) {
	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to decode timings data: %w", err)
	}
	d.Raw = raw
	return &d, nil
}

// Schedule converts the upstream payload into a validated daily schedule.
func (d *Data) Schedule() (model.DailyPrayerSchedule, error) {
	t := d.Timings
	s, err := model.NewDailySchedule([]string{t.Fajr, t.Dhuhr, t.Asr, t.Maghrib, t.Isha}, t.Sunrise)
	if err != nil {
		return s, err
	}

	s.Timezone = d.Meta.Timezone
	s.Date = model.CalendarDate{
		Readable:  d.Date.Readable,
		Gregorian: d.Date.Gregorian.Date,
		Weekday:   d.Date.Gregorian.Weekday.En,
		Hijri: model.HijriDate{
			Date:        d.Date.Hijri.Date,
			Day:         d.Date.Hijri.Day,
			MonthNumber: d.Date.Hijri.Month.Number,
			MonthEn:     d.Date.Hijri.Month.En,
			MonthAr:     d.Date.Hijri.Month.Ar,
			Year:        d.Date.Hijri.Year,
		},
	}
	return s, nil
}
