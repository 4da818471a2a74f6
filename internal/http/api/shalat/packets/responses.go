package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/shalat/internal/model"
	"github.com/Nixie-Tech-LLC/shalat/internal/prayer"
)

// RESPONSES FOR /api/*

type CityResponse struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	IsMyLocation bool    `json:"is_my_location"`
}

func NewCityResponse(c model.City) CityResponse {
	return CityResponse{
		Name:         c.Name,
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
		IsMyLocation: c.IsMyLocation(),
	}
}

func NewCityList(cities []model.City) []CityResponse {
	out := make([]CityResponse, 0, len(cities))
	for _, c := range cities {
		out = append(out, NewCityResponse(c))
	}
	return out
}

type NearestCityResponse struct {
	City       CityResponse `json:"city"`
	DistanceKm float64      `json:"distance_km"`
}

// PreferenceResponse flattens times to RFC3339
type PreferenceResponse struct {
	DeviceID          string       `json:"device_id"`
	City              CityResponse `json:"city"`
	Saved             bool         `json:"saved"`
	PermissionAsked   bool         `json:"permission_asked"`
	PermissionGranted bool         `json:"permission_granted"`
	UpdatedAt         string       `json:"updated_at,omitempty"`
}

// NewPreferenceResponse reports current as the city; it is the saved city
// when one exists, the default otherwise.
func NewPreferenceResponse(pref *model.Preference, current model.City) PreferenceResponse {
	resp := PreferenceResponse{
		DeviceID:          pref.DeviceID,
		City:              NewCityResponse(current),
		Saved:             pref.City != nil,
		PermissionAsked:   pref.PermissionAsked,
		PermissionGranted: pref.PermissionGranted,
	}
	if !pref.UpdatedAt.IsZero() {
		resp.UpdatedAt = pref.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

type PrayerTimeResponse struct {
	Key    string `json:"key"`
	Name   string `json:"name"`
	Arabic string `json:"arabic"`
	Time   string `json:"time"`
}

type ScheduleResponse struct {
	Date     string               `json:"date"`
	Weekday  string               `json:"weekday,omitempty"`
	Hijri    string               `json:"hijri,omitempty"`
	Timezone string               `json:"timezone,omitempty"`
	Sunrise  string               `json:"sunrise,omitempty"`
	Prayers  []PrayerTimeResponse `json:"prayers"`
}

func NewScheduleResponse(s model.DailyPrayerSchedule) ScheduleResponse {
	prayers := make([]PrayerTimeResponse, 0, model.PrayerCount)
	for _, p := range model.Prayers {
		prayers = append(prayers, PrayerTimeResponse{
			Key:    p.String(),
			Name:   p.LocalName(),
			Arabic: p.ArabicName(),
			Time:   s.At(p).String(),
		})
	}
	return ScheduleResponse{
		Date:     s.Date.Readable,
		Weekday:  s.Date.Weekday,
		Hijri:    s.Date.Hijri.Format(),
		Timezone: s.Timezone,
		Sunrise:  s.Sunrise.String(),
		Prayers:  prayers,
	}
}

type CursorResponse struct {
	Current            string `json:"current"`
	CurrentName        string `json:"current_name"`
	CurrentTime        string `json:"current_time"`
	CurrentIsYesterday bool   `json:"current_is_yesterday"`
	Next               string `json:"next"`
	NextName           string `json:"next_name"`
	NextTime           string `json:"next_time"`
	NextIsTomorrow     bool   `json:"next_is_tomorrow"`
	RemainingMinutes   int    `json:"remaining_minutes"`
	Remaining          string `json:"remaining"`
	RemainingLocal     string `json:"remaining_local"`
}

func NewCursorResponse(c prayer.Cursor) CursorResponse {
	return CursorResponse{
		Current:            c.Current.String(),
		CurrentName:        c.Current.LocalName(),
		CurrentTime:        c.CurrentTime.String(),
		CurrentIsYesterday: c.CurrentIsYesterday,
		Next:               c.Next.String(),
		NextName:           c.Next.LocalName(),
		NextTime:           c.NextTime.String(),
		NextIsTomorrow:     c.NextIsTomorrow,
		RemainingMinutes:   c.RemainingMinutes,
		Remaining:          c.RemainingLabel,
		RemainingLocal:     prayer.FormatRemainingLocal(c.Remaining),
	}
}

// PrayerStatusResponse is returned by /api/cursor and pushed on /api/stream.
type PrayerStatusResponse struct {
	City     CityResponse     `json:"city"`
	Schedule ScheduleResponse `json:"schedule"`
	Cursor   CursorResponse   `json:"cursor"`
	At       string           `json:"at"`
}

func NewPrayerStatusResponse(city model.City, s model.DailyPrayerSchedule, c prayer.Cursor, at time.Time) PrayerStatusResponse {
	return PrayerStatusResponse{
		City:     NewCityResponse(city),
		Schedule: NewScheduleResponse(s),
		Cursor:   NewCursorResponse(c),
		At:       at.Format(time.RFC3339),
	}
}

// StreamMessage is the envelope of every message sent on /api/stream.
type StreamMessage struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	StreamTypeStatus = "status"
	StreamTypeError  = "error"
)
