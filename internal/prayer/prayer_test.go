package prayer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

func sampleSchedule(t *testing.T) model.DailyPrayerSchedule {
	t.Helper()
	s, err := model.NewDailySchedule([]string{"04:30", "12:00", "15:15", "18:00", "19:15"}, "05:45")
	require.NoError(t, err)
	return s
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 1, hour, min, 0, 0, time.UTC)
}

func TestCompute_Scenarios(t *testing.T) {
	s := sampleSchedule(t)

	tests := []struct {
		name          string
		now           time.Time
		wantCurrent   model.Prayer
		wantNext      model.Prayer
		wantMinutes   int
		wantLabel     string
		wantYesterday bool
		wantTomorrow  bool
	}{
		{"between Dhuhr and Asr", at(13, 0), model.Dhuhr, model.Asr, 135, "2h 15m", false, false},
		{"after Isha", at(20, 0), model.Isha, model.Fajr, 510, "8h 30m", false, true},
		{"before Fajr", at(3, 0), model.Isha, model.Fajr, 90, "1h 30m", true, false},
		{"midnight", at(0, 0), model.Isha, model.Fajr, 270, "4h 30m", true, false},
		{"last minute of day", at(23, 59), model.Isha, model.Fajr, 271, "4h 31m", false, true},
		{"under an hour", at(17, 15), model.Asr, model.Maghrib, 45, "45m", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Compute(s, tt.now)
			assert.Equal(t, tt.wantCurrent, c.Current)
			assert.Equal(t, tt.wantNext, c.Next)
			assert.Equal(t, tt.wantMinutes, c.RemainingMinutes)
			assert.Equal(t, time.Duration(tt.wantMinutes)*time.Minute, c.Remaining)
			assert.Equal(t, tt.wantLabel, c.RemainingLabel)
			assert.Equal(t, tt.wantYesterday, c.CurrentIsYesterday)
			assert.Equal(t, tt.wantTomorrow, c.NextIsTomorrow)
			assert.Equal(t, s.At(tt.wantCurrent), c.CurrentTime)
			assert.Equal(t, s.At(tt.wantNext), c.NextTime)
		})
	}
}

// A prayer is current, not next, during the minute it begins.
func TestCompute_EqualMinuteIsCurrent(t *testing.T) {
	s := sampleSchedule(t)

	for i, p := range model.Prayers {
		now := at(s.Times[i].Hour(), s.Times[i].Minute())
		c := Compute(s, now)
		assert.Equal(t, p, c.Current, "at %s", s.Times[i])
		if p == model.Isha {
			assert.Equal(t, model.Fajr, c.Next)
			assert.True(t, c.NextIsTomorrow)
			assert.Equal(t, model.MinutesPerDay-1155+270, c.RemainingMinutes)
		} else {
			assert.Equal(t, model.Prayers[i+1], c.Next)
		}
	}
}

func TestCompute_BetweenEveryPair(t *testing.T) {
	s := sampleSchedule(t)

	for i := 0; i < model.PrayerCount-1; i++ {
		// one minute after entry i, strictly before entry i+1
		m := s.Times[i] + 1
		c := Compute(s, at(m.Hour(), m.Minute()))
		assert.Equal(t, model.Prayers[i], c.Current)
		assert.Equal(t, model.Prayers[i+1], c.Next)
		assert.Equal(t, int(s.Times[i+1]-m), c.RemainingMinutes)
	}
}

func TestCompute_IgnoresSeconds(t *testing.T) {
	s := sampleSchedule(t)
	a := Compute(s, time.Date(2026, 3, 1, 11, 59, 0, 0, time.UTC))
	b := Compute(s, time.Date(2026, 3, 1, 11, 59, 59, 0, time.UTC))
	assert.Equal(t, a, b)
	assert.Equal(t, model.Dhuhr, a.Next)
	assert.Equal(t, 1, a.RemainingMinutes)
}

func TestCompute_Idempotent(t *testing.T) {
	s := sampleSchedule(t)
	now := at(16, 42)
	assert.Equal(t, Compute(s, now), Compute(s, now))
}

func TestCompute_CollapsedSchedule(t *testing.T) {
	s, err := model.NewDailySchedule([]string{"05:00", "12:00", "12:00", "18:00", "19:00"}, "")
	require.NoError(t, err)

	c := Compute(s, at(12, 0))
	assert.Equal(t, model.Asr, c.Current)
	assert.Equal(t, model.Maghrib, c.Next)
}

func TestComputeIn(t *testing.T) {
	s := sampleSchedule(t)
	wib := time.FixedZone("WIB", 7*3600)

	// 06:00 UTC is 13:00 WIB.
	c := ComputeIn(s, time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC), wib)
	assert.Equal(t, model.Dhuhr, c.Current)
	assert.Equal(t, model.Asr, c.Next)

	// nil location leaves now untouched
	c = ComputeIn(s, at(13, 0), nil)
	assert.Equal(t, model.Asr, c.Next)
}

func TestLocation(t *testing.T) {
	fallback := time.FixedZone("WIB", 7*3600)

	s := model.DailyPrayerSchedule{Timezone: "UTC"}
	assert.Equal(t, "UTC", Location(s, fallback).String())

	s.Timezone = "Not/AZone"
	assert.Equal(t, fallback, Location(s, fallback))

	s.Timezone = ""
	assert.Equal(t, time.Local, Location(s, nil))
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{-5 * time.Minute, "0m"},
		{59 * time.Minute, "59m"},
		{60 * time.Minute, "1h 0m"},
		{135 * time.Minute, "2h 15m"},
		{510 * time.Minute, "8h 30m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRemaining(tt.d), "d=%v", tt.d)
	}
}

func TestFormatRemainingLocal(t *testing.T) {
	assert.Equal(t, "2 jam 15 menit", FormatRemainingLocal(135*time.Minute))
	assert.Equal(t, "0 jam 45 menit", FormatRemainingLocal(45*time.Minute))
	assert.Equal(t, "0 jam 0 menit", FormatRemainingLocal(-time.Minute))
}
