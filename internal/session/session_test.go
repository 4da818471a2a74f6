package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/shalat/internal/aladhan"
	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

var wib = time.FixedZone("WIB", 7*3600)

var (
	jakarta = model.City{Name: "Jakarta", Coordinate: model.Coordinate{Latitude: -6.2088, Longitude: 106.8456}}
	bandung = model.City{Name: "Bandung", Coordinate: model.Coordinate{Latitude: -6.9175, Longitude: 107.6191}}
)

func timings(fajr, dhuhr, asr, maghrib, isha string) *aladhan.Data {
	return &aladhan.Data{Timings: aladhan.Timings{
		Fajr: fajr, Sunrise: "05:55", Dhuhr: dhuhr, Asr: asr, Maghrib: maghrib, Isha: isha,
	}}
}

type response struct {
	data *aladhan.Data
	err  error
	gate chan struct{}
}

type fakeFetcher struct {
	mu        sync.Mutex
	responses map[model.Coordinate]response
	calls     int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{responses: make(map[model.Coordinate]response)}
}

func (f *fakeFetcher) on(city model.City, r response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[city.Coordinate] = r
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeFetcher) FetchSchedule(_ context.Context, coord model.Coordinate, _ time.Time) (*aladhan.Data, error) {
	f.mu.Lock()
	f.calls++
	r, ok := f.responses[coord]
	f.mu.Unlock()

	if !ok {
		return nil, errors.New("no response configured")
	}
	if r.gate != nil {
		<-r.gate
	}
	return r.data, r.err
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func start(t *testing.T, s *Session) <-chan Update {
	t.Helper()
	updates := make(chan Update, 128)
	go func() {
		_ = s.Run(context.Background(), func(u Update) { updates <- u })
	}()
	t.Cleanup(s.Close)
	return updates
}

func next(t *testing.T, updates <-chan Update) Update {
	t.Helper()
	select {
	case u := <-updates:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func TestSessionEmitsCursorAfterFetch(t *testing.T) {
	f := newFakeFetcher()
	f.on(jakarta, response{data: timings("04:40", "12:00", "15:15", "18:05", "19:15")})

	c := &clock{now: time.Date(2025, 3, 10, 13, 0, 0, 0, wib)}
	s := New(f, Options{Interval: time.Hour, Now: c.Now, Fallback: wib})
	require.NoError(t, s.SetCity(jakarta))
	updates := start(t, s)

	u := next(t, updates)
	require.NoError(t, u.Err)
	require.NotNil(t, u.Cursor)
	assert.Equal(t, uint64(1), u.Seq)
	assert.Equal(t, jakarta, u.City)
	assert.Equal(t, model.Dhuhr, u.Cursor.Current)
	assert.Equal(t, model.Asr, u.Cursor.Next)
	assert.Equal(t, 135, u.Cursor.RemainingMinutes)

	snap := s.Snapshot()
	require.NotNil(t, snap.Cursor)
	assert.Equal(t, model.Asr, snap.Cursor.Next)
}

func TestSessionDropsStaleSchedule(t *testing.T) {
	gate := make(chan struct{})
	f := newFakeFetcher()
	f.on(jakarta, response{data: timings("04:40", "12:00", "15:15", "18:05", "19:15"), gate: gate})
	f.on(bandung, response{data: timings("04:30", "11:50", "15:05", "17:55", "19:05")})

	c := &clock{now: time.Date(2025, 3, 10, 13, 0, 0, 0, wib)}
	s := New(f, Options{Interval: time.Hour, Now: c.Now, Fallback: wib})
	updates := start(t, s)

	require.NoError(t, s.SetCity(jakarta))
	require.NoError(t, s.SetCity(bandung))

	u := next(t, updates)
	assert.Equal(t, uint64(2), u.Seq)
	assert.Equal(t, bandung, u.City)
	require.NotNil(t, u.Schedule)
	assert.Equal(t, "11:50", u.Schedule.At(model.Dhuhr).String())

	// the slow Jakarta answer arrives after Bandung and must not replace it
	close(gate)
	select {
	case u := <-updates:
		t.Fatalf("unexpected update after stale fetch: %+v", u)
	case <-time.After(100 * time.Millisecond):
	}

	snap := s.Snapshot()
	require.NotNil(t, snap.Schedule)
	assert.Equal(t, "11:50", snap.Schedule.At(model.Dhuhr).String())
}

func TestSessionLabelsHeldScheduleWithItsCity(t *testing.T) {
	gate := make(chan struct{})
	f := newFakeFetcher()
	f.on(jakarta, response{data: timings("04:40", "12:00", "15:15", "18:05", "19:15")})
	f.on(bandung, response{data: timings("04:30", "11:50", "15:05", "17:55", "19:05"), gate: gate})

	c := &clock{now: time.Date(2025, 3, 10, 13, 0, 0, 0, wib)}
	s := New(f, Options{Interval: 10 * time.Millisecond, Now: c.Now, Fallback: wib})
	updates := start(t, s)

	require.NoError(t, s.SetCity(jakarta))
	require.Equal(t, jakarta, next(t, updates).City)

	require.NoError(t, s.SetCity(bandung))

	// Ticks while Bandung is loading still describe Jakarta.
	u := next(t, updates)
	for u.Seq < 2 {
		u = next(t, updates)
	}
	assert.Equal(t, jakarta, u.City)
	require.NotNil(t, u.Schedule)
	assert.Equal(t, "12:00", u.Schedule.At(model.Dhuhr).String())
	assert.Equal(t, jakarta, s.Snapshot().City)

	close(gate)
	for {
		u := next(t, updates)
		require.NotNil(t, u.Schedule)
		if u.City == bandung {
			assert.Equal(t, "11:50", u.Schedule.At(model.Dhuhr).String())
			break
		}
		assert.Equal(t, "12:00", u.Schedule.At(model.Dhuhr).String())
	}
}

func TestSessionFetchErrorKeepsPriorSchedule(t *testing.T) {
	f := newFakeFetcher()
	f.on(jakarta, response{data: timings("04:40", "12:00", "15:15", "18:05", "19:15")})
	f.on(bandung, response{err: aladhan.ErrNetwork})

	c := &clock{now: time.Date(2025, 3, 10, 20, 0, 0, 0, wib)}
	s := New(f, Options{Interval: time.Hour, Now: c.Now, Fallback: wib})
	updates := start(t, s)

	require.NoError(t, s.SetCity(jakarta))
	require.NoError(t, next(t, updates).Err)

	require.NoError(t, s.SetCity(bandung))
	u := next(t, updates)
	assert.ErrorIs(t, u.Err, aladhan.ErrNetwork)
	assert.Equal(t, jakarta, u.City)
	require.NotNil(t, u.Cursor)
	assert.Equal(t, model.Fajr, u.Cursor.Next)
	assert.True(t, u.Cursor.NextIsTomorrow)
}

func TestSessionMalformedScheduleIsAnError(t *testing.T) {
	f := newFakeFetcher()
	f.on(jakarta, response{data: timings("04:40", "12:00", "abc", "18:05", "19:15")})

	s := New(f, Options{Interval: time.Hour, Fallback: wib})
	updates := start(t, s)
	require.NoError(t, s.SetCity(jakarta))

	u := next(t, updates)
	assert.Error(t, u.Err)
	assert.Nil(t, u.Cursor)
}

func TestSessionTicks(t *testing.T) {
	f := newFakeFetcher()
	f.on(jakarta, response{data: timings("04:40", "12:00", "15:15", "18:05", "19:15")})

	c := &clock{now: time.Date(2025, 3, 10, 15, 14, 0, 0, wib)}
	s := New(f, Options{Interval: 10 * time.Millisecond, Now: c.Now, Fallback: wib})
	updates := start(t, s)
	require.NoError(t, s.SetCity(jakarta))

	u := next(t, updates)
	require.NotNil(t, u.Cursor)
	assert.Equal(t, model.Asr, u.Cursor.Next)
	assert.Equal(t, "1m", u.Cursor.RemainingLabel)

	c.Set(time.Date(2025, 3, 10, 15, 15, 0, 0, wib))
	for {
		u := next(t, updates)
		require.NotNil(t, u.Cursor)
		if u.Cursor.Current == model.Asr {
			assert.Equal(t, model.Maghrib, u.Cursor.Next)
			assert.Equal(t, 170, u.Cursor.RemainingMinutes)
			break
		}
	}

	assert.Equal(t, 1, f.callCount())
}

func TestSessionRefetchesOnNewDay(t *testing.T) {
	f := newFakeFetcher()
	f.on(jakarta, response{data: timings("04:40", "12:00", "15:15", "18:05", "19:15")})

	c := &clock{now: time.Date(2025, 3, 10, 23, 59, 0, 0, wib)}
	s := New(f, Options{Interval: 10 * time.Millisecond, Now: c.Now, Fallback: wib})
	updates := start(t, s)
	require.NoError(t, s.SetCity(jakarta))
	next(t, updates)

	c.Set(time.Date(2025, 3, 11, 0, 1, 0, 0, wib))
	require.Eventually(t, func() bool { return f.callCount() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestSessionRejectsInvalidCity(t *testing.T) {
	s := New(newFakeFetcher(), Options{})
	err := s.SetCity(model.City{Name: "x", Coordinate: model.Coordinate{Latitude: 95}})
	assert.ErrorIs(t, err, model.ErrInvalidCoordinate)
}

func TestSessionClose(t *testing.T) {
	gate := make(chan struct{})
	f := newFakeFetcher()
	f.on(jakarta, response{data: timings("04:40", "12:00", "15:15", "18:05", "19:15"), gate: gate})

	s := New(f, Options{Interval: 10 * time.Millisecond})
	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), func(Update) {}) }()

	require.NoError(t, s.SetCity(jakarta))
	close(gate)

	s.Close()
	s.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	assert.ErrorIs(t, s.SetCity(jakarta), ErrClosed)
}

func TestSessionRunStopsWithContext(t *testing.T) {
	s := New(newFakeFetcher(), Options{Interval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, func(Update) {})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.SetCity(jakarta), ErrClosed)
}
