// Package session keeps a live prayer cursor for one client: it owns the
// selected city, the schedule fetched for it and the ticker that refreshes
// the cursor.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/shalat/internal/aladhan"
	"github.com/Nixie-Tech-LLC/shalat/internal/model"
	"github.com/Nixie-Tech-LLC/shalat/internal/prayer"
)

var ErrClosed = errors.New("session closed")

const (
	DefaultInterval = time.Second
	// RetryDelay spaces out refetch attempts after a failed fetch.
	RetryDelay = 30 * time.Second

	dateLayout = "02-01-2006"
)

type Options struct {
	Interval time.Duration
	Now      func() time.Time
	// Fallback is used when the upstream schedule carries no usable timezone.
	Fallback *time.Location
}

// Update is emitted on every tick and whenever a fetch completes or fails.
// City is the city Schedule and Cursor describe, which lags the requested
// city until its schedule arrives.
type Update struct {
	Seq      uint64                     `json:"seq"`
	City     model.City                 `json:"city"`
	Schedule *model.DailyPrayerSchedule `json:"-"`
	Cursor   *prayer.Cursor             `json:"cursor,omitempty"`
	Err      error                      `json:"-"`
	At       time.Time                  `json:"at"`
}

type result struct {
	seq      uint64
	city     model.City
	day      string
	schedule model.DailyPrayerSchedule
	err      error
}

type Session struct {
	fetcher  aladhan.Fetcher
	interval time.Duration
	now      func() time.Time
	fallback *time.Location

	mu          sync.Mutex
	city        model.City
	hasCity     bool
	schedule    *model.DailyPrayerSchedule
	scheduleFor model.City
	loc         *time.Location
	fetchedDay  string
	seq         uint64
	inFlight    bool
	retryAfter  time.Time
	cancelFetch context.CancelFunc

	results   chan result
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func New(fetcher aladhan.Fetcher, opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Fallback == nil {
		opts.Fallback = time.Local
	}
	return &Session{
		fetcher:  fetcher,
		interval: opts.Interval,
		now:      opts.Now,
		fallback: opts.Fallback,
		loc:      opts.Fallback,
		results:  make(chan result),
		done:     make(chan struct{}),
	}
}

// SetCity switches the session to city and starts fetching its schedule.
// Any fetch still running for a previous city is cancelled and its result,
// should it arrive anyway, is dropped. The previous schedule keeps driving
// the cursor until the new one arrives.
func (s *Session) SetCity(city model.City) error {
	if err := city.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	s.city = city
	s.hasCity = true
	s.fetchedDay = ""
	s.retryAfter = time.Time{}
	s.startFetchLocked()
	return nil
}

// startFetchLocked must be called with s.mu held.
func (s *Session) startFetchLocked() {
	if s.cancelFetch != nil {
		s.cancelFetch()
	}
	s.seq++
	s.inFlight = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelFetch = cancel

	date := s.now().In(s.loc)
	s.wg.Add(1)
	go s.fetch(ctx, s.seq, s.city, date)
}

func (s *Session) fetch(ctx context.Context, seq uint64, city model.City, date time.Time) {
	defer s.wg.Done()

	res := result{seq: seq, city: city, day: date.Format(dateLayout)}
	data, err := s.fetcher.FetchSchedule(ctx, city.Coordinate, date)
	if err == nil {
		res.schedule, err = data.Schedule()
	}
	if err != nil {
		res.err = fmt.Errorf("fetch schedule for %s: %w", city.Name, err)
	}

	select {
	case s.results <- res:
	case <-ctx.Done():
	case <-s.done:
	}
}

// Run ticks until ctx is done or Close is called, calling emit from the
// Run goroutine only. Run must be called at most once.
func (s *Session) Run(ctx context.Context, emit func(Update)) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			return ctx.Err()
		case <-s.done:
			return nil
		case res := <-s.results:
			if u, ok := s.apply(res); ok {
				emit(u)
			}
		case <-ticker.C:
			if u, ok := s.tick(); ok {
				emit(u)
			}
		}
	}
}

// apply installs a fetch result if it belongs to the latest request.
func (s *Session) apply(res result) (Update, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.seq != s.seq {
		log.Debug().Uint64("seq", res.seq).Uint64("latest", s.seq).Msg("dropping stale schedule")
		return Update{}, false
	}
	s.inFlight = false

	now := s.now()
	if res.err != nil {
		log.Warn().Err(res.err).Uint64("seq", res.seq).Msg("schedule fetch failed")
		s.retryAfter = now.Add(RetryDelay)
		u := s.updateLocked(now)
		u.Err = res.err
		return u, true
	}

	schedule := res.schedule
	s.schedule = &schedule
	s.scheduleFor = res.city
	s.loc = prayer.Location(schedule, s.fallback)
	s.fetchedDay = res.day
	log.Debug().Str("city", res.city.Name).Uint64("seq", res.seq).Msg("schedule updated")
	return s.updateLocked(now), true
}

// tick recomputes the cursor from the held schedule. It never does I/O; a
// refetch is started in the background when the local day has changed or a
// failed fetch is due for retry.
func (s *Session) tick() (Update, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasCity {
		return Update{}, false
	}

	now := s.now()
	if !s.inFlight && !now.Before(s.retryAfter) {
		if s.schedule == nil || now.In(s.loc).Format(dateLayout) != s.fetchedDay {
			s.startFetchLocked()
		}
	}

	if s.schedule == nil {
		return Update{}, false
	}
	return s.updateLocked(now), true
}

func (s *Session) updateLocked(now time.Time) Update {
	u := Update{Seq: s.seq, City: s.city, At: now}
	if s.schedule != nil {
		u.City = s.scheduleFor
		schedule := *s.schedule
		cursor := prayer.ComputeIn(schedule, now, s.loc)
		u.Schedule = &schedule
		u.Cursor = &cursor
	}
	return u
}

// Snapshot returns the latest state without waiting for a tick.
func (s *Session) Snapshot() Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(s.now())
}

// Close stops the session and cancels any running fetch. It is safe to call
// more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		close(s.done)
		if s.cancelFetch != nil {
			s.cancelFetch()
		}
		s.mu.Unlock()
		s.wg.Wait()
	})
}
