package aladhan

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

// DefaultCacheTTL matches the hourly revalidation of the upstream responses.
const DefaultCacheTTL = time.Hour

// Cache stores raw "data" payloads by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedFetcher serves schedules from Cache and falls through to Next on a
// miss. Cache failures are logged and bypassed.
type CachedFetcher struct {
	Next   Fetcher
	Cache  Cache
	TTL    time.Duration
	Method int
}

var _ Fetcher = (*CachedFetcher)(nil)

func NewCachedFetcher(next Fetcher, cache Cache, ttl time.Duration, method int) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedFetcher{Next: next, Cache: cache, TTL: ttl, Method: method}
}

// CacheKey is deterministic for a date, a coordinate rounded to 4 decimals, and a method.
func CacheKey(coord model.Coordinate, date time.Time, method int) string {
	return fmt.Sprintf("shalat:timings:%s:%.4f:%.4f:%d",
		date.Format("2006-01-02"), coord.Latitude, coord.Longitude, method)
}

func (f *CachedFetcher) FetchSchedule(ctx context.Context, coord model.Coordinate, date time.Time) (*Data, error) {
	if f.Cache == nil {
		return f.Next.FetchSchedule(ctx, coord, date)
	}

	key := CacheKey(coord, date, f.Method)

	raw, ok, err := f.Cache.Get(ctx, key)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("key", key).Msg("schedule cache read failed")
	case ok:
		data, err := DecodeData(raw)
		if err == nil {
			log.Debug().Str("key", key).Msg("schedule cache hit")
			return data, nil
		}
		log.Warn().Err(err).Str("key", key).Msg("discarding corrupt schedule cache entry")
	}

	data, err := f.Next.FetchSchedule(ctx, coord, date)
	if err != nil {
		return nil, err
	}

	if err := f.Cache.Set(ctx, key, data.Raw, f.TTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("schedule cache write failed")
	}
	return data, nil
}
