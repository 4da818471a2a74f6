package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/shalat/internal/aladhan"
	"github.com/Nixie-Tech-LLC/shalat/internal/config"
	"github.com/Nixie-Tech-LLC/shalat/internal/db"
	"github.com/Nixie-Tech-LLC/shalat/internal/location"
	"github.com/Nixie-Tech-LLC/shalat/internal/mqtt"
	"github.com/Nixie-Tech-LLC/shalat/internal/redis"
)

// Backends holds everything the routes depend on. Optional services that
// are not configured fall back to in-process implementations.
type Backends struct {
	Fetcher  aladhan.Fetcher
	Provider *location.Provider

	closers []func()
}

func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// InitBackends selects and returns the configured backends
func InitBackends(ctx context.Context, cfg *config.Config) (*Backends, error) {
	b := &Backends{}

	store, err := initStore(cfg, b)
	if err != nil {
		return nil, err
	}

	client := aladhan.NewClient()
	client.BaseURL = cfg.AladhanBaseURL
	client.Method = cfg.AladhanMethod
	b.Fetcher = aladhan.NewCachedFetcher(client, initCache(ctx, cfg, b), cfg.CacheTTL, cfg.AladhanMethod)

	b.Provider = location.NewProvider(store, location.DefaultCatalog(), location.NewIPLocator())
	initPublisher(cfg, b)

	return b, nil
}

func initStore(cfg *config.Config, b *Backends) (location.PreferenceStore, error) {
	if cfg.DatabaseURL == "" {
		log.Info().Msg("Using in-memory preference store")
		return location.NewMemoryStore(), nil
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}
	b.closers = append(b.closers, func() { _ = conn.Close() })

	log.Info().Msg("Using PostgreSQL preference store")
	return db.NewStore(conn), nil
}

// initCache returns nil when Redis is not configured or unreachable, which
// disables caching.
func initCache(ctx context.Context, cfg *config.Config, b *Backends) aladhan.Cache {
	if cfg.RedisAddress == "" {
		log.Info().Msg("Redis not configured, prayer times are not cached")
		return nil
	}

	cache := redis.NewCache(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("address", cfg.RedisAddress).Msg("Redis unreachable, prayer times are not cached")
		_ = cache.Close()
		return nil
	}
	b.closers = append(b.closers, func() { _ = cache.Close() })

	log.Info().Str("address", cfg.RedisAddress).Dur("ttl", cfg.CacheTTL).Msg("Using Redis prayer times cache")
	return cache
}

func initPublisher(cfg *config.Config, b *Backends) {
	if cfg.MQTTBrokerURL == "" {
		return
	}

	client, err := mqtt.Connect(cfg.MQTTBrokerURL, cfg.MQTTClientID)
	if err != nil {
		log.Warn().Err(err).Msg("MQTT unavailable, location changes are not published")
		return
	}

	publisher := mqtt.NewPublisher(client)
	unsubscribe := b.Provider.Subscribe(publisher.NotifyLocation)
	b.closers = append(b.closers, func() {
		unsubscribe()
		publisher.Close()
	})
}
