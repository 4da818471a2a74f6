package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/shalat/internal/aladhan"
)

const (
	defaultServerAddress   = ":8080"
	defaultMigrationsPath  = "./migrations"
	defaultTimezone        = "Asia/Jakarta"
	defaultTickInterval    = time.Second
	defaultMQTTClientID    = "shalat-server"
	defaultEnvironmentName = "development"
)

// Config holds environment-based settings
type Config struct {
	Environment   string
	ServerAddress string

	AladhanBaseURL string
	AladhanMethod  int
	CacheTTL       time.Duration
	TickInterval   time.Duration
	Timezone       *time.Location

	// optional backends, empty means disabled
	DatabaseURL    string
	MigrationsPath string
	RedisAddress   string
	RedisUsername  string
	RedisPassword  string
	MQTTBrokerURL  string
	MQTTClientID   string
}

// LoadEnv loads a .env file into the process environment if one exists.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug().Msg("No .env file found, assuming environment variables are set directly")
	}
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Environment:    getEnv("APP_ENV", defaultEnvironmentName),
		ServerAddress:  getEnv("SERVER_ADDRESS", defaultServerAddress),
		AladhanBaseURL: getEnv("ALADHAN_BASE_URL", aladhan.DefaultBaseURL),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", defaultMigrationsPath),
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		RedisUsername:  os.Getenv("REDIS_USERNAME"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		MQTTBrokerURL:  os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:   getEnv("MQTT_CLIENT_ID", defaultMQTTClientID),
	}

	method, err := strconv.Atoi(getEnv("ALADHAN_METHOD", strconv.Itoa(aladhan.MethodKemenag)))
	if err != nil {
		return nil, fmt.Errorf("ALADHAN_METHOD: %w", err)
	}
	cfg.AladhanMethod = method

	if cfg.CacheTTL, err = getDuration("CACHE_TTL", aladhan.DefaultCacheTTL); err != nil {
		return nil, err
	}
	if cfg.TickInterval, err = getDuration("TICK_INTERVAL", defaultTickInterval); err != nil {
		return nil, err
	}

	tz := getEnv("DEFAULT_TIMEZONE", defaultTimezone)
	if cfg.Timezone, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("DEFAULT_TIMEZONE: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == defaultEnvironmentName
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}
