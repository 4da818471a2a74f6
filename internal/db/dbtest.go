package db

import (
	"errors"
	"os"
)

// OpenTestStore connects to TEST_DATABASE_URL and applies migrations.
func OpenTestStore(migrationsPath string) (Store, func() error, error) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		return nil, nil, errors.New("TEST_DATABASE_URL environment variable is not set")
	}

	conn, err := Open(dbURL)
	if err != nil {
		return nil, nil, err
	}

	if err := RunMigrations(conn, migrationsPath); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	return NewStore(conn), conn.Close, nil
}
