// exposes a Store interface that is passed to the location provider
package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

type Store interface {
	GetPreference(ctx context.Context, deviceID string) (*model.Preference, error)
	SaveCity(ctx context.Context, deviceID string, city model.City) error
	SavePermission(ctx context.Context, deviceID string, granted bool) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
