package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

// preferenceRow mirrors the preferences table; the city columns stay NULL
// until a city is saved.
type preferenceRow struct {
	DeviceID          string          `db:"device_id"`
	CityName          sql.NullString  `db:"city_name"`
	Latitude          sql.NullFloat64 `db:"latitude"`
	Longitude         sql.NullFloat64 `db:"longitude"`
	PermissionAsked   bool            `db:"permission_asked"`
	PermissionGranted bool            `db:"permission_granted"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

func (r preferenceRow) toModel() *model.Preference {
	p := &model.Preference{
		DeviceID:          r.DeviceID,
		PermissionAsked:   r.PermissionAsked,
		PermissionGranted: r.PermissionGranted,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.CityName.Valid && r.Latitude.Valid && r.Longitude.Valid {
		p.City = &model.City{
			Name: r.CityName.String,
			Coordinate: model.Coordinate{
				Latitude:  r.Latitude.Float64,
				Longitude: r.Longitude.Float64,
			},
		}
	}
	return p
}

// fetches the saved preference of a device. returns model.ErrNotFound if none.
func (s *pgStore) GetPreference(ctx context.Context, deviceID string) (*model.Preference, error) {
	var row preferenceRow
	const q = `
	SELECT device_id, city_name, latitude, longitude, permission_asked, permission_granted, updated_at
	  FROM preferences
	 WHERE device_id = $1;`
	if err := s.db.GetContext(ctx, &row, q, deviceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		log.Error().Err(err).Str("device_id", deviceID).Msg("GetPreference failed")
		return nil, err
	}
	return row.toModel(), nil
}

// upserts the saved city, keeping the permission flags untouched.
func (s *pgStore) SaveCity(ctx context.Context, deviceID string, city model.City) error {
	const q = `
	INSERT INTO preferences (device_id, city_name, latitude, longitude, updated_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (device_id) DO UPDATE
	   SET city_name  = EXCLUDED.city_name,
	       latitude   = EXCLUDED.latitude,
	       longitude  = EXCLUDED.longitude,
	       updated_at = now();`
	_, err := s.db.ExecContext(ctx, q, deviceID, city.Name, city.Latitude, city.Longitude)
	if err != nil {
		log.Error().Err(err).Str("device_id", deviceID).Str("city", city.Name).Msg("SaveCity failed")
	}
	return err
}

// records that the location permission was asked, and the answer.
func (s *pgStore) SavePermission(ctx context.Context, deviceID string, granted bool) error {
	const q = `
	INSERT INTO preferences (device_id, permission_asked, permission_granted, updated_at)
	VALUES ($1, TRUE, $2, now())
	ON CONFLICT (device_id) DO UPDATE
	   SET permission_asked   = TRUE,
	       permission_granted = EXCLUDED.permission_granted,
	       updated_at         = now();`
	_, err := s.db.ExecContext(ctx, q, deviceID, granted)
	if err != nil {
		log.Error().Err(err).Str("device_id", deviceID).Msg("SavePermission failed")
	}
	return err
}
