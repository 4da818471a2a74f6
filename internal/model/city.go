package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MyLocationName is the name given to a city synthesized from device coordinates.
const MyLocationName = "Lokasi Saya"

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidCity       = errors.New("invalid city")
)

type Coordinate struct {
	Latitude  float64 `db:"latitude"  json:"latitude"`
	Longitude float64 `db:"longitude" json:"longitude"`
}

func (c Coordinate) Validate() error {
	if !finite(c.Latitude) || !finite(c.Longitude) {
		return fmt.Errorf("%w: latitude and longitude must be finite", ErrInvalidCoordinate)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %f out of range", ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %f out of range", ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// City is a named location, either from the catalog or derived from GPS.
type City struct {
	Name string `db:"city_name" json:"name"`
	Coordinate
}

// MyLocation wraps device coordinates in the "Lokasi Saya" pseudo-city.
func MyLocation(c Coordinate) City {
	return City{Name: MyLocationName, Coordinate: c}
}

func (c City) IsMyLocation() bool {
	return c.Name == MyLocationName
}

func (c City) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCity)
	}
	return c.Coordinate.Validate()
}
