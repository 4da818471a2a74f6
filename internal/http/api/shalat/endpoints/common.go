package endpoints

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/shalat/internal/http/api"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/api/shalat/packets"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/shalat/internal/location"
	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

const (
	msgCoordinatesRequired = "Latitude and longitude are required"
	msgInvalidCoordinates  = "Invalid latitude or longitude"
	msgFetchFailed         = "Failed to fetch prayer times"
	msgCityNotFound        = "City not found"
	msgCityNameRequired    = "City name is required"
)

// parseCoordinate requires both query values and checks their range.
func parseCoordinate(q packets.CoordinateQuery) (model.Coordinate, *api.APIError) {
	if q.Latitude == "" || q.Longitude == "" {
		return model.Coordinate{}, api.BadRequest(msgCoordinatesRequired)
	}

	lat, err := strconv.ParseFloat(q.Latitude, 64)
	if err != nil {
		return model.Coordinate{}, api.BadRequest(msgInvalidCoordinates)
	}
	lon, err := strconv.ParseFloat(q.Longitude, 64)
	if err != nil {
		return model.Coordinate{}, api.BadRequest(msgInvalidCoordinates)
	}

	coord := model.Coordinate{Latitude: lat, Longitude: lon}
	if err := coord.Validate(); err != nil {
		return model.Coordinate{}, api.BadRequest(msgInvalidCoordinates)
	}
	return coord, nil
}

func deviceID(ctx *gin.Context) string {
	id, _ := middleware.GetDeviceID(ctx)
	return id
}

// cityResolver picks the city a request is about: a catalog name, explicit
// coordinates, or else the device's saved preference.
type cityResolver struct {
	provider *location.Provider
}

func (r cityResolver) resolve(ctx context.Context, device, name string, q packets.CoordinateQuery) (model.City, *api.APIError) {
	if name != "" {
		city, ok := r.provider.Catalog().Find(name)
		if !ok {
			return model.City{}, &api.APIError{Code: http.StatusNotFound, Message: msgCityNotFound}
		}
		return city, nil
	}

	if q.Latitude != "" || q.Longitude != "" {
		coord, apiErr := parseCoordinate(q)
		if apiErr != nil {
			return model.City{}, apiErr
		}
		return model.MyLocation(coord), nil
	}

	return r.provider.CurrentCity(ctx, device), nil
}

// publicIP drops addresses a geolocation service cannot resolve, so the
// lookup falls back to the address the request reached it from.
func publicIP(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return ""
	}
	return ip
}
