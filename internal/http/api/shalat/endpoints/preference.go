package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/shalat/internal/http/api"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/api/shalat/packets"
	"github.com/Nixie-Tech-LLC/shalat/internal/location"
	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

type PreferenceController struct {
	provider *location.Provider
}

func NewPreferenceController(provider *location.Provider) *PreferenceController {
	return &PreferenceController{provider: provider}
}

func PreferenceModule(provider *location.Provider) api.Module {
	ctl := NewPreferenceController(provider)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/preference", ctl.getPreference)
		c.PUT("/preference", ctl.setPreference)
		c.POST("/preference/permission", ctl.setPermission)

		c.POST("/location/device", ctl.useDeviceLocation)
	})
}

func (p *PreferenceController) preferenceResponse(ctx *gin.Context) (any, *api.APIError) {
	pref, err := p.provider.Preference(ctx.Request.Context(), deviceID(ctx))
	if err != nil {
		log.Error().Err(err).Str("device_id", deviceID(ctx)).Msg("failed to load preference")
		return nil, api.InternalError("failed to load preference")
	}

	current := p.provider.Catalog().Default()
	if pref.City != nil {
		current = *pref.City
	}
	return packets.NewPreferenceResponse(pref, current), nil
}

func (p *PreferenceController) getPreference(ctx *gin.Context) (any, *api.APIError) {
	return p.preferenceResponse(ctx)
}

// setPreference saves a catalog city, or custom coordinates named by
// "city" (default "Lokasi Saya").
func (p *PreferenceController) setPreference(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SetCityRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	var city model.City
	switch {
	case request.Latitude != nil && request.Longitude != nil:
		city = model.MyLocation(model.Coordinate{Latitude: *request.Latitude, Longitude: *request.Longitude})
		if request.City != "" {
			city.Name = request.City
		}
	case request.Latitude != nil || request.Longitude != nil:
		return nil, api.BadRequest(msgCoordinatesRequired)
	case request.City != "":
		found, ok := p.provider.Catalog().Find(request.City)
		if !ok {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: msgCityNotFound}
		}
		city = found
	default:
		return nil, api.BadRequest("city or coordinates are required")
	}

	if err := p.provider.SetCity(ctx.Request.Context(), deviceID(ctx), city); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidCoordinate):
			return nil, api.BadRequest(msgInvalidCoordinates)
		case errors.Is(err, model.ErrInvalidCity):
			return nil, api.BadRequest(msgCityNameRequired)
		}
		log.Error().Err(err).Str("device_id", deviceID(ctx)).Msg("failed to save city")
		return nil, api.InternalError("failed to save city")
	}

	return p.preferenceResponse(ctx)
}

func (p *PreferenceController) setPermission(ctx *gin.Context) (any, *api.APIError) {
	var request packets.PermissionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	if err := p.provider.MarkPermissionAsked(ctx.Request.Context(), deviceID(ctx), *request.Granted); err != nil {
		log.Error().Err(err).Str("device_id", deviceID(ctx)).Msg("failed to save permission")
		return nil, api.InternalError("failed to save permission")
	}

	return p.preferenceResponse(ctx)
}

// useDeviceLocation locates the caller and saves the result as "Lokasi Saya".
func (p *PreferenceController) useDeviceLocation(ctx *gin.Context) (any, *api.APIError) {
	city, err := p.provider.UseDeviceLocation(ctx.Request.Context(), deviceID(ctx), publicIP(ctx.ClientIP()))
	switch {
	case err == nil:
		return packets.NewCityResponse(city), nil
	case errors.Is(err, location.ErrPermissionDenied):
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "Location permission denied"}
	case errors.Is(err, location.ErrTimeout):
		return nil, &api.APIError{Code: http.StatusGatewayTimeout, Message: "Location request timed out"}
	case errors.Is(err, location.ErrUnavailable):
		log.Warn().Err(err).Str("device_id", deviceID(ctx)).Msg("device location unavailable")
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "Location unavailable"}
	default:
		log.Error().Err(err).Str("device_id", deviceID(ctx)).Msg("failed to use device location")
		return nil, api.InternalError("failed to save location")
	}
}
