package endpoints

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/shalat/internal/aladhan"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/api"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/api/shalat/packets"
	"github.com/Nixie-Tech-LLC/shalat/internal/location"
	"github.com/Nixie-Tech-LLC/shalat/internal/prayer"
)

type PrayerTimesController struct {
	fetcher  aladhan.Fetcher
	resolver cityResolver
	loc      *time.Location
	now      func() time.Time
}

// NewPrayerTimesController builds the controller; loc is the timezone used
// to pick "today" before the upstream reports one.
func NewPrayerTimesController(fetcher aladhan.Fetcher, provider *location.Provider, loc *time.Location) *PrayerTimesController {
	if loc == nil {
		loc = time.Local
	}
	return &PrayerTimesController{
		fetcher:  fetcher,
		resolver: cityResolver{provider: provider},
		loc:      loc,
		now:      time.Now,
	}
}

func PrayerTimesModule(fetcher aladhan.Fetcher, provider *location.Provider, loc *time.Location) api.Module {
	ctl := NewPrayerTimesController(fetcher, provider, loc)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/prayer-times", ctl.proxyPrayerTimes)
		c.GET("/cursor", ctl.getCursor)
	})
}

// proxyPrayerTimes returns the upstream "data" object unchanged.
func (p *PrayerTimesController) proxyPrayerTimes(ctx *gin.Context) (any, *api.APIError) {
	var query packets.CoordinateQuery
	_ = ctx.ShouldBindQuery(&query)

	coord, apiErr := parseCoordinate(query)
	if apiErr != nil {
		return nil, apiErr
	}

	data, err := p.fetcher.FetchSchedule(ctx.Request.Context(), coord, p.now().In(p.loc))
	if err != nil {
		log.Error().Err(err).
			Float64("latitude", coord.Latitude).
			Float64("longitude", coord.Longitude).
			Msg("Error fetching prayer times")
		return nil, api.InternalError(msgFetchFailed)
	}

	return data.Raw, nil
}

// getCursor fetches today's schedule for the resolved city and computes
// the current and next prayer in the city's timezone.
func (p *PrayerTimesController) getCursor(ctx *gin.Context) (any, *api.APIError) {
	var query packets.CursorQuery
	_ = ctx.ShouldBindQuery(&query)

	city, apiErr := p.resolver.resolve(ctx.Request.Context(), deviceID(ctx), query.City, query.CoordinateQuery)
	if apiErr != nil {
		return nil, apiErr
	}

	now := p.now()
	data, err := p.fetcher.FetchSchedule(ctx.Request.Context(), city.Coordinate, now.In(p.loc))
	if err != nil {
		log.Error().Err(err).Str("city", city.Name).Msg("Error fetching prayer times")
		return nil, api.InternalError(msgFetchFailed)
	}

	schedule, err := data.Schedule()
	if err != nil {
		log.Error().Err(err).Str("city", city.Name).Msg("Malformed prayer schedule")
		return nil, api.InternalError(msgFetchFailed)
	}

	cursor := prayer.ComputeIn(schedule, now, prayer.Location(schedule, p.loc))
	return packets.NewPrayerStatusResponse(city, schedule, cursor, now), nil
}
