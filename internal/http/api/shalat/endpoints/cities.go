package endpoints

import (
	"math"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/shalat/internal/http/api"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/api/shalat/packets"
	"github.com/Nixie-Tech-LLC/shalat/internal/location"
)

type CityController struct {
	catalog *location.Catalog
}

func NewCityController(catalog *location.Catalog) *CityController {
	return &CityController{catalog: catalog}
}

func CityModule(catalog *location.Catalog) api.Module {
	ctl := NewCityController(catalog)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/cities", ctl.searchCities)
		c.GET("/cities/nearest", ctl.nearestCity)
	})
}

func (cc *CityController) searchCities(ctx *gin.Context) (any, *api.APIError) {
	var query packets.CitySearchQuery
	_ = ctx.ShouldBindQuery(&query)

	return packets.NewCityList(cc.catalog.Search(query.Query)), nil
}

func (cc *CityController) nearestCity(ctx *gin.Context) (any, *api.APIError) {
	var query packets.CoordinateQuery
	_ = ctx.ShouldBindQuery(&query)

	coord, apiErr := parseCoordinate(query)
	if apiErr != nil {
		return nil, apiErr
	}

	city, km := cc.catalog.Nearest(coord)
	return packets.NearestCityResponse{
		City:       packets.NewCityResponse(city),
		DistanceKm: math.Round(km*10) / 10,
	}, nil
}
