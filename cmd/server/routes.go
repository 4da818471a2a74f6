package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/shalat/internal/config"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/api"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/api/shalat/endpoints"
	"github.com/Nixie-Tech-LLC/shalat/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/shalat/internal/session"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, b *Backends) {
	r.Use(middleware.Logger())

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			middleware.DeviceIDHeader,
		},
		ExposeHeaders: []string{
			"Content-Length",
			middleware.DeviceIDHeader,
		},
		AllowCredentials: false,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api",
		Middleware: []gin.HandlerFunc{middleware.DeviceID()},
	},
		endpoints.PrayerTimesModule(b.Fetcher, b.Provider, cfg.Timezone),
		endpoints.CityModule(b.Provider.Catalog()),
		endpoints.PreferenceModule(b.Provider),
		endpoints.StreamModule(b.Fetcher, b.Provider, session.Options{
			Interval: cfg.TickInterval,
			Fallback: cfg.Timezone,
		}),
	)
}
