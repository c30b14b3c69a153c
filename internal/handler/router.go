package handler

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nps-explorer/internal/middleware"
	"nps-explorer/internal/park"
)

// RouterConfig holds what the router needs to serve every endpoint
type RouterConfig struct {
	Parks       *park.ParkService
	Stats       *park.StatsService
	Health      Pinger
	CORSOrigins []string
}

// NewRouter builds the read-only API. Only GET routes are registered;
// other methods on a known path get 405.
func NewRouter(cfg RouterConfig) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), middleware.Metrics())

	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{"GET", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Accept", middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", "Content-Type", middleware.RequestIDHeader},
			MaxAge:        86400, // 24 hours
		}))
	}

	parkHandler := NewParkHandler(cfg.Parks)
	statsHandler := NewStatsHandler(cfg.Stats)
	systemHandler := NewSystemHandler(cfg.Health)

	router.GET("/", systemHandler.Root)
	router.GET("/health", systemHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/parks", parkHandler.ListParks)
	router.GET("/parks/:park_code", parkHandler.GetPark)
	router.GET("/visitor-centers", parkHandler.ListVisitorCenters)
	router.GET("/events", parkHandler.ListEvents)

	stats := router.Group("/stats")
	{
		stats.GET("/events-per-park", statsHandler.EventsPerPark)
		stats.GET("/visitor-centers-per-park", statsHandler.VisitorCentersPerPark)
		stats.GET("/above-average-event-parks", statsHandler.AboveAverageEventParks)
		stats.GET("/top-free-event-parks", statsHandler.TopFreeEventParks)
		stats.GET("/underserved-parks", statsHandler.UnderservedParks)
		stats.GET("/qualifying-parks", statsHandler.QualifyingParks)
	}

	return router
}
