package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nps-explorer/internal/park"
)

// StatsHandler handles the aggregate statistics requests
type StatsHandler struct {
	statsService *park.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *park.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

type eventsPerParkQuery struct {
	Year *int `form:"year" binding:"omitempty,min=1000,max=9999"`
	TopN *int `form:"top_n" binding:"omitempty,min=1"`
}

type visitorCentersPerParkQuery struct {
	MinCenters *int `form:"min_centers" binding:"omitempty,min=0"`
}

type yearQuery struct {
	Year *int `form:"year" binding:"omitempty,min=1000,max=9999"`
}

type topFreeQuery struct {
	Limit *int `form:"limit" binding:"omitempty,min=1"`
}

type underservedQuery struct {
	MaxEvents *int `form:"max_events" binding:"omitempty,min=0"`
	Year      *int `form:"year" binding:"omitempty,min=1000,max=9999"`
}

type qualifyingQuery struct {
	MinCenters *int `form:"min_centers" binding:"omitempty,min=0"`
	MinEvents  *int `form:"min_events" binding:"omitempty,min=0"`
	Year       *int `form:"year" binding:"omitempty,min=1000,max=9999"`
}

func valueOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// EventsPerPark handles GET /stats/events-per-park
func (h *StatsHandler) EventsPerPark(c *gin.Context) {
	var q eventsPerParkQuery
	if err := bindQuery(c, &q); err != nil {
		respondBindingError(c, err)
		return
	}

	rows, err := h.statsService.EventsPerPark(c.Request.Context(), q.Year, q.TopN)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// VisitorCentersPerPark handles GET /stats/visitor-centers-per-park
func (h *StatsHandler) VisitorCentersPerPark(c *gin.Context) {
	var q visitorCentersPerParkQuery
	if err := bindQuery(c, &q); err != nil {
		respondBindingError(c, err)
		return
	}

	rows, err := h.statsService.VisitorCentersPerPark(c.Request.Context(), q.MinCenters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// AboveAverageEventParks handles GET /stats/above-average-event-parks
func (h *StatsHandler) AboveAverageEventParks(c *gin.Context) {
	var q yearQuery
	if err := bindQuery(c, &q); err != nil {
		respondBindingError(c, err)
		return
	}

	rows, err := h.statsService.AboveAverageEventParks(c.Request.Context(), q.Year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// TopFreeEventParks handles GET /stats/top-free-event-parks
func (h *StatsHandler) TopFreeEventParks(c *gin.Context) {
	var q topFreeQuery
	if err := bindQuery(c, &q); err != nil {
		respondBindingError(c, err)
		return
	}

	rows, err := h.statsService.TopFreeEventParks(c.Request.Context(), valueOr(q.Limit, park.DefaultTopFreeLimit))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// UnderservedParks handles GET /stats/underserved-parks
func (h *StatsHandler) UnderservedParks(c *gin.Context) {
	var q underservedQuery
	if err := bindQuery(c, &q); err != nil {
		respondBindingError(c, err)
		return
	}

	rows, err := h.statsService.UnderservedParks(c.Request.Context(), valueOr(q.MaxEvents, park.DefaultUnderservedMax), q.Year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// QualifyingParks handles GET /stats/qualifying-parks
func (h *StatsHandler) QualifyingParks(c *gin.Context) {
	var q qualifyingQuery
	if err := bindQuery(c, &q); err != nil {
		respondBindingError(c, err)
		return
	}

	rows, err := h.statsService.QualifyingParks(c.Request.Context(),
		valueOr(q.MinCenters, park.DefaultQualifyingCenters),
		valueOr(q.MinEvents, park.DefaultQualifyingEvents),
		q.Year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
