package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nps-explorer/internal/park"
	"nps-explorer/pkg/model"
)

// ParkHandler handles park, visitor center and event requests
type ParkHandler struct {
	parkService *park.ParkService
}

// NewParkHandler creates a new park handler
func NewParkHandler(parkService *park.ParkService) *ParkHandler {
	return &ParkHandler{
		parkService: parkService,
	}
}

type listParksQuery struct {
	StateCode *string `form:"state_code" binding:"omitempty,region"`
	MaxFee    *int    `form:"max_fee" binding:"omitempty,min=0"`
}

type parkURI struct {
	ParkCode string `uri:"park_code" binding:"required,alphanum,max=10"`
}

type listVisitorCentersQuery struct {
	ParkCode *string `form:"park_code" binding:"omitempty,alphanum,max=10"`
}

type listEventsQuery struct {
	ParkCode *string `form:"park_code" binding:"omitempty,alphanum,max=10"`
	Start    *string `form:"start" binding:"omitempty,datetime=2006-01-02"`
	End      *string `form:"end" binding:"omitempty,datetime=2006-01-02"`
	FreeOnly bool    `form:"free_only"`
}

// ListParks handles GET /parks
func (h *ParkHandler) ListParks(c *gin.Context) {
	var q listParksQuery
	if err := bindQuery(c, &q); err != nil {
		respondBindingError(c, err)
		return
	}

	parks, err := h.parkService.ListParks(c.Request.Context(), park.ParkFilter{
		StateCode: q.StateCode,
		MaxFee:    q.MaxFee,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, parks)
}

// GetPark handles GET /parks/:park_code
func (h *ParkHandler) GetPark(c *gin.Context) {
	var uri parkURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondBindingError(c, err)
		return
	}

	p, err := h.parkService.GetPark(c.Request.Context(), uri.ParkCode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// ListVisitorCenters handles GET /visitor-centers
func (h *ParkHandler) ListVisitorCenters(c *gin.Context) {
	var q listVisitorCentersQuery
	if err := bindQuery(c, &q); err != nil {
		respondBindingError(c, err)
		return
	}

	centers, err := h.parkService.ListVisitorCenters(c.Request.Context(), park.VisitorCenterFilter{
		ParkCode: q.ParkCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, centers)
}

// ListEvents handles GET /events
func (h *ParkHandler) ListEvents(c *gin.Context) {
	var q listEventsQuery
	if err := bindQuery(c, &q); err != nil {
		respondBindingError(c, err)
		return
	}

	filter := park.EventFilter{ParkCode: q.ParkCode, FreeOnly: q.FreeOnly}
	var err error
	if filter.Start, err = parseOptionalDate(q.Start); err != nil {
		respondError(c, &park.ValidationError{Details: []string{err.Error()}})
		return
	}
	if filter.End, err = parseOptionalDate(q.End); err != nil {
		respondError(c, &park.ValidationError{Details: []string{err.Error()}})
		return
	}

	events, err := h.parkService.ListEvents(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func parseOptionalDate(s *string) (*model.Date, error) {
	if s == nil {
		return nil, nil
	}
	d, err := model.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
