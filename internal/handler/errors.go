package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nps-explorer/internal/logging"
	"nps-explorer/internal/park"
)

// respondBindingError answers a parameter binding failure with 422
func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "Invalid request parameters",
		"details": bindingDetails(err),
	})
}

// respondError maps query layer errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var ve *park.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Invalid request parameters",
			"details": ve.Details,
		})
	case errors.Is(err, park.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Park not found"})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
