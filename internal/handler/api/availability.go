package api

import (
	"errors"
	"net/http"
	"time"

	resdto "drivebook/internal/handler/dto/response"
	"drivebook/internal/handler/httperr"
	"drivebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availability queries.AvailabilityQueries
}

func NewAvailabilityHandler(availability queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// @Summary List bookable slots
// @Description List the instructor's open session slots for a given date
// @Tags availability
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Param date query string true "Date (YYYY-MM-DD, instructor's timezone)"
// @Success 200 {object} resdto.DayAvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /instructors/{id}/slots [get]
func (h *AvailabilityHandler) ListSlots(c *gin.Context) {
	instructorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid instructor ID format", nil)
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	view, err := h.availability.ListSlots(c.Request.Context(), instructorID, date)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInstructorNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Instructor not found", nil)
		case errors.Is(err, queries.ErrInvalidDate):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date format, expected YYYY-MM-DD", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromDayAvailability(view))
}
