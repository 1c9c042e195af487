package api

import (
	"errors"
	"net/http"

	"drivebook/internal/domain/lesson"
	reqdto "drivebook/internal/handler/dto/request"
	resdto "drivebook/internal/handler/dto/response"
	"drivebook/internal/handler/httperr"
	"drivebook/internal/handler/middleware"
	"drivebook/internal/usecase/commands"
	"drivebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookings     commands.BookingCommands
	reservations queries.ReservationQueries
}

func NewBookingHandler(bookings commands.BookingCommands, reservations queries.ReservationQueries) *BookingHandler {
	return &BookingHandler{
		bookings:     bookings,
		reservations: reservations,
	}
}

// @Summary Book a lesson
// @Description Reserve a session window with an instructor and deduct credit
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /reservations [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	studentID, ok := middleware.GetStudentID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	instructorID, err := uuid.Parse(req.InstructorID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid instructor ID format", nil)
		return
	}

	cmd := commands.BookCommand{
		StudentID:    studentID,
		InstructorID: instructorID,
		Start:        req.StartTime,
		End:          req.EndTime,
		PlanKey:      req.PlanKey,
		Source:       lesson.SourceAPI,
	}

	result, err := h.bookings.Book(c.Request.Context(), cmd)
	if err != nil {
		h.abortBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingResult(result))
}

func (h *BookingHandler) abortBookingError(c *gin.Context, err error) {
	var conflictErr *commands.ConflictError
	var cooldownErr *commands.CooldownError

	switch {
	case errors.As(err, &conflictErr):
		httperr.AbortWithError(c, http.StatusConflict, err, "Requested window is not available", gin.H{
			"source": string(conflictErr.Source),
		})
	case errors.As(err, &cooldownErr):
		httperr.AbortWithError(c, http.StatusConflict, err, "Plan is in cooldown", gin.H{
			"retry_at": cooldownErr.RetryAt,
		})
	case errors.Is(err, commands.ErrInsufficientCredit):
		httperr.AbortWithError(c, http.StatusPaymentRequired, err, "Insufficient credit", nil)
	case errors.Is(err, commands.ErrInstructorNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Instructor not found", nil)
	case errors.Is(err, commands.ErrCreditAccountNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Credit account not found", nil)
	case errors.Is(err, commands.ErrValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Booking validation failed", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

// @Summary Cancel reservation
// @Description Cancel an owned reservation; credit is not refunded
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{id}/cancel [post]
func (h *BookingHandler) CancelReservation(c *gin.Context) {
	studentID, ok := middleware.GetStudentID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	if err := h.bookings.Cancel(c.Request.Context(), reservationID, studentID); err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
		case errors.Is(err, lesson.ErrNotOwnedByStudent):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Reservation belongs to another student", nil)
		case errors.Is(err, lesson.ErrAlreadyCancelled), errors.Is(err, lesson.ErrAlreadyCompleted):
			httperr.AbortWithError(c, http.StatusConflict, err, "Reservation can no longer be cancelled", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get reservation
// @Description Get an owned reservation by ID
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{id} [get]
func (h *BookingHandler) GetReservation(c *gin.Context) {
	studentID, ok := middleware.GetStudentID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	view, err := h.reservations.GetByID(c.Request.Context(), reservationID, studentID)
	if err != nil {
		switch {
		// Another student's reservation is indistinguishable from a missing one
		case errors.Is(err, queries.ErrReservationNotFound), errors.Is(err, queries.ErrAccessDenied):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary List reservations
// @Description List the current student's reservations, newest first
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationResponse
// @Failure 401 {object} httperr.Response
// @Router /reservations [get]
func (h *BookingHandler) ListReservations(c *gin.Context) {
	studentID, ok := middleware.GetStudentID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	views, err := h.reservations.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	res := make([]*resdto.ReservationResponse, len(views))
	for i, v := range views {
		res[i] = resdto.FromReservationView(v)
	}
	c.JSON(http.StatusOK, res)
}
