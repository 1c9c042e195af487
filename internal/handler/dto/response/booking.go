package response

import (
	"time"

	"drivebook/internal/usecase/commands"
	"drivebook/internal/usecase/queries"
)

type BookingResponse struct {
	ReservationID string    `json:"reservation_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	PlanKey       string    `json:"plan_key"`
	Warnings      []string  `json:"warnings,omitempty"`
}

func FromBookingResult(result *commands.BookingResult) *BookingResponse {
	return &BookingResponse{
		ReservationID: result.ReservationID.String(),
		StartTime:     result.Window.Start(),
		EndTime:       result.Window.End(),
		PlanKey:       result.PlanKey,
		Warnings:      result.Warnings,
	}
}

type ReservationResponse struct {
	ID             string    `json:"id"`
	InstructorID   string    `json:"instructor_id"`
	InstructorName string    `json:"instructor_name"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
	PlanKey        string    `json:"plan_key"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:             view.ID.String(),
		InstructorID:   view.InstructorID.String(),
		InstructorName: view.InstructorName,
		StartTime:      view.Start,
		EndTime:        view.End,
		Status:         view.Status,
		PlanKey:        view.PlanKey,
		CreatedAt:      view.CreatedAt,
	}
}
