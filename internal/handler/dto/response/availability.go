package response

import (
	"time"

	"drivebook/internal/usecase/queries"
)

type SlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type DayAvailabilityResponse struct {
	InstructorID           string         `json:"instructor_id"`
	Date                   string         `json:"date"`
	SessionDurationMinutes int            `json:"session_duration_minutes"`
	Slots                  []SlotResponse `json:"slots"`
}

func FromDayAvailability(view *queries.DayAvailabilityView) *DayAvailabilityResponse {
	slots := make([]SlotResponse, len(view.Slots))
	for i, s := range view.Slots {
		slots[i] = SlotResponse{StartTime: s.Start, EndTime: s.End}
	}
	return &DayAvailabilityResponse{
		InstructorID:           view.InstructorID.String(),
		Date:                   view.Date,
		SessionDurationMinutes: int(view.SessionDuration.Minutes()),
		Slots:                  slots,
	}
}
