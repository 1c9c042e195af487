package request

import (
	"time"
)

type CreateBookingRequest struct {
	InstructorID string    `json:"instructor_id" binding:"required,uuid"`
	StartTime    time.Time `json:"start_time" binding:"required"`
	EndTime      time.Time `json:"end_time" binding:"required"`
	PlanKey      string    `json:"plan_key" binding:"required"`
}
