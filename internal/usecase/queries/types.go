package queries

import (
	"context"
	"time"

	"drivebook/internal/domain/schedule"

	"github.com/google/uuid"
)

// Read models returned to the handler layer. They are flat views, decoupled
// from the write-side entities.

type ReservationView struct {
	ID             uuid.UUID
	InstructorID   uuid.UUID
	InstructorName string
	StudentID      uuid.UUID
	Start          time.Time
	End            time.Time
	Status         string
	PlanKey        string
	CreatedAt      time.Time
}

type InstructorView struct {
	ID          uuid.UUID
	SchoolID    uuid.UUID
	DisplayName string
	RuleSet     schedule.RuleSet
}

type SlotView struct {
	Start time.Time
	End   time.Time
}

type DayAvailabilityView struct {
	InstructorID    uuid.UUID
	Date            string
	SessionDuration time.Duration
	Slots           []SlotView
}

// Read stores implemented under internal/infra/readstore.

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*ReservationView, error)
	// ListWindowsOverlapping returns the non-cancelled reservation windows
	// for the instructor that overlap the given window.
	ListWindowsOverlapping(ctx context.Context, instructorID uuid.UUID, window schedule.TimeWindow) ([]schedule.TimeWindow, error)
}

type InstructorReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InstructorView, error)
}
