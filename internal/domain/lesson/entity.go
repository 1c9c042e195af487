package lesson

import (
	"time"

	"drivebook/internal/domain/schedule"
	"drivebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrAlreadyCancelled  = errs.New("reservation is already cancelled")
	ErrAlreadyCompleted  = errs.New("reservation is already completed")
	ErrNotOwnedByStudent = errs.New("reservation belongs to another student")
)

// Reservation is the internal booking record. Status transitions are the only
// mutation path; rows are never deleted by the engine.
type Reservation struct {
	id           uuid.UUID
	instructorID uuid.UUID
	studentID    uuid.UUID
	window       schedule.TimeWindow
	status       Status
	source       Source
	planKey      string
	createdAt    time.Time
	updatedAt    time.Time
}

func NewReservation(instructorID, studentID uuid.UUID, window schedule.TimeWindow, plan Plan, source Source) (*Reservation, error) {
	if err := plan.ValidateDuration(window.Duration()); err != nil {
		return nil, err
	}
	return &Reservation{
		id:           uuid.New(),
		instructorID: instructorID,
		studentID:    studentID,
		window:       window,
		status:       StatusScheduled,
		source:       source,
		planKey:      plan.Key,
	}, nil
}

func ReconstructReservation(
	id, instructorID, studentID uuid.UUID,
	window schedule.TimeWindow,
	status Status,
	source Source,
	planKey string,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:           id,
		instructorID: instructorID,
		studentID:    studentID,
		window:       window,
		status:       status,
		source:       source,
		planKey:      planKey,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (r *Reservation) Cancel(by uuid.UUID) error {
	if r.studentID != by {
		return ErrNotOwnedByStudent
	}
	switch r.status {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusCompleted:
		return ErrAlreadyCompleted
	}
	r.status = StatusCancelled
	return nil
}

func (r *Reservation) IsActive() bool {
	return r.status == StatusScheduled
}

func (r *Reservation) ID() uuid.UUID               { return r.id }
func (r *Reservation) InstructorID() uuid.UUID     { return r.instructorID }
func (r *Reservation) StudentID() uuid.UUID        { return r.studentID }
func (r *Reservation) Window() schedule.TimeWindow { return r.window }
func (r *Reservation) Status() Status              { return r.status }
func (r *Reservation) Source() Source              { return r.source }
func (r *Reservation) PlanKey() string             { return r.planKey }
func (r *Reservation) CreatedAt() time.Time        { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time        { return r.updatedAt }
