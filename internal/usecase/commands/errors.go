package commands

import (
	"fmt"
	"time"

	"drivebook/internal/domain/schedule"
	"drivebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInstructorNotFound    = errs.New("instructor not found")
	ErrCreditAccountNotFound = errs.New("credit account not found")
	ErrReservationNotFound   = errs.New("reservation not found")
	ErrValidation            = errs.New("booking validation failed")
	ErrInsufficientCredit    = errs.New("insufficient credit")
	ErrBookingConflict       = errs.New("booking conflict")
	ErrCooldownActive        = errs.New("cooldown active")
	ErrStoreOperationFailed  = errs.New("store operation failed")
)

// ConflictError carries enough structure for the caller to render an
// actionable message: which instructor, which window, which source vetoed.
type ConflictError struct {
	InstructorID uuid.UUID
	Window       schedule.TimeWindow
	Source       ConflictSource
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflict (%s) for instructor %s at %s", e.Source, e.InstructorID, e.Window)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrBookingConflict
}

// CooldownError reports the earliest time the student may retry the plan.
type CooldownError struct {
	StudentID uuid.UUID
	PlanKey   string
	RetryAt   time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("plan %s in cooldown for student %s until %s", e.PlanKey, e.StudentID, e.RetryAt.Format(time.RFC3339))
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}
