package shared

import (
	"context"
	"time"

	"drivebook/internal/domain/lesson"
	"drivebook/internal/domain/schedule"

	"github.com/google/uuid"
)

// UnitOfWork scopes repository access to a database transaction. The booking
// flow deliberately uses one short transaction per write step (reserve, then
// deduct) — see the fail-forward policy in the booking command.
type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: command-side reads outside any explicit transaction
	Reads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	Credits() CreditRepository
}

type ReservationRepository interface {
	// Insert is the commit point for double-booking prevention. The store
	// enforces instructor/window overlap exclusion; an overlapping insert
	// fails with a conflict-kind error even if a prior check missed it.
	Insert(ctx context.Context, res *lesson.Reservation) (uuid.UUID, error)
	ListOverlapping(ctx context.Context, instructorID uuid.UUID, window schedule.TimeWindow) ([]ReservationSnapshot, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status lesson.Status) error
}

type CreditRepository interface {
	// DecrementIfSufficient applies a conditional decrement against the stored
	// value and reports false without mutating when the balance is short.
	DecrementIfSufficient(ctx context.Context, studentID uuid.UUID, sessions int32, hours float64) (bool, error)
	SetCooldown(ctx context.Context, studentID uuid.UUID, until time.Time) error
}

type CommandReads interface {
	InstructorByID(ctx context.Context, id uuid.UUID) (*InstructorSnapshot, error)
	CreditByStudent(ctx context.Context, studentID uuid.UUID) (*CreditSnapshot, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*ReservationSnapshot, error)
	ListOverlapping(ctx context.Context, instructorID uuid.UUID, window schedule.TimeWindow) ([]ReservationSnapshot, error)
}

// Write-side snapshots prevent dependency on read-side query types.
type InstructorSnapshot struct {
	ID          uuid.UUID
	SchoolID    uuid.UUID
	DisplayName string
	CalendarRef string
	RuleSet     schedule.RuleSet
}

type CreditSnapshot struct {
	StudentID         uuid.UUID
	SessionsRemaining int32
	HoursRemaining    float64
	CooldownUntil     *time.Time
}

type ReservationSnapshot struct {
	ID           uuid.UUID
	InstructorID uuid.UUID
	StudentID    uuid.UUID
	Window       schedule.TimeWindow
	Status       lesson.Status
	PlanKey      string
}
