package commands

import (
	"context"
	"time"

	"drivebook/internal/domain/schedule"

	"github.com/google/uuid"
)

// Collaborators consumed by the booking flow. Implementations live under
// internal/infra; everything here is best-effort or veto-only and must never
// become a second source of truth for reservations.

type CalendarEvent struct {
	Summary string
	Window  schedule.TimeWindow
}

type CalendarProvider interface {
	// BusyIntervals returns the account's busy times intersecting window.
	// An unreachable or unauthorized provider yields ErrCalendarUnavailable,
	// never an empty list — "no conflict" and "could not verify" are
	// different answers.
	BusyIntervals(ctx context.Context, accountRef string, window schedule.TimeWindow) ([]schedule.TimeWindow, error)
	CreateEvent(ctx context.Context, accountRef string, ev CalendarEvent) (string, error)
}

// SlotLocker records a secondary booked-slot marker for observability and
// double protection. Failures are logged, not surfaced.
type SlotLocker interface {
	Lock(ctx context.Context, instructorID uuid.UUID, window schedule.TimeWindow, reservationID uuid.UUID) error
}

type NotificationIntent struct {
	StudentID    uuid.UUID
	TemplateKind string
	SendAt       time.Time
}

// Notifier enqueues a follow-up message intent; delivery happens elsewhere.
type Notifier interface {
	EnqueueIntent(ctx context.Context, intent NotificationIntent) error
}
