package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"drivebook/internal/domain/credit"
	"drivebook/internal/domain/lesson"
	"drivebook/internal/domain/schedule"
	"drivebook/internal/infra"
	"drivebook/internal/pkg/clock"
	"drivebook/internal/pkg/errs"
	"drivebook/internal/pkg/metrics"
	"drivebook/internal/usecase/shared"

	"github.com/google/uuid"
)

// Soft warnings attached to a committed booking.
const (
	WarnCreditNotDeducted  = "booked, but credit deduction failed; flagged for reconciliation"
	WarnCooldownNotSet     = "booked, but cooldown timer could not be recorded"
	WarnCalendarSyncFailed = "booked, but external calendar sync failed"
)

type BookCommand struct {
	StudentID    uuid.UUID
	InstructorID uuid.UUID
	Start        time.Time
	End          time.Time
	PlanKey      string
	Source       lesson.Source
}

type BookingResult struct {
	ReservationID uuid.UUID
	Window        schedule.TimeWindow
	PlanKey       string
	Warnings      []string
}

type BookingCommands interface {
	Book(ctx context.Context, cmd BookCommand) (*BookingResult, error)
	Cancel(ctx context.Context, reservationID, studentID uuid.UUID) error
}

type bookingUseCase struct {
	uow      shared.UnitOfWork
	checker  *ConflictChecker
	calendar CalendarProvider
	locker   SlotLocker
	notifier Notifier
	policy   ConflictPolicy
	clock    clock.Clock
	metrics  *metrics.Metrics
	logger   *slog.Logger
	recon    *slog.Logger
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	checker *ConflictChecker,
	calendar CalendarProvider,
	locker SlotLocker,
	notifier Notifier,
	policy ConflictPolicy,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) BookingCommands {
	return &bookingUseCase{
		uow:      uow,
		checker:  checker,
		calendar: calendar,
		locker:   locker,
		notifier: notifier,
		policy:   policy,
		clock:    clk,
		metrics:  m,
		logger:   logger,
		recon:    logger.With("channel", "reconciliation"),
	}
}

// Book runs the reservation state machine:
// Requested → CreditValidated → ConflictChecked → Reserved → CreditDeducted →
// ExternallySynced → Committed. Everything before the reservation insert is
// free of side effects; everything after it degrades to warnings.
func (u *bookingUseCase) Book(ctx context.Context, cmd BookCommand) (*BookingResult, error) {
	reservation, instructor, plan, err := u.validate(ctx, cmd)
	if err != nil {
		return nil, err
	}
	window := reservation.Window()

	if err := u.checkConflicts(ctx, instructor, window); err != nil {
		u.metrics.BookingsTotal.WithLabelValues("conflict").Inc()
		return nil, err
	}

	reservationID, err := u.reserve(ctx, reservation, instructor)
	if err != nil {
		return nil, err
	}

	// Commit point passed: the slot is held. Nothing below may unwind it.
	result := &BookingResult{
		ReservationID: reservationID,
		Window:        window,
		PlanKey:       plan.Key,
	}
	u.settleCredit(ctx, cmd.StudentID, reservationID, plan, window, result)
	u.syncCalendar(ctx, instructor, window, result)
	u.lockSlot(ctx, instructor.ID, window, reservationID)
	u.enqueueConfirmation(ctx, cmd.StudentID)

	u.metrics.BookingsTotal.WithLabelValues("committed").Inc()
	return result, nil
}

func (u *bookingUseCase) validate(ctx context.Context, cmd BookCommand) (*lesson.Reservation, *shared.InstructorSnapshot, lesson.Plan, error) {
	fail := func(outcome string, err error) (*lesson.Reservation, *shared.InstructorSnapshot, lesson.Plan, error) {
		u.metrics.BookingsTotal.WithLabelValues(outcome).Inc()
		return nil, nil, lesson.Plan{}, err
	}

	plan, err := lesson.PlanByKey(cmd.PlanKey)
	if err != nil {
		return fail("validation", errs.Mark(err, ErrValidation))
	}

	window, err := schedule.NewTimeWindow(cmd.Start, cmd.End)
	if err != nil {
		return fail("validation", errs.Mark(err, ErrValidation))
	}

	reservation, err := lesson.NewReservation(cmd.InstructorID, cmd.StudentID, window, plan, cmd.Source)
	if err != nil {
		return fail("validation", errs.Mark(err, ErrValidation))
	}

	instructor, err := u.uow.Reads().InstructorByID(ctx, cmd.InstructorID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return fail("validation", ErrInstructorNotFound)
		}
		return fail("error", errs.Mark(err, ErrStoreOperationFailed))
	}

	creditSnap, err := u.uow.Reads().CreditByStudent(ctx, cmd.StudentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return fail("validation", ErrCreditAccountNotFound)
		}
		return fail("error", errs.Mark(err, ErrStoreOperationFailed))
	}

	ledger := credit.Ledger{
		SessionsRemaining: creditSnap.SessionsRemaining,
		HoursRemaining:    creditSnap.HoursRemaining,
		CooldownUntil:     creditSnap.CooldownUntil,
	}
	if plan.HasCooldown() && ledger.InCooldown(u.clock.Now()) {
		return fail("cooldown", &CooldownError{
			StudentID: cmd.StudentID,
			PlanKey:   plan.Key,
			RetryAt:   ledger.NextEligible(),
		})
	}
	// Reject predictable shortfalls before any write; the conditional
	// decrement after the insert stays the authoritative guard.
	if !ledger.HasCredit() || !ledger.CanAfford(plan.SessionCost(), plan.HourCost(window.Duration())) {
		return fail("insufficient_credit", ErrInsufficientCredit)
	}

	return reservation, instructor, plan, nil
}

func (u *bookingUseCase) checkConflicts(ctx context.Context, instructor *shared.InstructorSnapshot, window schedule.TimeWindow) error {
	result, err := u.checker.Check(ctx, instructor, window)
	if err != nil {
		return errs.Mark(err, ErrStoreOperationFailed)
	}
	if result.External {
		return &ConflictError{InstructorID: instructor.ID, Window: window, Source: ConflictExternal}
	}
	if result.Unverified && u.policy == PolicyFailClosed {
		return &ConflictError{InstructorID: instructor.ID, Window: window, Source: ConflictUnverifiable}
	}
	if result.Internal {
		return &ConflictError{InstructorID: instructor.ID, Window: window, Source: ConflictInternal}
	}
	return nil
}

// reserve re-validates the internal overlap inside the same transaction that
// performs the insert; the store's exclusion constraint backstops the race
// two concurrent transactions could otherwise win together.
func (u *bookingUseCase) reserve(ctx context.Context, reservation *lesson.Reservation, instructor *shared.InstructorSnapshot) (uuid.UUID, error) {
	window := reservation.Window()
	var reservationID uuid.UUID
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		overlapping, err := tx.Reservations().ListOverlapping(ctx, instructor.ID, window)
		if err != nil {
			return errs.Mark(err, ErrStoreOperationFailed)
		}
		if len(overlapping) > 0 {
			return &ConflictError{InstructorID: instructor.ID, Window: window, Source: ConflictInternal}
		}

		reservationID, err = tx.Reservations().Insert(ctx, reservation)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return &ConflictError{InstructorID: instructor.ID, Window: window, Source: ConflictInternal}
			}
			return errs.Mark(err, ErrStoreOperationFailed)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingConflict) {
			u.metrics.BookingsTotal.WithLabelValues("conflict").Inc()
		}
		return uuid.Nil, err
	}
	return reservationID, nil
}

// settleCredit applies the conditional decrement and cooldown after the
// reservation has committed. A failed deduction is fail-forward: the slot
// stays booked and the gap is surfaced for operator reconciliation.
func (u *bookingUseCase) settleCredit(ctx context.Context, studentID, reservationID uuid.UUID, plan lesson.Plan, window schedule.TimeWindow, result *BookingResult) {
	sessions := plan.SessionCost()
	hours := plan.HourCost(window.Duration())

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		deducted, err := tx.Credits().DecrementIfSufficient(ctx, studentID, sessions, hours)
		if err != nil {
			return err
		}
		if !deducted {
			return ErrInsufficientCredit
		}
		return nil
	})
	if err != nil {
		u.metrics.PostCommitInconsistencies.Inc()
		u.recon.Error("credit deduction failed after reservation commit",
			"reservation_id", reservationID.String(),
			"student_id", studentID.String(),
			"plan", plan.Key,
			"sessions", sessions,
			"hours", hours,
			"error", err.Error())
		result.Warnings = append(result.Warnings, WarnCreditNotDeducted)
	}

	if !plan.HasCooldown() {
		return
	}
	// The session occupies the slot either way, so the spacing gate is set
	// even when the deduction above failed.
	until := plan.CooldownUntil(window.End())
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Credits().SetCooldown(ctx, studentID, until)
	})
	if err != nil {
		u.recon.Error("cooldown could not be recorded after reservation commit",
			"reservation_id", reservationID.String(),
			"student_id", studentID.String(),
			"cooldown_until", until.Format(time.RFC3339),
			"error", err.Error())
		result.Warnings = append(result.Warnings, WarnCooldownNotSet)
	}
}

func (u *bookingUseCase) syncCalendar(ctx context.Context, instructor *shared.InstructorSnapshot, window schedule.TimeWindow, result *BookingResult) {
	if instructor.CalendarRef == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, u.checker.timeout)
	defer cancel()

	_, err := u.calendar.CreateEvent(ctx, instructor.CalendarRef, CalendarEvent{
		Summary: "Driving lesson",
		Window:  window,
	})
	if err != nil {
		u.metrics.CalendarSyncFailures.Inc()
		u.logger.Warn("external calendar sync failed",
			"instructor_id", instructor.ID.String(),
			"window", window.String(),
			"error", err.Error())
		result.Warnings = append(result.Warnings, WarnCalendarSyncFailed)
	}
}

func (u *bookingUseCase) lockSlot(ctx context.Context, instructorID uuid.UUID, window schedule.TimeWindow, reservationID uuid.UUID) {
	if u.locker == nil {
		return
	}
	if err := u.locker.Lock(ctx, instructorID, window, reservationID); err != nil {
		u.logger.Warn("slot lock record failed",
			"reservation_id", reservationID.String(),
			"error", err.Error())
	}
}

func (u *bookingUseCase) enqueueConfirmation(ctx context.Context, studentID uuid.UUID) {
	if u.notifier == nil {
		return
	}
	intent := NotificationIntent{
		StudentID:    studentID,
		TemplateKind: "booking_confirmed",
		SendAt:       u.clock.Now(),
	}
	if err := u.notifier.EnqueueIntent(ctx, intent); err != nil {
		u.logger.Warn("notification intent enqueue failed",
			"student_id", studentID.String(),
			"error", err.Error())
	}
}

// Cancel flips a scheduled reservation to cancelled, freeing the slot for
// conflict purposes. Credits are not refunded here.
func (u *bookingUseCase) Cancel(ctx context.Context, reservationID, studentID uuid.UUID) error {
	snap, err := u.uow.Reads().ReservationByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrReservationNotFound
		}
		return errs.Mark(err, ErrStoreOperationFailed)
	}

	reservation := lesson.ReconstructReservation(
		snap.ID, snap.InstructorID, snap.StudentID,
		snap.Window, snap.Status, lesson.SourceAPI, snap.PlanKey,
		time.Time{}, time.Time{},
	)
	if err := reservation.Cancel(studentID); err != nil {
		return errs.Mark(err, ErrValidation)
	}

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Reservations().UpdateStatus(ctx, reservationID, lesson.StatusCancelled)
	})
	if err != nil {
		return errs.Mark(err, ErrStoreOperationFailed)
	}

	if u.notifier != nil {
		intent := NotificationIntent{
			StudentID:    studentID,
			TemplateKind: "booking_cancelled",
			SendAt:       u.clock.Now(),
		}
		if err := u.notifier.EnqueueIntent(ctx, intent); err != nil {
			u.logger.Warn("notification intent enqueue failed",
				"student_id", studentID.String(),
				"error", err.Error())
		}
	}
	return nil
}
