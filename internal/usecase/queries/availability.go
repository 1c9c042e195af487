package queries

import (
	"context"
	"time"

	"drivebook/internal/domain/schedule"
	"drivebook/internal/infra"
	"drivebook/internal/pkg/clock"
	"drivebook/internal/pkg/errs"
	"drivebook/internal/pkg/metrics"

	"github.com/google/uuid"
)

var (
	ErrInstructorNotFound = errs.New("instructor not found")
	ErrInvalidDate        = errs.New("invalid date")
)

type AvailabilityQueries interface {
	// ListSlots generates the offerable start times for one instructor and
	// one calendar date (YYYY-MM-DD, interpreted in the instructor's
	// timezone).
	ListSlots(ctx context.Context, instructorID uuid.UUID, date string) (*DayAvailabilityView, error)
}

type availabilityQueriesImpl struct {
	instructors  InstructorReadStore
	reservations ReservationReadStore
	clock        clock.Clock
	metrics      *metrics.Metrics
}

func NewAvailabilityQueries(
	instructors InstructorReadStore,
	reservations ReservationReadStore,
	clk clock.Clock,
	m *metrics.Metrics,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		instructors:  instructors,
		reservations: reservations,
		clock:        clk,
		metrics:      m,
	}
}

func (q *availabilityQueriesImpl) ListSlots(ctx context.Context, instructorID uuid.UUID, date string) (*DayAvailabilityView, error) {
	instructor, err := q.instructors.FindByID(ctx, instructorID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInstructorNotFound
		}
		return nil, errs.Wrap(err, "failed to load instructor")
	}

	rs := instructor.RuleSet
	day, err := time.ParseInLocation("2006-01-02", date, rs.Location)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDate)
	}

	existing, err := q.existingWindows(ctx, instructorID, day, rs.Location)
	if err != nil {
		return nil, err
	}

	slots := schedule.GenerateSlots(rs, day, q.clock.Now(), existing)
	view := &DayAvailabilityView{
		InstructorID:    instructorID,
		Date:            date,
		SessionDuration: rs.SessionDuration,
		Slots:           make([]SlotView, 0, len(slots)),
	}
	for _, s := range slots {
		view.Slots = append(view.Slots, SlotView{Start: s.Start(), End: s.End()})
	}
	q.metrics.SlotsGenerated.Add(float64(len(slots)))
	return view, nil
}

func (q *availabilityQueriesImpl) existingWindows(ctx context.Context, instructorID uuid.UUID, day time.Time, loc *time.Location) ([]schedule.TimeWindow, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	dayWindow, err := schedule.NewTimeWindow(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDate)
	}

	existing, err := q.reservations.ListWindowsOverlapping(ctx, instructorID, dayWindow)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load reservations for date")
	}
	return existing, nil
}
