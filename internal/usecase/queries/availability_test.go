//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"drivebook/internal/domain/schedule"
	"drivebook/internal/infra"
	"drivebook/internal/pkg/clock"
	"drivebook/internal/pkg/errs"
	"drivebook/internal/pkg/metrics"
	"drivebook/internal/usecase/queries"
	"drivebook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInstructorStore struct {
	view *queries.InstructorView
	err  error
}

func (s *fakeInstructorStore) FindByID(_ context.Context, _ uuid.UUID) (*queries.InstructorView, error) {
	return s.view, s.err
}

type fakeReservationStore struct {
	views   []*queries.ReservationView
	windows []schedule.TimeWindow
	err     error
}

func (s *fakeReservationStore) FindByID(_ context.Context, _ uuid.UUID) (*queries.ReservationView, error) {
	if len(s.views) == 0 {
		return nil, s.err
	}
	return s.views[0], s.err
}

func (s *fakeReservationStore) ListByStudent(_ context.Context, _ uuid.UUID) ([]*queries.ReservationView, error) {
	return s.views, s.err
}

func (s *fakeReservationStore) ListWindowsOverlapping(_ context.Context, _ uuid.UUID, _ schedule.TimeWindow) ([]schedule.TimeWindow, error) {
	return s.windows, s.err
}

func availabilityFixture(instructors *fakeInstructorStore, reservations *fakeReservationStore) queries.AvailabilityQueries {
	clk := clock.NewMockClock(time.Date(2026, 9, 4, 12, 0, 0, 0, time.UTC))
	return queries.NewAvailabilityQueries(instructors, reservations, clk, metrics.New(prometheus.NewRegistry()))
}

func TestListSlots(t *testing.T) {
	ctx := context.Background()
	instructorID := uuid.New()
	instructor := &queries.InstructorView{
		ID:          instructorID,
		DisplayName: "Alex Instructor",
		RuleSet:     builder.NewRuleSetBuilder().Build(),
	}

	t.Run("full open weekday", func(t *testing.T) {
		q := availabilityFixture(&fakeInstructorStore{view: instructor}, &fakeReservationStore{})

		view, err := q.ListSlots(ctx, instructorID, "2026-09-07")
		require.NoError(t, err)

		require.Len(t, view.Slots, 4)
		assert.Equal(t, "2026-09-07", view.Date)
		assert.Equal(t, 2*time.Hour, view.SessionDuration)
		assert.Equal(t, "09:00", view.Slots[0].Start.UTC().Format("15:04"))
	})

	t.Run("existing reservations reduce the offer", func(t *testing.T) {
		booked, err := schedule.NewTimeWindow(
			time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 7, 11, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		q := availabilityFixture(
			&fakeInstructorStore{view: instructor},
			&fakeReservationStore{windows: []schedule.TimeWindow{booked}},
		)

		view, err := q.ListSlots(ctx, instructorID, "2026-09-07")
		require.NoError(t, err)

		require.Len(t, view.Slots, 3)
		assert.Equal(t, "11:00", view.Slots[0].Start.UTC().Format("15:04"))
	})

	t.Run("non working day returns an empty list, not an error", func(t *testing.T) {
		q := availabilityFixture(&fakeInstructorStore{view: instructor}, &fakeReservationStore{})

		view, err := q.ListSlots(ctx, instructorID, "2026-09-06")
		require.NoError(t, err)
		assert.Empty(t, view.Slots)
	})

	t.Run("unknown instructor", func(t *testing.T) {
		store := &fakeInstructorStore{err: infra.WrapRepoErr("not found", errs.New("no rows"), infra.KindNotFound)}
		q := availabilityFixture(store, &fakeReservationStore{})

		_, err := q.ListSlots(ctx, instructorID, "2026-09-07")
		assert.ErrorIs(t, err, queries.ErrInstructorNotFound)
	})

	t.Run("malformed date", func(t *testing.T) {
		q := availabilityFixture(&fakeInstructorStore{view: instructor}, &fakeReservationStore{})

		_, err := q.ListSlots(ctx, instructorID, "07/09/2026")
		assert.ErrorIs(t, err, queries.ErrInvalidDate)
	})
}

func TestReservationQueries(t *testing.T) {
	ctx := context.Background()
	studentID := uuid.New()

	view := &queries.ReservationView{
		ID:        uuid.New(),
		StudentID: studentID,
		Status:    "scheduled",
	}

	t.Run("get by id scoped to the owner", func(t *testing.T) {
		q := queries.NewReservationQueries(&fakeReservationStore{views: []*queries.ReservationView{view}})

		got, err := q.GetByID(ctx, view.ID, studentID)
		require.NoError(t, err)
		assert.Equal(t, view.ID, got.ID)
	})

	t.Run("another student's reservation is denied", func(t *testing.T) {
		q := queries.NewReservationQueries(&fakeReservationStore{views: []*queries.ReservationView{view}})

		_, err := q.GetByID(ctx, view.ID, uuid.New())
		assert.ErrorIs(t, err, queries.ErrAccessDenied)
	})

	t.Run("missing reservation", func(t *testing.T) {
		store := &fakeReservationStore{err: infra.WrapRepoErr("not found", errs.New("no rows"), infra.KindNotFound)}
		q := queries.NewReservationQueries(store)

		_, err := q.GetByID(ctx, uuid.New(), studentID)
		assert.ErrorIs(t, err, queries.ErrReservationNotFound)
	})
}
