//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"drivebook/internal/domain/schedule"
	"drivebook/internal/pkg/errs"
	"drivebook/internal/usecase/commands"
	"drivebook/internal/usecase/shared"
	"drivebook/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkerFixture(reads *fakeReads, cal *fakeCalendar) *commands.ConflictChecker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return commands.NewConflictChecker(reads, cal, time.Second, logger)
}

func TestConflictChecker(t *testing.T) {
	ctx := context.Background()
	instructor := &shared.InstructorSnapshot{
		ID:          uuid.New(),
		CalendarRef: "cal-1",
		RuleSet:     builder.NewRuleSetBuilder().Build(),
	}
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	window, err := schedule.NewTimeWindow(start, start.Add(2*time.Hour))
	require.NoError(t, err)

	t.Run("clear on both sides", func(t *testing.T) {
		checker := checkerFixture(&fakeReads{}, &fakeCalendar{})

		result, err := checker.Check(ctx, instructor, window)
		require.NoError(t, err)
		assert.False(t, result.HasConflict())
		assert.False(t, result.Unverified)
	})

	t.Run("internal reservation wins regardless of external state", func(t *testing.T) {
		reads := &fakeReads{overlapping: []shared.ReservationSnapshot{{ID: uuid.New()}}}
		cal := &fakeCalendar{busyErr: errs.Mark(errs.New("down"), commands.ErrCalendarUnavailable)}
		checker := checkerFixture(reads, cal)

		result, err := checker.Check(ctx, instructor, window)
		require.NoError(t, err)
		assert.True(t, result.Internal, "the internal store is authoritative")
		assert.True(t, result.Unverified)
	})

	t.Run("external busy interval reported", func(t *testing.T) {
		cal := &fakeCalendar{busy: []schedule.TimeWindow{window}}
		checker := checkerFixture(&fakeReads{}, cal)

		result, err := checker.Check(ctx, instructor, window)
		require.NoError(t, err)
		assert.True(t, result.External)
		assert.Len(t, result.Busy, 1)
	})

	t.Run("unreachable calendar is unverified, not an error", func(t *testing.T) {
		cal := &fakeCalendar{busyErr: errs.Mark(errs.New("timeout"), commands.ErrCalendarUnavailable)}
		checker := checkerFixture(&fakeReads{}, cal)

		result, err := checker.Check(ctx, instructor, window)
		require.NoError(t, err)
		assert.True(t, result.Unverified)
		assert.False(t, result.HasConflict())
	})

	t.Run("missing calendar ref skips the external check", func(t *testing.T) {
		noCal := &shared.InstructorSnapshot{ID: uuid.New()}
		cal := &fakeCalendar{busyErr: errs.Mark(errs.New("down"), commands.ErrCalendarUnavailable)}
		checker := checkerFixture(&fakeReads{}, cal)

		result, err := checker.Check(ctx, noCal, window)
		require.NoError(t, err)
		assert.False(t, result.Unverified)
	})

	t.Run("internal store failure is a hard error", func(t *testing.T) {
		reads := &fakeReads{overlapErr: errs.New("db down")}
		checker := checkerFixture(reads, &fakeCalendar{})

		_, err := checker.Check(ctx, instructor, window)
		assert.Error(t, err)
	})
}

func TestParseConflictPolicy(t *testing.T) {
	cases := []struct {
		in      string
		want    commands.ConflictPolicy
		wantErr bool
	}{
		{in: "fail_closed", want: commands.PolicyFailClosed},
		{in: "fail_open", want: commands.PolicyFailOpen},
		{in: "", wantErr: true},
		{in: "fail-open", wantErr: true},
	}
	for _, tc := range cases {
		t.Run("policy "+tc.in, func(t *testing.T) {
			got, err := commands.ParseConflictPolicy(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
