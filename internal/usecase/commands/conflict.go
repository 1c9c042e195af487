package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"drivebook/internal/domain/schedule"
	"drivebook/internal/pkg/errs"
	"drivebook/internal/usecase/shared"
)

// ErrCalendarUnavailable is the sentinel calendar implementations mark their
// transport failures with.
var ErrCalendarUnavailable = errs.New("external calendar unavailable")

type ConflictSource string

const (
	ConflictInternal     ConflictSource = "internal"
	ConflictExternal     ConflictSource = "external"
	ConflictUnverifiable ConflictSource = "unverifiable"
)

// ConflictPolicy decides what an unverifiable external check means at commit
// time. The default deployment is fail-closed; admin-created sessions may run
// fail-open.
type ConflictPolicy string

const (
	PolicyFailClosed ConflictPolicy = "fail_closed"
	PolicyFailOpen   ConflictPolicy = "fail_open"
)

func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch ConflictPolicy(s) {
	case PolicyFailClosed, PolicyFailOpen:
		return ConflictPolicy(s), nil
	default:
		return "", errs.Newf("unknown conflict policy %q", s)
	}
}

type ConflictResult struct {
	Internal   bool
	External   bool
	Unverified bool
	Busy       []schedule.TimeWindow
}

func (r ConflictResult) HasConflict() bool {
	return r.Internal || r.External
}

// ConflictChecker merges the internal reservation store and the external
// calendar into one verdict. The internal check always runs and is
// authoritative; the external check is a bounded-time veto signal.
type ConflictChecker struct {
	reads    shared.CommandReads
	calendar CalendarProvider
	timeout  time.Duration
	logger   *slog.Logger
}

func NewConflictChecker(reads shared.CommandReads, calendar CalendarProvider, timeout time.Duration, logger *slog.Logger) *ConflictChecker {
	return &ConflictChecker{
		reads:    reads,
		calendar: calendar,
		timeout:  timeout,
		logger:   logger,
	}
}

func (c *ConflictChecker) Check(ctx context.Context, instructor *shared.InstructorSnapshot, window schedule.TimeWindow) (ConflictResult, error) {
	var result ConflictResult

	overlapping, err := c.reads.ListOverlapping(ctx, instructor.ID, window)
	if err != nil {
		return result, errs.Wrap(err, "internal conflict check failed")
	}
	result.Internal = len(overlapping) > 0

	busy, err := c.checkExternal(ctx, instructor.CalendarRef, window)
	switch {
	case err == nil:
		result.External = len(busy) > 0
		result.Busy = busy
	case errors.Is(err, ErrCalendarUnavailable):
		result.Unverified = true
		c.logger.Warn("external calendar check could not be completed",
			"instructor_id", instructor.ID.String(),
			"window", window.String(),
			"error", err.Error())
	default:
		return result, err
	}

	return result, nil
}

func (c *ConflictChecker) checkExternal(ctx context.Context, accountRef string, window schedule.TimeWindow) ([]schedule.TimeWindow, error) {
	if accountRef == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	busy, err := c.calendar.BusyIntervals(ctx, accountRef, window)
	if err != nil {
		// Timeouts count as "could not verify", never as implicit success.
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errs.Mark(err, ErrCalendarUnavailable)
		}
		return nil, err
	}
	return busy, nil
}
