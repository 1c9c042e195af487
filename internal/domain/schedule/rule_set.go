package schedule

import (
	"time"

	"drivebook/internal/pkg/errs"
)

var (
	ErrInvalidTimeOfDay = errs.New("invalid time of day")
	ErrInvalidRuleSet   = errs.New("invalid availability rule set")
)

// TimeOfDay is minutes since midnight in the instructor's timezone.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, ErrInvalidTimeOfDay
	}
	return TimeOfDay(hour*60 + minute), nil
}

func MustTimeOfDay(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// At anchors the time of day on the given calendar date in loc.
func (t TimeOfDay) At(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, loc)
}

func (t TimeOfDay) String() string {
	return time.Date(0, 1, 1, int(t)/60, int(t)%60, 0, 0, time.UTC).Format("15:04")
}

// RuleSet is an instructor's bookability configuration. It is owned by the
// instructor profile and read-only to the scheduling engine.
type RuleSet struct {
	WorkingDays     []time.Weekday
	DailyOpen       TimeOfDay
	DailyClose      TimeOfDay
	BreakStart      *TimeOfDay
	BreakEnd        *TimeOfDay
	SlotGranularity time.Duration
	SessionDuration time.Duration
	MinNotice       time.Duration
	Location        *time.Location
}

func (rs RuleSet) Validate() error {
	if rs.SlotGranularity <= 0 || rs.SessionDuration <= 0 {
		return ErrInvalidRuleSet
	}
	if rs.MinNotice < 0 {
		return ErrInvalidRuleSet
	}
	if (rs.BreakStart == nil) != (rs.BreakEnd == nil) {
		return ErrInvalidRuleSet
	}
	if rs.Location == nil {
		return ErrInvalidRuleSet
	}
	return nil
}

func (rs RuleSet) worksOn(day time.Weekday) bool {
	for _, d := range rs.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}

func (rs RuleSet) breakWindow(date time.Time) (TimeWindow, bool) {
	if rs.BreakStart == nil || rs.BreakEnd == nil {
		return TimeWindow{}, false
	}
	w, err := NewTimeWindow(rs.BreakStart.At(date, rs.Location), rs.BreakEnd.At(date, rs.Location))
	if err != nil {
		return TimeWindow{}, false
	}
	return w, true
}
