//go:build unit || e2e

package builder

import (
	"time"

	"drivebook/internal/domain/schedule"
)

type RuleSetBuilder struct {
	WorkingDays     []time.Weekday
	DailyOpen       schedule.TimeOfDay
	DailyClose      schedule.TimeOfDay
	BreakStart      *schedule.TimeOfDay
	BreakEnd        *schedule.TimeOfDay
	SlotGranularity time.Duration
	SessionDuration time.Duration
	MinNotice       time.Duration
	Location        *time.Location
}

// NewRuleSetBuilder defaults to a weekday instructor working 09:00-18:00
// with a 13:00-14:00 break and two-hour sessions on a two-hour grid.
func NewRuleSetBuilder() *RuleSetBuilder {
	breakStart := schedule.MustTimeOfDay(13, 0)
	breakEnd := schedule.MustTimeOfDay(14, 0)
	return &RuleSetBuilder{
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		DailyOpen:       schedule.MustTimeOfDay(9, 0),
		DailyClose:      schedule.MustTimeOfDay(18, 0),
		BreakStart:      &breakStart,
		BreakEnd:        &breakEnd,
		SlotGranularity: 2 * time.Hour,
		SessionDuration: 2 * time.Hour,
		MinNotice:       0,
		Location:        time.UTC,
	}
}

func (b *RuleSetBuilder) With(mutate func(*RuleSetBuilder)) *RuleSetBuilder {
	mutate(b)
	return b
}

func (b *RuleSetBuilder) WithoutBreak() *RuleSetBuilder {
	b.BreakStart = nil
	b.BreakEnd = nil
	return b
}

func (b *RuleSetBuilder) WithSessionDuration(d time.Duration) *RuleSetBuilder {
	b.SessionDuration = d
	return b
}

func (b *RuleSetBuilder) WithGranularity(d time.Duration) *RuleSetBuilder {
	b.SlotGranularity = d
	return b
}

func (b *RuleSetBuilder) WithMinNotice(d time.Duration) *RuleSetBuilder {
	b.MinNotice = d
	return b
}

func (b *RuleSetBuilder) Build() schedule.RuleSet {
	return schedule.RuleSet{
		WorkingDays:     b.WorkingDays,
		DailyOpen:       b.DailyOpen,
		DailyClose:      b.DailyClose,
		BreakStart:      b.BreakStart,
		BreakEnd:        b.BreakEnd,
		SlotGranularity: b.SlotGranularity,
		SessionDuration: b.SessionDuration,
		MinNotice:       b.MinNotice,
		Location:        b.Location,
	}
}
