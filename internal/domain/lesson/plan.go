package lesson

import (
	"time"

	"drivebook/internal/pkg/errs"
)

var (
	ErrUnknownPlan      = errs.New("unknown lesson plan")
	ErrDurationMismatch = errs.New("session duration does not match plan")
)

// Plan describes a bookable lesson category. A plan may pin the session to a
// fixed duration and may impose a cooldown after each booked session.
type Plan struct {
	Key           string
	FixedDuration time.Duration // 0 means the instructor's rule set decides
	Cooldown      time.Duration // 0 means no mandatory spacing
}

const (
	PlanStandard  = "standard"
	PlanIntensive = "intensive"
	PlanExam      = "exam"
)

var plans = map[string]Plan{
	PlanStandard:  {Key: PlanStandard},
	PlanIntensive: {Key: PlanIntensive, FixedDuration: 2 * time.Hour, Cooldown: 24 * time.Hour},
	PlanExam:      {Key: PlanExam, FixedDuration: time.Hour},
}

func PlanByKey(key string) (Plan, error) {
	p, ok := plans[key]
	if !ok {
		return Plan{}, ErrUnknownPlan
	}
	return p, nil
}

func (p Plan) ValidateDuration(d time.Duration) error {
	if d <= 0 {
		return ErrDurationMismatch
	}
	if p.FixedDuration > 0 && d != p.FixedDuration {
		return ErrDurationMismatch
	}
	return nil
}

func (p Plan) HasCooldown() bool {
	return p.Cooldown > 0
}

// CooldownUntil is the earliest instant another session of this plan may
// start, given a session ending at end.
func (p Plan) CooldownUntil(end time.Time) time.Time {
	return end.Add(p.Cooldown)
}

// SessionCost and HourCost express what a committed booking consumes from the
// student's ledger. Every plan burns one session; hours follow the window.
func (p Plan) SessionCost() int32 {
	return 1
}

func (p Plan) HourCost(d time.Duration) float64 {
	return d.Hours()
}
