package schedule

import (
	"fmt"
	"time"

	"drivebook/internal/pkg/errs"
)

var ErrInvalidTimeWindow = errs.New("invalid time window")

// TimeWindow is a closed-open interval [start, end). Comparisons are done in
// UTC; display timezones are a presentation concern.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !start.Before(end) {
		return TimeWindow{}, ErrInvalidTimeWindow
	}
	return TimeWindow{start: start.UTC(), end: end.UTC()}, nil
}

func (w TimeWindow) Start() time.Time {
	return w.start
}

func (w TimeWindow) End() time.Time {
	return w.end
}

func (w TimeWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

// Overlaps reports strict open-interval overlap. A window ending exactly where
// another starts does not overlap it; back-to-back scheduling relies on this.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && w.end.After(other.start)
}

func (w TimeWindow) Contains(instant time.Time) bool {
	return !instant.Before(w.start) && instant.Before(w.end)
}

func (w TimeWindow) Equal(other TimeWindow) bool {
	return w.start.Equal(other.start) && w.end.Equal(other.end)
}

// ToTstzrange renders the window in PostgreSQL range literal form.
func (w TimeWindow) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}

func (w TimeWindow) String() string {
	return w.start.Format(time.RFC3339) + "/" + w.end.Format(time.RFC3339)
}
