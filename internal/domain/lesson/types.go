package lesson

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// CountsTowardConflicts reports whether a reservation in this status still
// blocks the slot. Cancelled rows free the slot immediately.
func (s Status) CountsTowardConflicts() bool {
	return s != StatusCancelled
}

// Source records which surface created the reservation.
type Source string

const (
	SourceAPI   Source = "api"
	SourceAdmin Source = "admin"
)
