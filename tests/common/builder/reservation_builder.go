//go:build unit || e2e

package builder

import (
	"time"

	"drivebook/internal/domain/lesson"
	"drivebook/internal/domain/schedule"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	InstructorID uuid.UUID
	StudentID    uuid.UUID
	Start        time.Time
	End          time.Time
	PlanKey      string
	Source       lesson.Source
}

func NewReservationBuilder() *ReservationBuilder {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC) // a Monday
	return &ReservationBuilder{
		InstructorID: uuid.New(),
		StudentID:    uuid.New(),
		Start:        start,
		End:          start.Add(2 * time.Hour),
		PlanKey:      lesson.PlanStandard,
		Source:       lesson.SourceAPI,
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) Window() schedule.TimeWindow {
	w, err := schedule.NewTimeWindow(b.Start, b.End)
	if err != nil {
		panic(err)
	}
	return w
}

func (b *ReservationBuilder) BuildDomain() (*lesson.Reservation, error) {
	plan, err := lesson.PlanByKey(b.PlanKey)
	if err != nil {
		return nil, err
	}
	window, err := schedule.NewTimeWindow(b.Start, b.End)
	if err != nil {
		return nil, err
	}
	return lesson.NewReservation(b.InstructorID, b.StudentID, window, plan, b.Source)
}
