package queries

import (
	"context"

	"drivebook/internal/infra"
	"drivebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReservationNotFound = errs.New("reservation not found")
	ErrAccessDenied        = errs.New("reservation belongs to another student")
)

type ReservationQueries interface {
	// GetByID returns the reservation view, scoped to the requesting student.
	GetByID(ctx context.Context, id, studentID uuid.UUID) (*ReservationView, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	reservations ReservationReadStore
}

func NewReservationQueries(reservations ReservationReadStore) ReservationQueries {
	return &reservationQueriesImpl{reservations: reservations}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id, studentID uuid.UUID) (*ReservationView, error) {
	view, err := q.reservations.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Wrap(err, "failed to load reservation")
	}
	if view.StudentID != studentID {
		return nil, ErrAccessDenied
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*ReservationView, error) {
	views, err := q.reservations.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list reservations")
	}
	return views, nil
}
