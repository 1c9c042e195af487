package readstore

import (
	"context"
	"errors"
	"time"

	"drivebook/internal/domain/schedule"
	"drivebook/internal/infra"
	"drivebook/internal/infra/db"
	"drivebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	query := `
		SELECT r.id, r.instructor_id, i.display_name, r.student_id,
		       lower(r.slot), upper(r.slot), r.status, r.plan_key, r.created_at
		FROM reservations r
		JOIN instructors i ON i.id = r.instructor_id
		WHERE r.id = $1
	`

	view, err := scanReservationView(s.db.QueryRow(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return view, nil
}

func (s *ReservationReadStore) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*queries.ReservationView, error) {
	query := `
		SELECT r.id, r.instructor_id, i.display_name, r.student_id,
		       lower(r.slot), upper(r.slot), r.status, r.plan_key, r.created_at
		FROM reservations r
		JOIN instructors i ON i.id = r.instructor_id
		WHERE r.student_id = $1
		ORDER BY lower(r.slot) DESC
	`

	rows, err := s.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by student", err)
	}
	defer rows.Close()

	var views []*queries.ReservationView
	for rows.Next() {
		view, err := scanReservationView(rows.Scan)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservations", err)
	}
	return views, nil
}

func (s *ReservationReadStore) ListWindowsOverlapping(ctx context.Context, instructorID uuid.UUID, window schedule.TimeWindow) ([]schedule.TimeWindow, error) {
	query := `
		SELECT lower(slot), upper(slot)
		FROM reservations
		WHERE instructor_id = $1
		  AND status <> 'cancelled'
		  AND slot && tstzrange($2, $3, '[)')
		ORDER BY lower(slot)
	`

	rows, err := s.db.Query(ctx, query, instructorID, window.Start(), window.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservation windows", err)
	}
	defer rows.Close()

	var windows []schedule.TimeWindow
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation window", err)
		}
		w, err := schedule.NewTimeWindow(start, end)
		if err != nil {
			return nil, infra.WrapRepoErr("stored reservation window invalid", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation windows", err)
	}
	return windows, nil
}

func scanReservationView(scan func(dest ...any) error) (*queries.ReservationView, error) {
	var view queries.ReservationView
	err := scan(
		&view.ID,
		&view.InstructorID,
		&view.InstructorName,
		&view.StudentID,
		&view.Start,
		&view.End,
		&view.Status,
		&view.PlanKey,
		&view.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
