package repository

import (
	"context"
	"errors"
	"time"

	"drivebook/internal/domain/lesson"
	"drivebook/internal/domain/schedule"
	"drivebook/internal/infra"
	"drivebook/internal/infra/db"
	"drivebook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeExclusionViolation = "23P01"
	pgErrCodeUniqueViolation    = "23505"
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

// Insert relies on the reservations table's exclusion constraint over
// (instructor_id, slot) for non-cancelled rows; an overlapping insert fails
// with 23P01 and is reported as KindConflict.
func (r *ReservationRepository) Insert(ctx context.Context, res *lesson.Reservation) (uuid.UUID, error) {
	query := `
		INSERT INTO reservations (id, instructor_id, student_id, slot, status, source, plan_key)
		VALUES ($1, $2, $3, tstzrange($4, $5, '[)'), $6, $7, $8)
		RETURNING id
	`

	var id uuid.UUID
	err := r.db.QueryRow(
		ctx, query,
		res.ID(),
		res.InstructorID(),
		res.StudentID(),
		res.Window().Start(),
		res.Window().End(),
		res.Status().String(),
		string(res.Source()),
		res.PlanKey(),
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgErrCodeExclusionViolation:
				return uuid.Nil, infra.WrapRepoErr("reservation slot already taken", err, infra.KindConflict)
			case pgErrCodeUniqueViolation:
				return uuid.Nil, infra.WrapRepoErr("duplicate reservation", err, infra.KindDuplicateKey)
			}
		}
		return uuid.Nil, infra.WrapRepoErr("failed to insert reservation", err)
	}
	return id, nil
}

func (r *ReservationRepository) ListOverlapping(ctx context.Context, instructorID uuid.UUID, window schedule.TimeWindow) ([]shared.ReservationSnapshot, error) {
	query := `
		SELECT id, instructor_id, student_id, lower(slot), upper(slot), status, plan_key
		FROM reservations
		WHERE instructor_id = $1
		  AND status <> 'cancelled'
		  AND slot && tstzrange($2, $3, '[)')
		ORDER BY lower(slot)
	`

	rows, err := r.db.Query(ctx, query, instructorID, window.Start(), window.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list overlapping reservations", err)
	}
	defer rows.Close()

	var snapshots []shared.ReservationSnapshot
	for rows.Next() {
		snap, err := scanReservationSnapshot(rows.Scan)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservations", err)
	}
	return snapshots, nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	query := `
		SELECT id, instructor_id, student_id, lower(slot), upper(slot), status, plan_key
		FROM reservations
		WHERE id = $1
	`

	row := r.db.QueryRow(ctx, query, id)
	snap, err := scanReservationSnapshot(row.Scan)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return &snap, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status lesson.Status) error {
	query := `
		UPDATE reservations
		SET status = $2, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanReservationSnapshot(scan func(dest ...any) error) (shared.ReservationSnapshot, error) {
	var (
		snap       shared.ReservationSnapshot
		start, end time.Time
		status     string
	)
	if err := scan(&snap.ID, &snap.InstructorID, &snap.StudentID, &start, &end, &status, &snap.PlanKey); err != nil {
		return shared.ReservationSnapshot{}, err
	}
	window, err := schedule.NewTimeWindow(start, end)
	if err != nil {
		return shared.ReservationSnapshot{}, err
	}
	snap.Window = window
	snap.Status = lesson.Status(status)
	return snap, nil
}
