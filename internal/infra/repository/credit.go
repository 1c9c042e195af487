package repository

import (
	"context"
	"time"

	"drivebook/internal/infra"
	"drivebook/internal/infra/db"
	"drivebook/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreditRepository struct {
	db db.DBTX
}

func NewCreditRepository(dbtx db.DBTX) *CreditRepository {
	return &CreditRepository{db: dbtx}
}

// DecrementIfSufficient expresses the deduction as a single conditional
// UPDATE so concurrent bookings for the same student cannot drive the balance
// negative. Zero rows affected means the balance was short.
func (r *CreditRepository) DecrementIfSufficient(ctx context.Context, studentID uuid.UUID, sessions int32, hours float64) (bool, error) {
	query := `
		UPDATE student_credits
		SET sessions_remaining = sessions_remaining - $2,
		    hours_remaining = hours_remaining - $3,
		    updated_at = now()
		WHERE student_id = $1
		  AND sessions_remaining >= $2
		  AND hours_remaining >= $3
	`

	tag, err := r.db.Exec(ctx, query, studentID, sessions, hours)
	if err != nil {
		return false, infra.WrapRepoErr("failed to decrement credits", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CreditRepository) SetCooldown(ctx context.Context, studentID uuid.UUID, until time.Time) error {
	query := `
		UPDATE student_credits
		SET cooldown_until = $2, updated_at = now()
		WHERE student_id = $1
	`

	tag, err := r.db.Exec(ctx, query, studentID, until)
	if err != nil {
		return infra.WrapRepoErr("failed to set cooldown", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("credit account not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CreditRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) (*shared.CreditSnapshot, error) {
	query := `
		SELECT student_id, sessions_remaining, hours_remaining::float8, cooldown_until
		FROM student_credits
		WHERE student_id = $1
	`

	var snap shared.CreditSnapshot
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&snap.StudentID,
		&snap.SessionsRemaining,
		&snap.HoursRemaining,
		&snap.CooldownUntil,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("credit account not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find credit account", err)
	}
	return &snap, nil
}
