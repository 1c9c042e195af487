//go:build unit || e2e

package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// SeedReferenceData inserts the school every fixture hangs off.
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()
	_, err := pool.Exec(ctx,
		"INSERT INTO schools (id, name) VALUES (gen_random_uuid(), 'Default Driving School') ON CONFLICT DO NOTHING")
	return err
}

func defaultSchoolID(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	var schoolID uuid.UUID
	err := pool.QueryRow(context.Background(),
		"SELECT id FROM schools WHERE name = 'Default Driving School' LIMIT 1").Scan(&schoolID)
	require.NoError(t, err)
	return schoolID
}

// CreateTestInstructor inserts a weekday instructor working 09:00-18:00 with a
// 13:00-14:00 break, two-hour sessions on a two-hour grid, and no external
// calendar.
func CreateTestInstructor(t *testing.T, pool *pgxpool.Pool, name string) uuid.UUID {
	t.Helper()

	instructorID := uuid.New()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO instructors (
			id, school_id, display_name, calendar_ref,
			working_days, daily_open_min, daily_close_min,
			break_start_min, break_end_min,
			slot_granularity_min, session_duration_min, min_notice_min, timezone
		) VALUES ($1, $2, $3, '', '{1,2,3,4,5}', 540, 1080, 780, 840, 120, 120, 0, 'UTC')`,
		instructorID, defaultSchoolID(t, pool), name)
	require.NoError(t, err)
	return instructorID
}

func CreateTestStudent(t *testing.T, pool *pgxpool.Pool, email string) uuid.UUID {
	t.Helper()

	studentID := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO students (id, school_id, email) VALUES ($1, $2, $3)",
		studentID, defaultSchoolID(t, pool), email)
	require.NoError(t, err)
	return studentID
}

func GrantCredits(t *testing.T, pool *pgxpool.Pool, studentID uuid.UUID, sessions int32, hours float64) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO student_credits (student_id, sessions_remaining, hours_remaining)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id) DO UPDATE
		SET sessions_remaining = EXCLUDED.sessions_remaining,
		    hours_remaining = EXCLUDED.hours_remaining,
		    cooldown_until = NULL`,
		studentID, sessions, hours)
	require.NoError(t, err)
}

// CreditBalance reads the current ledger row for assertions.
func CreditBalance(t *testing.T, pool *pgxpool.Pool, studentID uuid.UUID) (int32, float64, *time.Time) {
	t.Helper()

	var sessions int32
	var hours float64
	var cooldownUntil *time.Time
	err := pool.QueryRow(context.Background(),
		"SELECT sessions_remaining, hours_remaining::float8, cooldown_until FROM student_credits WHERE student_id = $1",
		studentID).Scan(&sessions, &hours, &cooldownUntil)
	require.NoError(t, err)
	return sessions, hours, cooldownUntil
}
