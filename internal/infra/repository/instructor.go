package repository

import (
	"context"
	"errors"
	"time"

	"drivebook/internal/domain/schedule"
	"drivebook/internal/infra"
	"drivebook/internal/infra/db"
	"drivebook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InstructorRepository struct {
	db db.DBTX
}

func NewInstructorRepository(dbtx db.DBTX) *InstructorRepository {
	return &InstructorRepository{db: dbtx}
}

type instructorRow struct {
	ID                 uuid.UUID
	SchoolID           uuid.UUID
	DisplayName        string
	CalendarRef        *string
	Timezone           string
	WorkingDays        []int32
	DailyOpenMin       int32
	DailyCloseMin      int32
	BreakStartMin      *int32
	BreakEndMin        *int32
	SlotGranularityMin int32
	SessionDurationMin int32
	MinNoticeMin       int32
}

func (r *InstructorRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.InstructorSnapshot, error) {
	query := `
		SELECT id, school_id, display_name, calendar_ref, timezone,
		       working_days, daily_open_min, daily_close_min,
		       break_start_min, break_end_min,
		       slot_granularity_min, session_duration_min, min_notice_min
		FROM instructors
		WHERE id = $1
	`

	var row instructorRow
	err := r.db.QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.SchoolID,
		&row.DisplayName,
		&row.CalendarRef,
		&row.Timezone,
		&row.WorkingDays,
		&row.DailyOpenMin,
		&row.DailyCloseMin,
		&row.BreakStartMin,
		&row.BreakEndMin,
		&row.SlotGranularityMin,
		&row.SessionDurationMin,
		&row.MinNoticeMin,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("instructor not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find instructor by ID", err)
	}

	ruleSet, err := row.toRuleSet()
	if err != nil {
		return nil, infra.WrapRepoErr("invalid instructor rule set", err)
	}

	snap := &shared.InstructorSnapshot{
		ID:          row.ID,
		SchoolID:    row.SchoolID,
		DisplayName: row.DisplayName,
		RuleSet:     ruleSet,
	}
	if row.CalendarRef != nil {
		snap.CalendarRef = *row.CalendarRef
	}
	return snap, nil
}

func (row instructorRow) toRuleSet() (schedule.RuleSet, error) {
	loc, err := time.LoadLocation(row.Timezone)
	if err != nil {
		return schedule.RuleSet{}, err
	}

	days := make([]time.Weekday, 0, len(row.WorkingDays))
	for _, d := range row.WorkingDays {
		days = append(days, time.Weekday(d))
	}

	rs := schedule.RuleSet{
		WorkingDays:     days,
		DailyOpen:       schedule.TimeOfDay(row.DailyOpenMin),
		DailyClose:      schedule.TimeOfDay(row.DailyCloseMin),
		SlotGranularity: time.Duration(row.SlotGranularityMin) * time.Minute,
		SessionDuration: time.Duration(row.SessionDurationMin) * time.Minute,
		MinNotice:       time.Duration(row.MinNoticeMin) * time.Minute,
		Location:        loc,
	}
	if row.BreakStartMin != nil && row.BreakEndMin != nil {
		bs := schedule.TimeOfDay(*row.BreakStartMin)
		be := schedule.TimeOfDay(*row.BreakEndMin)
		rs.BreakStart = &bs
		rs.BreakEnd = &be
	}
	return rs, rs.Validate()
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
