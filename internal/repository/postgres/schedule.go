package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hiloazul/tailor-api/internal/model"
	"github.com/hiloazul/tailor-api/internal/repository"
)

type scheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) UpsertWorkDay(ctx context.Context, day *model.WorkDay) error {
	if day.ID == uuid.Nil {
		day.ID = uuid.New()
	}
	query := `
		INSERT INTO work_days (id, day_of_week, is_open, open_time, close_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (day_of_week) DO UPDATE
		SET is_open = EXCLUDED.is_open,
		    open_time = EXCLUDED.open_time,
		    close_time = EXCLUDED.close_time
	`
	_, err := r.db.ExecContext(ctx, query, day.ID, day.DayOfWeek, day.Open, day.OpenTime, day.CloseTime)
	if err != nil {
		return fmt.Errorf("failed to upsert work day: %w", err)
	}
	return nil
}

func (r *scheduleRepository) ListWorkDays(ctx context.Context) ([]*model.WorkDay, error) {
	query := `SELECT * FROM work_days ORDER BY day_of_week`
	var days []*model.WorkDay
	if err := r.db.SelectContext(ctx, &days, query); err != nil {
		return nil, fmt.Errorf("failed to list work days: %w", err)
	}
	return days, nil
}

func (r *scheduleRepository) CreateHoliday(ctx context.Context, holiday *model.Holiday) error {
	if holiday.ID == uuid.Nil {
		holiday.ID = uuid.New()
	}
	query := `INSERT INTO holidays (id, holiday_date, description) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, holiday.ID, holiday.Date, holiday.Description)
	if err != nil {
		return fmt.Errorf("failed to create holiday: %w", err)
	}
	return nil
}

func (r *scheduleRepository) DeleteHoliday(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM holidays WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *scheduleRepository) ListHolidays(ctx context.Context, from, to time.Time) ([]*model.Holiday, error) {
	query := `SELECT * FROM holidays WHERE holiday_date BETWEEN $1 AND $2 ORDER BY holiday_date`
	var holidays []*model.Holiday
	if err := r.db.SelectContext(ctx, &holidays, query, from, to); err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holidays, nil
}

func (r *scheduleRepository) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM holidays WHERE holiday_date = $1::date`
	var count int
	if err := r.db.GetContext(ctx, &count, query, date); err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return count > 0, nil
}

func (r *scheduleRepository) CreateWorkShift(ctx context.Context, shift *model.WorkShift) error {
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	shift.Active = true
	query := `
		INSERT INTO work_shifts (id, user_id, day_of_week, start_time, end_time, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, shift.ID, shift.UserID, shift.DayOfWeek, shift.StartTime, shift.EndTime, shift.Active)
	if err != nil {
		return fmt.Errorf("failed to create work shift: %w", err)
	}
	return nil
}

func (r *scheduleRepository) DeleteWorkShift(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE work_shifts SET is_active = false WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *scheduleRepository) ListWorkShifts(ctx context.Context, userID *uuid.UUID) ([]*model.WorkShift, error) {
	query := `SELECT * FROM work_shifts WHERE is_active = true`
	args := []interface{}{}
	if userID != nil {
		query += ` AND user_id = $1`
		args = append(args, *userID)
	}
	query += ` ORDER BY day_of_week, start_time`

	var shifts []*model.WorkShift
	if err := r.db.SelectContext(ctx, &shifts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list work shifts: %w", err)
	}
	return shifts, nil
}
