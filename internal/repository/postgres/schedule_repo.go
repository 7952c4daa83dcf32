package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"stagepass/internal/domain"
)

type scheduleRepository struct {
	DB *sql.DB
}

func NewScheduleRepository(db *sql.DB) domain.ScheduleRepository {
	return &scheduleRepository{DB: db}
}

func (r *scheduleRepository) Create(ctx context.Context, s *domain.AuditoriumSchedule) error {
	query := `
		INSERT INTO auditorium_schedules (event_id, booked_by, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, s.EventID, s.BookedBy, s.StartTime, s.EndTime, s.CreatedAt).Scan(&s.ID)
}

func (r *scheduleRepository) GetByID(ctx context.Context, id string) (*domain.AuditoriumSchedule, error) {
	query := `
		SELECT id, event_id, booked_by, start_time, end_time, created_at
		FROM auditorium_schedules
		WHERE id = $1
	`
	s := &domain.AuditoriumSchedule{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.EventID, &s.BookedBy, &s.StartTime, &s.EndTime, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *scheduleRepository) ListInRange(ctx context.Context, from, to time.Time) ([]*domain.AuditoriumSchedule, error) {
	query := `
		SELECT id, event_id, booked_by, start_time, end_time, created_at
		FROM auditorium_schedules
		WHERE start_time <= $2 AND end_time >= $1
		ORDER BY start_time ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	schedules := make([]*domain.AuditoriumSchedule, 0)
	for rows.Next() {
		s := &domain.AuditoriumSchedule{}
		if err := rows.Scan(&s.ID, &s.EventID, &s.BookedBy, &s.StartTime, &s.EndTime, &s.CreatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (r *scheduleRepository) HasOverlap(ctx context.Context, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM auditorium_schedules
			WHERE start_time < $2 AND end_time > $1
		)
	`
	var overlap bool
	if err := r.DB.QueryRowContext(ctx, query, start, end).Scan(&overlap); err != nil {
		return false, err
	}
	return overlap, nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM auditorium_schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
