package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"stagepass/internal/domain"
)

type utilizationRepository struct {
	DB *sql.DB
}

func NewUtilizationRepository(db *sql.DB) domain.UtilizationRepository {
	return &utilizationRepository{DB: db}
}

func (r *utilizationRepository) GetByDay(ctx context.Context, day time.Time) (*domain.Utilization, error) {
	query := `
		SELECT id, day, total_hours_used, total_hours_available, event_ids, utilization_percentage
		FROM auditorium_utilization
		WHERE day = $1
	`
	u := &domain.Utilization{}
	err := r.DB.QueryRowContext(ctx, query, day.Format("2006-01-02")).Scan(
		&u.ID, &u.Day, &u.TotalHoursUsed, &u.TotalHoursAvailable,
		pq.Array(&u.EventIDs), &u.UtilizationPercentage,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *utilizationRepository) ListInRange(ctx context.Context, from, to time.Time) ([]*domain.Utilization, error) {
	query := `
		SELECT id, day, total_hours_used, total_hours_available, event_ids, utilization_percentage
		FROM auditorium_utilization
		WHERE day BETWEEN $1 AND $2
		ORDER BY day ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make([]*domain.Utilization, 0)
	for rows.Next() {
		u := &domain.Utilization{}
		if err := rows.Scan(&u.ID, &u.Day, &u.TotalHoursUsed, &u.TotalHoursAvailable, pq.Array(&u.EventIDs), &u.UtilizationPercentage); err != nil {
			return nil, err
		}
		records = append(records, u)
	}
	return records, rows.Err()
}

// Upsert inserts or replaces the record for its day. The day column carries a
// unique constraint, so concurrent backfills for the same day converge on one
// row instead of duplicating it.
func (r *utilizationRepository) Upsert(ctx context.Context, u *domain.Utilization) error {
	query := `
		INSERT INTO auditorium_utilization (day, total_hours_used, total_hours_available, event_ids, utilization_percentage)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (day) DO UPDATE SET
			total_hours_used = EXCLUDED.total_hours_used,
			total_hours_available = EXCLUDED.total_hours_available,
			event_ids = EXCLUDED.event_ids,
			utilization_percentage = EXCLUDED.utilization_percentage
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		u.Day.Format("2006-01-02"), u.TotalHoursUsed, u.TotalHoursAvailable,
		pq.Array(u.EventIDs), u.UtilizationPercentage,
	).Scan(&u.ID)
}
