package postgres

import (
	"context"
	"database/sql"
	"errors"

	"stagepass/internal/domain"
)

type waitlistRepository struct {
	DB *sql.DB
}

func NewWaitlistRepository(db *sql.DB) domain.WaitlistRepository {
	return &waitlistRepository{DB: db}
}

func (r *waitlistRepository) Create(ctx context.Context, entry *domain.WaitlistEntry) error {
	query := `
		INSERT INTO waitlist_entries (event_id, user_id)
		VALUES ($1, $2)
		RETURNING id, notified, created_at
	`
	return r.DB.QueryRowContext(ctx, query, entry.EventID, entry.UserID).
		Scan(&entry.ID, &entry.Notified, &entry.CreatedAt)
}

func (r *waitlistRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.WaitlistEntry, error) {
	query := `
		SELECT id, event_id, user_id, notified, created_at
		FROM waitlist_entries
		WHERE event_id = $1 AND user_id = $2
	`
	entry := &domain.WaitlistEntry{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).
		Scan(&entry.ID, &entry.EventID, &entry.UserID, &entry.Notified, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (r *waitlistRepository) ListUnnotified(ctx context.Context, eventID string, limit int) ([]*domain.WaitlistEntry, error) {
	query := `
		SELECT id, event_id, user_id, notified, created_at
		FROM waitlist_entries
		WHERE event_id = $1 AND notified = FALSE
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]*domain.WaitlistEntry, 0)
	for rows.Next() {
		entry := &domain.WaitlistEntry{}
		if err := rows.Scan(&entry.ID, &entry.EventID, &entry.UserID, &entry.Notified, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Position counts entries on the same event created at or before this one.
func (r *waitlistRepository) Position(ctx context.Context, entryID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM waitlist_entries w
		WHERE w.event_id = (SELECT event_id FROM waitlist_entries WHERE id = $1)
		AND w.created_at <= (SELECT created_at FROM waitlist_entries WHERE id = $1)
	`
	var position int
	if err := r.DB.QueryRowContext(ctx, query, entryID).Scan(&position); err != nil {
		return 0, err
	}
	if position == 0 {
		return 0, domain.ErrNotFound
	}
	return position, nil
}

func (r *waitlistRepository) MarkNotified(ctx context.Context, entryID string) error {
	query := `UPDATE waitlist_entries SET notified = TRUE WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, entryID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *waitlistRepository) Delete(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM waitlist_entries WHERE event_id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
