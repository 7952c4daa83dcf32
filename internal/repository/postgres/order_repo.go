package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"stagepass/internal/domain"
)

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) domain.OrderRepository {
	return &orderRepository{DB: db}
}

func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	tickets, err := json.Marshal(o.Tickets)
	if err != nil {
		return fmt.Errorf("marshal tickets: %w", err)
	}
	query := `
		INSERT INTO orders (user_id, event_id, tickets, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		o.UserID, o.EventID, tickets, o.TotalAmount, o.Status, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
}

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	o := &domain.Order{}
	var tickets []byte
	err := row.Scan(&o.ID, &o.UserID, &o.EventID, &tickets, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(tickets) > 0 {
		if err := json.Unmarshal(tickets, &o.Tickets); err != nil {
			return nil, fmt.Errorf("unmarshal tickets: %w", err)
		}
	}
	return o, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, user_id, event_id, tickets, total_amount, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	o, err := scanOrder(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, event_id, tickets, total_amount, status, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *orderRepository) ListInRange(ctx context.Context, from, to time.Time, status string, eventIDs []string) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, event_id, tickets, total_amount, status, created_at, updated_at
		FROM orders
		WHERE created_at BETWEEN $1 AND $2
	`
	args := []any{from, to}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if eventIDs != nil {
		args = append(args, pq.Array(eventIDs))
		query += fmt.Sprintf(" AND event_id = ANY($%d)", len(args))
	}
	query += " ORDER BY created_at ASC"
	return r.list(ctx, query, args...)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *orderRepository) SetStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	query := `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, user_id, event_id, tickets, total_amount, status, created_at, updated_at
	`
	o, err := scanOrder(r.DB.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}
