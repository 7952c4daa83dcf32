package domain

import (
	"context"
	"time"
)

// HoursPerDay is the auditorium's daily availability.
const HoursPerDay = 24.0

// Utilization is the persisted per-day utilization cache row. Day is the
// unique key (date granularity). UtilizationPercentage may be stored as 0
// and backfilled at read time.
// swagger:model Utilization
type Utilization struct {
	ID                    string    `json:"id,omitempty"`
	Day                   time.Time `json:"date"`
	TotalHoursUsed        float64   `json:"total_hours_used"`
	TotalHoursAvailable   float64   `json:"total_hours_available"`
	EventIDs              []string  `json:"events"`
	UtilizationPercentage float64   `json:"utilization_percentage"`
}

// UtilizationRepository defines the interface for the utilization cache.
// Upsert must be keyed on the day so concurrent backfills for the same day
// converge to a single row.
type UtilizationRepository interface {
	GetByDay(ctx context.Context, day time.Time) (*Utilization, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]*Utilization, error)
	Upsert(ctx context.Context, u *Utilization) error
}
