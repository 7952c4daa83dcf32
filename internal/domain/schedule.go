package domain

import (
	"context"
	"time"
)

// AuditoriumSchedule represents one booked usage interval of the single shared venue.
// swagger:model AuditoriumSchedule
type AuditoriumSchedule struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	BookedBy  string    `json:"booked_by"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}

// Hours returns the usage duration in hours (end - start).
func (s *AuditoriumSchedule) Hours() float64 {
	return s.EndTime.Sub(s.StartTime).Hours()
}

// ScheduleRepository defines the interface for auditorium schedule storage
type ScheduleRepository interface {
	Create(ctx context.Context, schedule *AuditoriumSchedule) error
	GetByID(ctx context.Context, id string) (*AuditoriumSchedule, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]*AuditoriumSchedule, error)
	// HasOverlap reports whether any schedule intersects (start, end).
	HasOverlap(ctx context.Context, start, end time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleService defines auditorium booking operations.
type ScheduleService interface {
	BookSlot(ctx context.Context, p Principal, eventID string, start, end time.Time) (*AuditoriumSchedule, error)
	CancelSlot(ctx context.Context, p Principal, scheduleID string) error
	ListSlots(ctx context.Context, from, to string) ([]*AuditoriumSchedule, error)
}
