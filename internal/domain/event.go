package domain

import (
	"context"
	"time"
)

// Event approval states.
const (
	EventStatusPending  = "pending"
	EventStatusApproved = "approved"
	EventStatusRejected = "rejected"
)

// Event represents a ticketed event in the catalog
// swagger:model Event
type Event struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Date           time.Time `json:"date"`
	Time           string    `json:"time"`
	Location       string    `json:"location"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	ApprovalStatus string    `json:"approval_status"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(name string, date time.Time, timeOfDay, location string, totalSeats int, createdBy string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:           name,
		Date:           date,
		Time:           timeOfDay,
		Location:       location,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
		ApprovalStatus: EventStatusPending,
		CreatedBy:      createdBy,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// Occupancy returns the booked-seat percentage. Derived, never stored:
// (total - available) / total * 100. Zero total seats yields 0.
func (e *Event) Occupancy() float64 {
	if e.TotalSeats <= 0 {
		return 0
	}
	return float64(e.TotalSeats-e.AvailableSeats) / float64(e.TotalSeats) * 100
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	ListAll(ctx context.Context) ([]*Event, error)
	ListApproved(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, event *Event) error
	SetApprovalStatus(ctx context.Context, id, status string) (*Event, error)
	SetImageURL(ctx context.Context, id, url string) error
	// AdjustAvailableSeats atomically adds delta to available_seats, rejecting
	// updates that would leave the count negative or above total_seats.
	AdjustAvailableSeats(ctx context.Context, id string, delta int) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines catalog operations for events.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEventByID(ctx context.Context, eventID string) (*Event, error)
	ListApprovedEvents(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	ListMyEvents(ctx context.Context, ownerID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, ownerID string, date *time.Time, timeOfDay, location *string, totalSeats *int) (*Event, error)
	ApproveEvent(ctx context.Context, p Principal, eventID, status string) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, ownerID string) error
}
