package domain

import (
	"context"
	"time"
)

// WaitlistEntry is one user waiting for seats on a sold-out event.
// swagger:model WaitlistEntry
type WaitlistEntry struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Notified  bool      `json:"notified"`
	CreatedAt time.Time `json:"created_at"`
}

// WaitlistRepository defines the interface for waiting list storage
type WaitlistRepository interface {
	Create(ctx context.Context, entry *WaitlistEntry) error
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*WaitlistEntry, error)
	// ListUnnotified returns entries for the event that have not been notified,
	// oldest first, limited to limit.
	ListUnnotified(ctx context.Context, eventID string, limit int) ([]*WaitlistEntry, error)
	// Position returns the 1-based FIFO position of the entry within its event.
	Position(ctx context.Context, entryID string) (int, error)
	MarkNotified(ctx context.Context, entryID string) error
	Delete(ctx context.Context, eventID, userID string) error
}

// WaitlistService defines waiting list operations.
type WaitlistService interface {
	// Join adds the user to the event's waiting list. Returns (entry, position, err).
	Join(ctx context.Context, eventID, userID string) (*WaitlistEntry, int, error)
	Leave(ctx context.Context, eventID, userID string) error
	MyPosition(ctx context.Context, eventID, userID string) (int, error)
	// NotifySeatsFreed emails up to freedSeats waiting users that seats opened up.
	NotifySeatsFreed(ctx context.Context, eventID string, freedSeats int) error
}
