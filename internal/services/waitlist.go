package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"stagepass/internal/domain"
)

type waitlistService struct {
	waitlistRepo   domain.WaitlistRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	contextTimeout time.Duration
}

// NewWaitlistService creates a WaitlistService. emailService may be nil;
// NotifySeatsFreed then only marks entries notified.
func NewWaitlistService(waitlistRepo domain.WaitlistRepository, eventRepo domain.EventRepository, userRepo domain.UserRepository, emailService domain.EmailService, timeout time.Duration) domain.WaitlistService {
	return &waitlistService{
		waitlistRepo:   waitlistRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		contextTimeout: timeout,
	}
}

func (s *waitlistService) Join(ctx context.Context, eventID, userID string) (*domain.WaitlistEntry, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	if event.AvailableSeats > 0 {
		return nil, 0, fmt.Errorf("%w: seats still available", domain.ErrInvalidInput)
	}

	if existing, err := s.waitlistRepo.GetByEventAndUser(ctx, eventID, userID); err == nil {
		pos, perr := s.waitlistRepo.Position(ctx, existing.ID)
		if perr != nil {
			return nil, 0, fmt.Errorf("waitlist position: %w", perr)
		}
		return existing, pos, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, 0, fmt.Errorf("get waitlist entry: %w", err)
	}

	entry := &domain.WaitlistEntry{
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.waitlistRepo.Create(ctx, entry); err != nil {
		return nil, 0, fmt.Errorf("join waitlist: %w", err)
	}
	pos, err := s.waitlistRepo.Position(ctx, entry.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("waitlist position: %w", err)
	}
	return entry, pos, nil
}

func (s *waitlistService) Leave(ctx context.Context, eventID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.waitlistRepo.Delete(ctx, eventID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("leave waitlist: %w", err)
	}
	return nil
}

func (s *waitlistService) MyPosition(ctx context.Context, eventID, userID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	entry, err := s.waitlistRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get waitlist entry: %w", err)
	}
	pos, err := s.waitlistRepo.Position(ctx, entry.ID)
	if err != nil {
		return 0, fmt.Errorf("waitlist position: %w", err)
	}
	return pos, nil
}

// NotifySeatsFreed emails the oldest unnotified waiting users, one per freed
// seat, and marks them notified. Email failures skip the mark so the user is
// retried on the next free-up.
func (s *waitlistService) NotifySeatsFreed(ctx context.Context, eventID string, freedSeats int) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if freedSeats <= 0 {
		return nil
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	entries, err := s.waitlistRepo.ListUnnotified(ctx, eventID, freedSeats)
	if err != nil {
		return fmt.Errorf("list waitlist: %w", err)
	}
	for _, entry := range entries {
		if s.emailService != nil {
			user, err := s.userRepo.GetByID(ctx, entry.UserID)
			if err != nil || user == nil {
				log.Printf("[WAITLIST] could not load user %s: %v", entry.UserID, err)
				continue
			}
			data := &domain.WaitlistSeatAvailableEmailData{
				Email:     user.Email,
				Name:      user.Name,
				EventName: event.Name,
				EventID:   event.ID,
			}
			if err := s.emailService.SendWaitlistSeatAvailable(ctx, data); err != nil {
				log.Printf("[WAITLIST] notification to %s failed: %v", user.Email, err)
				continue
			}
		}
		if err := s.waitlistRepo.MarkNotified(ctx, entry.ID); err != nil {
			return fmt.Errorf("mark notified: %w", err)
		}
	}
	return nil
}
