package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagepass/internal/domain"
)

type scheduleService struct {
	scheduleRepo   domain.ScheduleRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
	now            func() time.Time
}

// NewScheduleService creates a ScheduleService for auditorium slot booking.
func NewScheduleService(scheduleRepo domain.ScheduleRepository, eventRepo domain.EventRepository, timeout time.Duration, now func() time.Time) domain.ScheduleService {
	if now == nil {
		now = time.Now
	}
	return &scheduleService{
		scheduleRepo:   scheduleRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
		now:            now,
	}
}

func (s *scheduleService) BookSlot(ctx context.Context, p domain.Principal, eventID string, start, end time.Time) (*domain.AuditoriumSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !end.After(start) {
		return nil, fmt.Errorf("%w: end must be after start", domain.ErrInvalidInput)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !p.IsAdmin() && event.CreatedBy != p.UserID {
		return nil, domain.ErrForbidden
	}
	if event.ApprovalStatus != domain.EventStatusApproved {
		return nil, fmt.Errorf("%w: only approved events can book the auditorium", domain.ErrInvalidInput)
	}

	// The auditorium is a single shared venue: intervals must not overlap.
	overlap, err := s.scheduleRepo.HasOverlap(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("check overlap: %w", err)
	}
	if overlap {
		return nil, domain.ErrScheduleConflict
	}

	schedule := &domain.AuditoriumSchedule{
		EventID:   eventID,
		BookedBy:  p.UserID,
		StartTime: start,
		EndTime:   end,
		CreatedAt: s.now(),
	}
	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return schedule, nil
}

func (s *scheduleService) CancelSlot(ctx context.Context, p domain.Principal, scheduleID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get schedule: %w", err)
	}
	if !p.IsAdmin() && schedule.BookedBy != p.UserID {
		return domain.ErrForbidden
	}
	if err := s.scheduleRepo.Delete(ctx, scheduleID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

func (s *scheduleService) ListSlots(ctx context.Context, from, to string) ([]*domain.AuditoriumSchedule, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	start, end, err := resolveRange(from, to, rangeNext30Days, s.now())
	if err != nil {
		return nil, err
	}
	schedules, err := s.scheduleRepo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	if schedules == nil {
		schedules = []*domain.AuditoriumSchedule{}
	}
	return schedules, nil
}
