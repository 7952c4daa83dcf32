package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"stagepass/internal/domain"
)

type orderService struct {
	orderRepo       domain.OrderRepository
	eventRepo       domain.EventRepository
	userRepo        domain.UserRepository
	waitlistService domain.WaitlistService
	emailService    domain.EmailService
	contextTimeout  time.Duration
}

// NewOrderService creates an OrderService. waitlistService and emailService
// may be nil; notifications are then skipped.
func NewOrderService(orderRepo domain.OrderRepository, eventRepo domain.EventRepository, userRepo domain.UserRepository, waitlistService domain.WaitlistService, emailService domain.EmailService, timeout time.Duration) domain.OrderService {
	return &orderService{
		orderRepo:       orderRepo,
		eventRepo:       eventRepo,
		userRepo:        userRepo,
		waitlistService: waitlistService,
		emailService:    emailService,
		contextTimeout:  timeout,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, userID, eventID string, tickets []domain.TicketLine) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if len(tickets) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one ticket line", domain.ErrInvalidInput)
	}
	seats := 0
	for _, t := range tickets {
		if t.Quantity <= 0 {
			return nil, fmt.Errorf("%w: ticket quantity must be positive", domain.ErrInvalidInput)
		}
		if t.Price < 0 {
			return nil, fmt.Errorf("%w: ticket price must not be negative", domain.ErrInvalidInput)
		}
		seats += t.Quantity
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.ApprovalStatus != domain.EventStatusApproved {
		return nil, fmt.Errorf("%w: event not open for sale", domain.ErrInvalidInput)
	}
	if event.AvailableSeats < seats {
		return nil, domain.ErrSoldOut
	}

	// The repository rejects a decrement below zero, so a concurrent order
	// for the last seats loses cleanly instead of overselling.
	if _, err := s.eventRepo.AdjustAvailableSeats(ctx, eventID, -seats); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, domain.ErrSoldOut
		}
		return nil, fmt.Errorf("reserve seats: %w", err)
	}

	order := domain.NewOrder(userID, eventID, tickets, time.Now())
	if err := s.orderRepo.Create(ctx, order); err != nil {
		// Best effort: give the seats back before failing.
		if _, rerr := s.eventRepo.AdjustAvailableSeats(ctx, eventID, seats); rerr != nil {
			log.Printf("[ORDER] failed to release %d seats for event %s: %v", seats, eventID, rerr)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (s *orderService) ConfirmOrder(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	order, err := s.getOwnOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be confirmed", domain.ErrInvalidInput)
	}
	updated, err := s.orderRepo.SetStatus(ctx, orderID, domain.OrderStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("confirm order: %w", err)
	}
	s.sendConfirmation(ctx, updated)
	return updated, nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	order, err := s.getOwnOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.OrderStatusCancelled {
		return order, nil
	}
	updated, err := s.orderRepo.SetStatus(ctx, orderID, domain.OrderStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	freed := order.TicketCount()
	if _, err := s.eventRepo.AdjustAvailableSeats(ctx, order.EventID, freed); err != nil {
		return nil, fmt.Errorf("release seats: %w", err)
	}
	if s.waitlistService != nil {
		if err := s.waitlistService.NotifySeatsFreed(ctx, order.EventID, freed); err != nil {
			// Notification failure must not fail the cancellation.
			log.Printf("[ORDER] waitlist notification for event %s failed: %v", order.EventID, err)
		}
	}
	return updated, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	orders, err := s.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

func (s *orderService) getOwnOrder(ctx context.Context, orderID, userID string) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *orderService) sendConfirmation(ctx context.Context, order *domain.Order) {
	if s.emailService == nil || s.userRepo == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, order.UserID)
	if err != nil || user == nil {
		log.Printf("[ORDER] could not load user %s for confirmation email: %v", order.UserID, err)
		return
	}
	eventName := ""
	if e, err := s.eventRepo.GetByID(ctx, order.EventID); err == nil {
		eventName = e.Name
	}
	data := &domain.OrderConfirmationEmailData{
		Email:       user.Email,
		Name:        user.Name,
		EventName:   eventName,
		TicketCount: order.TicketCount(),
		TotalAmount: order.TotalAmount,
		OrderID:     order.ID,
	}
	if err := s.emailService.SendOrderConfirmation(ctx, data); err != nil {
		log.Printf("[ORDER] confirmation email to %s failed: %v", user.Email, err)
	}
}
