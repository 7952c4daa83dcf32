package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"stagepass/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderFixture() (*fakeEventRepo, *fakeOrderRepo, *fakeUserRepo, *fakeWaitlistService, *fakeEmailService, domain.OrderService) {
	eventRepo := newFakeEventRepo()
	orderRepo := newFakeOrderRepo()
	userRepo := newFakeUserRepo()
	waitlist := newFakeWaitlistService()
	email := newFakeEmailService()
	svc := NewOrderService(orderRepo, eventRepo, userRepo, waitlist, email, 5*time.Second)
	return eventRepo, orderRepo, userRepo, waitlist, email, svc
}

func TestOrderService_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, _, _, _, svc := newOrderFixture()
	ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 10, 10))

	tickets := []domain.TicketLine{
		{Type: "general", Quantity: 2, Price: 25},
		{Type: "vip", Quantity: 1, Price: 80},
	}
	order, err := svc.PlaceOrder(ctx, "user-1", ev.ID, tickets)
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, 130.0, order.TotalAmount)
	assert.Equal(t, 3, order.TicketCount())
	assert.Equal(t, 7, ev.AvailableSeats, "seats reserved on placement")
	require.Len(t, orderRepo.orders, 1)
}

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	ctx := context.Background()
	eventRepo, _, _, _, _, svc := newOrderFixture()
	ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 10, 10))

	tests := []struct {
		name    string
		eventID string
		tickets []domain.TicketLine
		wantErr error
	}{
		{
			name:    "no ticket lines",
			eventID: ev.ID,
			tickets: nil,
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "zero quantity",
			eventID: ev.ID,
			tickets: []domain.TicketLine{{Quantity: 0, Price: 10}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "negative price",
			eventID: ev.ID,
			tickets: []domain.TicketLine{{Quantity: 1, Price: -1}},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "event not found",
			eventID: "ev-missing",
			tickets: []domain.TicketLine{{Quantity: 1, Price: 10}},
			wantErr: domain.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(ctx, "user-1", tt.eventID, tt.tickets)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOrderService_PlaceOrder_NotApproved(t *testing.T) {
	ctx := context.Background()
	eventRepo, _, _, _, _, svc := newOrderFixture()
	ev := eventRepo.add(pastEvent("Pending Show", "org-1", 10, 10))
	ev.ApprovalStatus = domain.EventStatusPending

	_, err := svc.PlaceOrder(ctx, "user-1", ev.ID, []domain.TicketLine{{Quantity: 1, Price: 10}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderService_PlaceOrder_SoldOut(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, _, _, _, svc := newOrderFixture()
	ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 10, 2))

	_, err := svc.PlaceOrder(ctx, "user-1", ev.ID, []domain.TicketLine{{Quantity: 3, Price: 10}})
	require.ErrorIs(t, err, domain.ErrSoldOut)
	assert.Empty(t, orderRepo.orders)
	assert.Empty(t, eventRepo.adjustCalls, "no reservation attempt when seats are short")
	assert.Equal(t, 2, ev.AvailableSeats)
}

func TestOrderService_PlaceOrder_ReleasesSeatsOnCreateFailure(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, _, _, _, svc := newOrderFixture()
	ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 10, 10))
	orderRepo.createErr = errors.New("insert failed")

	_, err := svc.PlaceOrder(ctx, "user-1", ev.ID, []domain.TicketLine{{Quantity: 4, Price: 10}})
	require.Error(t, err)
	assert.Equal(t, []int{-4, 4}, eventRepo.adjustCalls, "reservation is compensated")
	assert.Equal(t, 10, ev.AvailableSeats)
}

func TestOrderService_ConfirmOrder(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, userRepo, _, email, svc := newOrderFixture()
	ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 10, 7))
	buyer := userRepo.add(&domain.User{Email: "jo@example.com", Name: "Jo"})
	order := orderRepo.add(&domain.Order{
		UserID:      buyer.ID,
		EventID:     ev.ID,
		Tickets:     []domain.TicketLine{{Quantity: 3, Price: 10}},
		TotalAmount: 30,
		Status:      domain.OrderStatusPending,
		CreatedAt:   time.Now(),
	})

	updated, err := svc.ConfirmOrder(ctx, order.ID, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, updated.Status)

	require.Len(t, email.confirmations, 1)
	sent := email.confirmations[0]
	assert.Equal(t, "jo@example.com", sent.Email)
	assert.Equal(t, "Spring Gala", sent.EventName)
	assert.Equal(t, 3, sent.TicketCount)
	assert.Equal(t, 30.0, sent.TotalAmount)
}

func TestOrderService_ConfirmOrder_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		_, _, _, _, _, svc := newOrderFixture()
		_, err := svc.ConfirmOrder(ctx, "ord-missing", "user-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("not the buyer", func(t *testing.T) {
		_, orderRepo, _, _, _, svc := newOrderFixture()
		order := orderRepo.add(&domain.Order{UserID: "user-1", EventID: "ev-1", Status: domain.OrderStatusPending})
		_, err := svc.ConfirmOrder(ctx, order.ID, "user-2")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("already confirmed", func(t *testing.T) {
		_, orderRepo, _, _, _, svc := newOrderFixture()
		order := orderRepo.add(&domain.Order{UserID: "user-1", EventID: "ev-1", Status: domain.OrderStatusConfirmed})
		_, err := svc.ConfirmOrder(ctx, order.ID, "user-1")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("email failure does not fail confirmation", func(t *testing.T) {
		eventRepo, orderRepo, userRepo, _, email, svc := newOrderFixture()
		ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 10, 7))
		buyer := userRepo.add(&domain.User{Email: "jo@example.com", Name: "Jo"})
		order := orderRepo.add(&domain.Order{UserID: buyer.ID, EventID: ev.ID, Status: domain.OrderStatusPending})
		email.confirmErr = errors.New("smtp down")

		updated, err := svc.ConfirmOrder(ctx, order.ID, buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, updated.Status)
	})
}

func TestOrderService_CancelOrder(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, _, waitlist, _, svc := newOrderFixture()
	ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 10, 4))
	order := orderRepo.add(&domain.Order{
		UserID:  "user-1",
		EventID: ev.ID,
		Tickets: []domain.TicketLine{{Quantity: 3, Price: 10}},
		Status:  domain.OrderStatusConfirmed,
	})

	updated, err := svc.CancelOrder(ctx, order.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, updated.Status)
	assert.Equal(t, 7, ev.AvailableSeats, "cancelled seats return to the pool")
	assert.Equal(t, 3, waitlist.notified[ev.ID], "waitlist told how many seats freed")
}

func TestOrderService_CancelOrder_Idempotent(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, _, waitlist, _, svc := newOrderFixture()
	ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 10, 7))
	order := orderRepo.add(&domain.Order{
		UserID:  "user-1",
		EventID: ev.ID,
		Tickets: []domain.TicketLine{{Quantity: 3, Price: 10}},
		Status:  domain.OrderStatusCancelled,
	})

	updated, err := svc.CancelOrder(ctx, order.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, updated.Status)
	assert.Empty(t, eventRepo.adjustCalls, "no double seat release")
	assert.Empty(t, waitlist.notified)
}

func TestOrderService_CancelOrder_WaitlistFailureIgnored(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, _, waitlist, _, svc := newOrderFixture()
	ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 10, 7))
	order := orderRepo.add(&domain.Order{
		UserID:  "user-1",
		EventID: ev.ID,
		Tickets: []domain.TicketLine{{Quantity: 1, Price: 10}},
		Status:  domain.OrderStatusConfirmed,
	})
	waitlist.err = errors.New("notify failed")

	updated, err := svc.CancelOrder(ctx, order.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, updated.Status)
	assert.Equal(t, 8, ev.AvailableSeats)
}

func TestOrderService_ListMyOrders(t *testing.T) {
	ctx := context.Background()
	_, orderRepo, _, _, _, svc := newOrderFixture()
	orderRepo.add(&domain.Order{UserID: "user-1", EventID: "ev-1"})
	orderRepo.add(&domain.Order{UserID: "user-2", EventID: "ev-1"})

	orders, err := svc.ListMyOrders(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	empty, err := svc.ListMyOrders(ctx, "user-none")
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Len(t, empty, 0)
}
