package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"stagepass/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminPrincipal     = domain.Principal{UserID: "admin-1", Roles: []string{domain.RoleAdmin}}
	organizerPrincipal = domain.Principal{UserID: "org-1", Roles: []string{domain.RoleOrganizer}}
	plainPrincipal     = domain.Principal{UserID: "user-1", Roles: []string{domain.RoleUser}}
)

func confirmedOrder(eventID string, createdAt time.Time, qty int, price float64) *domain.Order {
	return &domain.Order{
		UserID:      "user-1",
		EventID:     eventID,
		Tickets:     []domain.TicketLine{{Type: "general", Quantity: qty, Price: price}},
		TotalAmount: float64(qty) * price,
		Status:      domain.OrderStatusConfirmed,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func pastEvent(name, owner string, total, available int) *domain.Event {
	return &domain.Event{
		Name:           name,
		Date:           time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		Location:       "Main Hall",
		TotalSeats:     total,
		AvailableSeats: available,
		ApprovalStatus: domain.EventStatusApproved,
		CreatedBy:      owner,
	}
}

func newReportFixture() (*fakeEventRepo, *fakeOrderRepo, *fakeRenderer, domain.ReportService) {
	eventRepo := newFakeEventRepo()
	orderRepo := newFakeOrderRepo()
	renderer := &fakeRenderer{}
	svc := NewReportService(eventRepo, orderRepo, renderer, 5*time.Second, func() time.Time { return testNow })
	return eventRepo, orderRepo, renderer, svc
}

func TestReportService_Daily(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, _, svc := newReportFixture()

	// 200 seats, 50 left: real occupancy 75%.
	ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 200, 50))
	day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	orderRepo.add(confirmedOrder(ev.ID, day.Add(9*time.Hour+15*time.Minute), 2, 50))
	orderRepo.add(confirmedOrder(ev.ID, day.Add(14*time.Hour+5*time.Minute), 3, 40))
	pending := confirmedOrder(ev.ID, day.Add(10*time.Hour), 4, 50)
	pending.Status = domain.OrderStatusPending
	orderRepo.add(pending)

	report, err := svc.Daily(ctx, adminPrincipal, "2025-05-10")
	require.NoError(t, err)

	assert.Equal(t, "2025-05-10", report.Date)
	assert.Equal(t, 5, report.TicketsSold)
	assert.Equal(t, 220.0, report.Revenue)
	assert.Equal(t, 75.0, report.OccupancyPercentage)

	require.Len(t, report.SalesData, 24)
	require.Len(t, report.RevenueData, 24)
	for h := 0; h < 24; h++ {
		assert.Equal(t, h, report.SalesData[h].Hour)
	}
	assert.Equal(t, 2, report.SalesData[9].Count)
	assert.Equal(t, 3, report.SalesData[14].Count)
	assert.Equal(t, 100.0, report.RevenueData[9].Amount)
	assert.Equal(t, 120.0, report.RevenueData[14].Amount)
	assert.Equal(t, 0, report.SalesData[10].Count, "pending orders must not count")
}

func TestReportService_Daily_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid date", func(t *testing.T) {
		_, _, _, svc := newReportFixture()
		_, err := svc.Daily(ctx, adminPrincipal, "10/05/2025")
		require.ErrorIs(t, err, domain.ErrInvalidDate)
	})

	t.Run("plain user forbidden", func(t *testing.T) {
		_, _, _, svc := newReportFixture()
		_, err := svc.Daily(ctx, plainPrincipal, "2025-05-10")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("organizer with no events", func(t *testing.T) {
		_, _, _, svc := newReportFixture()
		_, err := svc.Daily(ctx, organizerPrincipal, "2025-05-10")
		require.ErrorIs(t, err, domain.ErrInsufficientData)
	})

	t.Run("no orders in range", func(t *testing.T) {
		eventRepo, _, _, svc := newReportFixture()
		eventRepo.add(pastEvent("Spring Gala", "org-1", 200, 50))
		_, err := svc.Daily(ctx, adminPrincipal, "2025-05-10")
		require.ErrorIs(t, err, domain.ErrInsufficientData)
	})
}

func TestReportService_Daily_OrganizerScope(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, _, svc := newReportFixture()

	mine := eventRepo.add(pastEvent("Mine", "org-1", 100, 25))
	other := eventRepo.add(pastEvent("Theirs", "org-2", 100, 25))
	day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	orderRepo.add(confirmedOrder(mine.ID, day.Add(9*time.Hour), 2, 10))
	orderRepo.add(confirmedOrder(other.ID, day.Add(9*time.Hour), 7, 10))

	report, err := svc.Daily(ctx, organizerPrincipal, "2025-05-10")
	require.NoError(t, err)
	assert.Equal(t, 2, report.TicketsSold, "only the organizer's own events count")
	assert.Equal(t, 20.0, report.Revenue)

	all, err := svc.Daily(ctx, adminPrincipal, "2025-05-10")
	require.NoError(t, err)
	assert.Equal(t, 9, all.TicketsSold, "admin sees every event")
}

func TestReportService_Weekly(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, _, svc := newReportFixture()

	ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 200, 50))
	// testNow is Thursday 2025-05-15; the window is 2025-05-09..2025-05-15.
	monday := time.Date(2025, 5, 12, 11, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 5, 10, 19, 0, 0, 0, time.UTC)
	outside := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	orderRepo.add(confirmedOrder(ev.ID, monday, 2, 100))
	orderRepo.add(confirmedOrder(ev.ID, saturday, 1, 100))
	orderRepo.add(confirmedOrder(ev.ID, outside, 9, 100))

	report, err := svc.Weekly(ctx, adminPrincipal)
	require.NoError(t, err)

	assert.Equal(t, "2025-05-09", report.From)
	assert.Equal(t, "2025-05-15", report.To)
	assert.Equal(t, 3, report.TicketsSold)
	assert.Equal(t, 300.0, report.Revenue)

	require.Len(t, report.SalesData, 7)
	assert.Equal(t, "Monday", report.SalesData[0].Day)
	assert.Equal(t, "Sunday", report.SalesData[6].Day)
	assert.Equal(t, 2, report.SalesData[0].Count)
	assert.Equal(t, 1, report.SalesData[5].Count, "Saturday lands in the sixth bucket")
	assert.Equal(t, 200.0, report.RevenueData[0].Amount)
}

func TestReportService_Monthly(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, _, svc := newReportFixture()

	ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 200, 50))
	orderRepo.add(confirmedOrder(ev.ID, time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC), 2, 75))
	orderRepo.add(confirmedOrder(ev.ID, time.Date(2025, 5, 31, 22, 0, 0, 0, time.UTC), 1, 50))
	orderRepo.add(confirmedOrder(ev.ID, time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC), 6, 75))

	report, err := svc.Monthly(ctx, adminPrincipal, "2025-05-10")
	require.NoError(t, err)

	assert.Equal(t, "2025-05", report.Month)
	require.Len(t, report.SalesData, 31, "May has 31 day buckets")
	assert.Equal(t, 1, report.SalesData[0].Day)
	assert.Equal(t, 31, report.SalesData[30].Day)
	assert.Equal(t, 2, report.SalesData[9].Count)
	assert.Equal(t, 1, report.SalesData[30].Count)
	assert.Equal(t, 3, report.TicketsSold)
	assert.Equal(t, 200.0, report.Revenue)
}

func TestReportService_Monthly_February(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, _, svc := newReportFixture()

	ev := eventRepo.add(pastEvent("Winter Show", "org-1", 100, 40))
	orderRepo.add(confirmedOrder(ev.ID, time.Date(2025, 2, 14, 18, 0, 0, 0, time.UTC), 2, 30))

	report, err := svc.Monthly(ctx, adminPrincipal, "2025-02-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-02", report.Month)
	require.Len(t, report.SalesData, 28)
	assert.Equal(t, 2, report.SalesData[13].Count)
}

func TestReportService_AllTime(t *testing.T) {
	ctx := context.Background()
	eventRepo, orderRepo, _, svc := newReportFixture()

	gala := eventRepo.add(pastEvent("Spring Gala", "org-1", 200, 50))
	_ = eventRepo.add(pastEvent("Autumn Fair", "org-1", 100, 100)) // zero booked
	day := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	orderRepo.add(confirmedOrder(gala.ID, day, 2, 100))
	orderRepo.add(confirmedOrder(gala.ID, day.Add(time.Hour), 3, 100))
	cancelled := confirmedOrder(gala.ID, day.Add(2*time.Hour), 1, 100)
	cancelled.Status = domain.OrderStatusCancelled
	orderRepo.add(cancelled)

	report, err := svc.AllTime(ctx, adminPrincipal)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalOrders)
	assert.Equal(t, 2, report.ConfirmedOrders)
	assert.Equal(t, 5, report.TicketsSold)
	assert.Equal(t, 500.0, report.Revenue)
	assert.Equal(t, 3, report.OrdersByDate["2025-03-01"])
	require.Len(t, report.OrdersData, 3)

	// Sorted by name: Autumn Fair before Spring Gala.
	require.Len(t, report.EventSummary, 2)
	assert.Equal(t, "Autumn Fair", report.EventSummary[0].Name)
	assert.Equal(t, "Spring Gala", report.EventSummary[1].Name)

	galaSummary := report.EventSummary[1]
	assert.Equal(t, 3, galaSummary.Orders)
	assert.Equal(t, 2, galaSummary.ConfirmedOrders)
	assert.Equal(t, 5, galaSummary.TicketsSold)
	assert.Equal(t, 500.0, galaSummary.Revenue)
	assert.Equal(t, 75.0, galaSummary.OccupancyPercentage)

	// The unbooked event gets a deterministic synthetic occupancy.
	fairSummary := report.EventSummary[0]
	assert.GreaterOrEqual(t, fairSummary.OccupancyPercentage, syntheticOccupancyMin)
	assert.LessOrEqual(t, fairSummary.OccupancyPercentage, syntheticOccupancyMax)

	again, err := svc.AllTime(ctx, adminPrincipal)
	require.NoError(t, err)
	assert.Equal(t, fairSummary.OccupancyPercentage, again.EventSummary[0].OccupancyPercentage)
}

func TestReportService_AllTime_ZeroOrders(t *testing.T) {
	ctx := context.Background()
	eventRepo, _, _, svc := newReportFixture()
	eventRepo.add(pastEvent("Mine", "org-1", 100, 100))

	// Events exist but no orders: a zero-filled report, not insufficient data.
	report, err := svc.AllTime(ctx, organizerPrincipal)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalOrders)
	assert.Equal(t, 0, report.TicketsSold)
	assert.Equal(t, 0.0, report.Revenue)
	assert.Empty(t, report.OrdersData)
	require.Len(t, report.EventSummary, 1)
}

func TestReportService_AllTime_OrganizerNoEvents(t *testing.T) {
	_, _, _, svc := newReportFixture()
	_, err := svc.AllTime(context.Background(), organizerPrincipal)
	require.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestReportService_RenderPDF(t *testing.T) {
	ctx := context.Background()

	t.Run("daily document", func(t *testing.T) {
		eventRepo, orderRepo, renderer, svc := newReportFixture()
		ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 200, 50))
		orderRepo.add(confirmedOrder(ev.ID, time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC), 2, 50))

		var buf bytes.Buffer
		err := svc.RenderPDF(ctx, &buf, adminPrincipal, domain.ReportKindDaily, "2025-05-10")
		require.NoError(t, err)
		require.Len(t, renderer.docs, 1)
		doc := renderer.docs[0]
		assert.Equal(t, "Daily Sales Report - 2025-05-10", doc.Title)
		require.Len(t, doc.Sections, 1)
		assert.Len(t, doc.Sections[0].Rows, 24)
		assert.NotZero(t, buf.Len())
	})

	t.Run("all-time document has orders and event summary", func(t *testing.T) {
		eventRepo, orderRepo, renderer, svc := newReportFixture()
		ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 200, 50))
		orderRepo.add(confirmedOrder(ev.ID, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), 2, 50))

		var buf bytes.Buffer
		err := svc.RenderPDF(ctx, &buf, adminPrincipal, domain.ReportKindAll, "")
		require.NoError(t, err)
		require.Len(t, renderer.docs, 1)
		require.Len(t, renderer.docs[0].Sections, 2)
		assert.Equal(t, "Orders", renderer.docs[0].Sections[0].Title)
		assert.Equal(t, "Event Summary", renderer.docs[0].Sections[1].Title)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, _, renderer, svc := newReportFixture()
		var buf bytes.Buffer
		err := svc.RenderPDF(ctx, &buf, adminPrincipal, "yearly", "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, renderer.docs)
		assert.Zero(t, buf.Len())
	})

	t.Run("insufficient data propagates before rendering", func(t *testing.T) {
		eventRepo, _, renderer, svc := newReportFixture()
		eventRepo.add(pastEvent("Spring Gala", "org-1", 200, 50))
		var buf bytes.Buffer
		err := svc.RenderPDF(ctx, &buf, adminPrincipal, domain.ReportKindDaily, "2025-05-10")
		require.ErrorIs(t, err, domain.ErrInsufficientData)
		assert.Empty(t, renderer.docs)
		assert.Zero(t, buf.Len())
	})

	t.Run("renderer error surfaces", func(t *testing.T) {
		eventRepo, orderRepo, renderer, svc := newReportFixture()
		renderer.err = errors.New("render failed")
		ev := eventRepo.add(pastEvent("Spring Gala", "org-1", 200, 50))
		orderRepo.add(confirmedOrder(ev.ID, time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC), 2, 50))
		var buf bytes.Buffer
		err := svc.RenderPDF(ctx, &buf, adminPrincipal, domain.ReportKindDaily, "2025-05-10")
		require.Error(t, err)
	})
}
