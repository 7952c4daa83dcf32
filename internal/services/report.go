package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"stagepass/internal/domain"
)

// weekdayNames is the weekly report bucket order: Monday first, Sunday last.
var weekdayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type reportService struct {
	eventRepo      domain.EventRepository
	orderRepo      domain.OrderRepository
	renderer       domain.ReportRenderer
	contextTimeout time.Duration
	now            func() time.Time
}

// NewReportService creates a ReportService over the given repositories and
// renderer. now is injectable for tests; nil defaults to time.Now.
func NewReportService(eventRepo domain.EventRepository, orderRepo domain.OrderRepository, renderer domain.ReportRenderer, timeout time.Duration, now func() time.Time) domain.ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportService{
		eventRepo:      eventRepo,
		orderRepo:      orderRepo,
		renderer:       renderer,
		contextTimeout: timeout,
		now:            now,
	}
}

// scopedEvents returns the events visible to the principal. Organizers see
// only events they created; owning zero events is reported as
// ErrInsufficientData so callers can distinguish "no access scope" from
// "no data in range". Admins see everything.
func (s *reportService) scopedEvents(ctx context.Context, p domain.Principal) ([]*domain.Event, error) {
	if p.IsAdmin() {
		events, err := s.eventRepo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		return events, nil
	}
	if !p.IsOrganizer() {
		return nil, domain.ErrForbidden
	}
	events, err := s.eventRepo.ListByOwnerID(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list owned events: %w", err)
	}
	if len(events) == 0 {
		return nil, domain.ErrInsufficientData
	}
	return events, nil
}

func eventIDs(events []*domain.Event) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}

// occupancyOverTouchedEvents averages occupancy over the distinct events the
// orders reference, not over the orders themselves, so multiple orders on one
// event do not double count.
func (s *reportService) occupancyOverTouchedEvents(orders []*domain.Order, byID map[string]*domain.Event, now time.Time) float64 {
	touched := make(map[string]struct{})
	sum := 0.0
	for _, o := range orders {
		if _, ok := touched[o.EventID]; ok {
			continue
		}
		e, ok := byID[o.EventID]
		if !ok {
			continue
		}
		touched[o.EventID] = struct{}{}
		sum += occupancyOrSynthetic(e, now)
	}
	if len(touched) == 0 {
		return 0
	}
	return roundTo(sum/float64(len(touched)), 2)
}

func indexEvents(events []*domain.Event) map[string]*domain.Event {
	byID := make(map[string]*domain.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}
	return byID
}

func (s *reportService) Daily(ctx context.Context, p domain.Principal, date string) (*domain.DailyReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	day, err := parseDay(date, now)
	if err != nil {
		return nil, err
	}
	events, err := s.scopedEvents(ctx, p)
	if err != nil {
		return nil, err
	}
	var scope []string
	if !p.IsAdmin() {
		scope = eventIDs(events)
	}
	orders, err := s.orderRepo.ListInRange(ctx, startOfDay(day), endOfDay(day), domain.OrderStatusConfirmed, scope)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, domain.ErrInsufficientData
	}

	report := &domain.DailyReport{
		Date:        day.Format(dateLayout),
		SalesData:   make([]domain.HourBucket, 24),
		RevenueData: make([]domain.HourRevenueBucket, 24),
	}
	for h := 0; h < 24; h++ {
		report.SalesData[h].Hour = h
		report.RevenueData[h].Hour = h
	}
	for _, o := range orders {
		h := o.CreatedAt.Hour()
		report.SalesData[h].Count += o.TicketCount()
		report.RevenueData[h].Amount = roundTo(report.RevenueData[h].Amount+o.TotalAmount, 2)
		report.TicketsSold += o.TicketCount()
		report.Revenue += o.TotalAmount
	}
	report.Revenue = roundTo(report.Revenue, 2)
	report.OccupancyPercentage = s.occupancyOverTouchedEvents(orders, indexEvents(events), now)
	return report, nil
}

func (s *reportService) Weekly(ctx context.Context, p domain.Principal) (*domain.WeeklyReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	start := startOfDay(now.AddDate(0, 0, -6))
	end := endOfDay(now)

	events, err := s.scopedEvents(ctx, p)
	if err != nil {
		return nil, err
	}
	var scope []string
	if !p.IsAdmin() {
		scope = eventIDs(events)
	}
	orders, err := s.orderRepo.ListInRange(ctx, start, end, domain.OrderStatusConfirmed, scope)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, domain.ErrInsufficientData
	}

	report := &domain.WeeklyReport{
		From:        start.Format(dateLayout),
		To:          end.Format(dateLayout),
		SalesData:   make([]domain.DayBucket, 7),
		RevenueData: make([]domain.DayRevenueBucket, 7),
	}
	for i, name := range weekdayNames {
		report.SalesData[i].Day = name
		report.RevenueData[i].Day = name
	}
	for _, o := range orders {
		// time.Weekday is Sunday-based; shift to Monday-first buckets.
		idx := (int(o.CreatedAt.Weekday()) + 6) % 7
		report.SalesData[idx].Count += o.TicketCount()
		report.RevenueData[idx].Amount = roundTo(report.RevenueData[idx].Amount+o.TotalAmount, 2)
		report.TicketsSold += o.TicketCount()
		report.Revenue += o.TotalAmount
	}
	report.Revenue = roundTo(report.Revenue, 2)
	report.OccupancyPercentage = s.occupancyOverTouchedEvents(orders, indexEvents(events), now)
	return report, nil
}

func (s *reportService) Monthly(ctx context.Context, p domain.Principal, date string) (*domain.MonthlyReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	day, err := parseDay(date, now)
	if err != nil {
		return nil, err
	}
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()
	monthEnd := endOfDay(monthStart.AddDate(0, 1, -1))

	events, err := s.scopedEvents(ctx, p)
	if err != nil {
		return nil, err
	}
	var scope []string
	if !p.IsAdmin() {
		scope = eventIDs(events)
	}
	orders, err := s.orderRepo.ListInRange(ctx, monthStart, monthEnd, domain.OrderStatusConfirmed, scope)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(orders) == 0 {
		return nil, domain.ErrInsufficientData
	}

	report := &domain.MonthlyReport{
		Month:       monthStart.Format("2006-01"),
		SalesData:   make([]domain.DateBucket, daysInMonth),
		RevenueData: make([]domain.DateRevenueBucket, daysInMonth),
	}
	for i := 0; i < daysInMonth; i++ {
		report.SalesData[i].Day = i + 1
		report.RevenueData[i].Day = i + 1
	}
	for _, o := range orders {
		idx := o.CreatedAt.Day() - 1
		report.SalesData[idx].Count += o.TicketCount()
		report.RevenueData[idx].Amount = roundTo(report.RevenueData[idx].Amount+o.TotalAmount, 2)
		report.TicketsSold += o.TicketCount()
		report.Revenue += o.TotalAmount
	}
	report.Revenue = roundTo(report.Revenue, 2)
	report.OccupancyPercentage = s.occupancyOverTouchedEvents(orders, indexEvents(events), now)
	return report, nil
}

func (s *reportService) AllTime(ctx context.Context, p domain.Principal) (*domain.AllTimeReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	start, end, err := resolveRange("", "", rangeAllTime, now)
	if err != nil {
		return nil, err
	}
	events, err := s.scopedEvents(ctx, p)
	if err != nil {
		return nil, err
	}
	var scope []string
	if !p.IsAdmin() {
		scope = eventIDs(events)
	}
	// All orders regardless of status; the confirmed subset drives totals.
	orders, err := s.orderRepo.ListInRange(ctx, start, end, "", scope)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	// Zero orders with owned events is a valid zero-filled report, not the
	// insufficient-data sentinel. The sentinel is reserved for organizers
	// owning no events (handled in scopedEvents).
	report := &domain.AllTimeReport{
		OrdersData:      make([]domain.OrderRecord, 0, len(orders)),
		OrdersByDate:    make(map[string]int),
		EventSummary:    make([]domain.EventSummary, 0, len(events)),
		OccupancyByDate: make(map[string]float64),
	}

	byID := indexEvents(events)
	perEvent := make(map[string]*domain.EventSummary, len(events))
	for _, e := range events {
		occ := occupancyOrSynthetic(e, now)
		perEvent[e.ID] = &domain.EventSummary{
			EventID:             e.ID,
			Name:                e.Name,
			OccupancyPercentage: occ,
		}
		report.OccupancyByDate[e.Date.Format(dateLayout)] = occ
	}

	confirmedCount := 0
	for _, o := range orders {
		date := o.CreatedAt.Format(dateLayout)
		report.OrdersData = append(report.OrdersData, domain.OrderRecord{
			ID:      o.ID,
			EventID: o.EventID,
			Status:  o.Status,
			Tickets: o.TicketCount(),
			Amount:  o.TotalAmount,
			Date:    date,
		})
		report.OrdersByDate[date]++
		if es, ok := perEvent[o.EventID]; ok {
			es.Orders++
		}
		if o.Status != domain.OrderStatusConfirmed {
			continue
		}
		confirmedCount++
		report.TicketsSold += o.TicketCount()
		report.Revenue += o.TotalAmount
		if es, ok := perEvent[o.EventID]; ok {
			es.ConfirmedOrders++
			es.TicketsSold += o.TicketCount()
			es.Revenue = roundTo(es.Revenue+o.TotalAmount, 2)
		}
	}
	report.TotalOrders = len(orders)
	report.ConfirmedOrders = confirmedCount
	report.Revenue = roundTo(report.Revenue, 2)

	touched := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == domain.OrderStatusConfirmed {
			touched = append(touched, o)
		}
	}
	report.OccupancyPercentage = s.occupancyOverTouchedEvents(touched, byID, now)

	for _, e := range events {
		report.EventSummary = append(report.EventSummary, *perEvent[e.ID])
	}
	sort.Slice(report.EventSummary, func(i, j int) bool {
		return report.EventSummary[i].Name < report.EventSummary[j].Name
	})
	return report, nil
}

func (s *reportService) RenderPDF(ctx context.Context, w io.Writer, p domain.Principal, kind, date string) error {
	doc, err := s.buildDocument(ctx, p, kind, date)
	if err != nil {
		return err
	}
	return s.renderer.Render(ctx, w, doc)
}

// buildDocument shapes the report of the given kind into the layout-ready
// document form. Insufficient data propagates before any rendering starts.
func (s *reportService) buildDocument(ctx context.Context, p domain.Principal, kind, date string) (*domain.ReportDocument, error) {
	switch kind {
	case domain.ReportKindDaily:
		r, err := s.Daily(ctx, p, date)
		if err != nil {
			return nil, err
		}
		return dailyDocument(r), nil
	case domain.ReportKindWeekly:
		r, err := s.Weekly(ctx, p)
		if err != nil {
			return nil, err
		}
		return weeklyDocument(r), nil
	case domain.ReportKindMonthly:
		r, err := s.Monthly(ctx, p, date)
		if err != nil {
			return nil, err
		}
		return monthlyDocument(r), nil
	case domain.ReportKindAll:
		r, err := s.AllTime(ctx, p)
		if err != nil {
			return nil, err
		}
		return allTimeDocument(r), nil
	default:
		return nil, fmt.Errorf("%w: unknown report type %q", domain.ErrInvalidInput, kind)
	}
}

func money(v float64) string {
	return strconv.FormatFloat(roundTo(v, 2), 'f', 2, 64)
}

func percent(v float64) string {
	return strconv.FormatFloat(roundTo(v, 2), 'f', 2, 64) + "%"
}

func dailyDocument(r *domain.DailyReport) *domain.ReportDocument {
	rows := make([][]string, 0, 24)
	for i := range r.SalesData {
		rows = append(rows, []string{
			fmt.Sprintf("%02d:00", r.SalesData[i].Hour),
			strconv.Itoa(r.SalesData[i].Count),
			money(r.RevenueData[i].Amount),
		})
	}
	return &domain.ReportDocument{
		Title: "Daily Sales Report - " + r.Date,
		Summary: [][2]string{
			{"Tickets sold", strconv.Itoa(r.TicketsSold)},
			{"Revenue", money(r.Revenue)},
			{"Occupancy", percent(r.OccupancyPercentage)},
		},
		Sections: []domain.ReportSection{{
			Title:   "Sales by Hour",
			Headers: []string{"Hour", "Tickets", "Revenue"},
			Widths:  []float64{1, 1, 1},
			Rows:    rows,
		}},
	}
}

func weeklyDocument(r *domain.WeeklyReport) *domain.ReportDocument {
	rows := make([][]string, 0, 7)
	for i := range r.SalesData {
		rows = append(rows, []string{
			r.SalesData[i].Day,
			strconv.Itoa(r.SalesData[i].Count),
			money(r.RevenueData[i].Amount),
		})
	}
	return &domain.ReportDocument{
		Title: fmt.Sprintf("Weekly Sales Report - %s to %s", r.From, r.To),
		Summary: [][2]string{
			{"Tickets sold", strconv.Itoa(r.TicketsSold)},
			{"Revenue", money(r.Revenue)},
			{"Occupancy", percent(r.OccupancyPercentage)},
		},
		Sections: []domain.ReportSection{{
			Title:   "Sales by Day",
			Headers: []string{"Day", "Tickets", "Revenue"},
			Widths:  []float64{2, 1, 1},
			Rows:    rows,
		}},
	}
}

func monthlyDocument(r *domain.MonthlyReport) *domain.ReportDocument {
	rows := make([][]string, 0, len(r.SalesData))
	for i := range r.SalesData {
		rows = append(rows, []string{
			strconv.Itoa(r.SalesData[i].Day),
			strconv.Itoa(r.SalesData[i].Count),
			money(r.RevenueData[i].Amount),
		})
	}
	return &domain.ReportDocument{
		Title: "Monthly Sales Report - " + r.Month,
		Summary: [][2]string{
			{"Tickets sold", strconv.Itoa(r.TicketsSold)},
			{"Revenue", money(r.Revenue)},
			{"Occupancy", percent(r.OccupancyPercentage)},
		},
		Sections: []domain.ReportSection{{
			Title:   "Sales by Date",
			Headers: []string{"Day", "Tickets", "Revenue"},
			Widths:  []float64{1, 1, 1},
			Rows:    rows,
		}},
	}
}

func allTimeDocument(r *domain.AllTimeReport) *domain.ReportDocument {
	orderRows := make([][]string, 0, len(r.OrdersData))
	for _, o := range r.OrdersData {
		orderRows = append(orderRows, []string{
			o.Date, o.ID, o.Status, strconv.Itoa(o.Tickets), money(o.Amount),
		})
	}
	eventRows := make([][]string, 0, len(r.EventSummary))
	for _, e := range r.EventSummary {
		eventRows = append(eventRows, []string{
			e.Name,
			strconv.Itoa(e.Orders),
			strconv.Itoa(e.ConfirmedOrders),
			strconv.Itoa(e.TicketsSold),
			money(e.Revenue),
			percent(e.OccupancyPercentage),
		})
	}
	return &domain.ReportDocument{
		Title: "All-Time Sales Report",
		Summary: [][2]string{
			{"Total orders", strconv.Itoa(r.TotalOrders)},
			{"Confirmed orders", strconv.Itoa(r.ConfirmedOrders)},
			{"Tickets sold", strconv.Itoa(r.TicketsSold)},
			{"Revenue", money(r.Revenue)},
			{"Occupancy", percent(r.OccupancyPercentage)},
		},
		Sections: []domain.ReportSection{
			{
				Title:   "Orders",
				Headers: []string{"Date", "Order", "Status", "Tickets", "Amount"},
				Widths:  []float64{1.2, 2, 1, 0.8, 1},
				Rows:    orderRows,
			},
			{
				Title:   "Event Summary",
				Headers: []string{"Event", "Orders", "Confirmed", "Tickets", "Revenue", "Occupancy"},
				Widths:  []float64{2.4, 0.8, 1, 0.8, 1, 1},
				Rows:    eventRows,
			},
		},
	}
}
