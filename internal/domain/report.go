package domain

import (
	"context"
	"io"
)

// Report kinds accepted by the sales report endpoints.
const (
	ReportKindDaily   = "daily"
	ReportKindWeekly  = "weekly"
	ReportKindMonthly = "monthly"
	ReportKindAll     = "all"
)

// Auditorium report kinds.
const (
	AuditoriumReportSchedule   = "schedule"
	AuditoriumReportEventsHeld = "events-held"
	AuditoriumReportUtilize    = "utilization"
	AuditoriumReportAll        = "all"
)

// HourBucket is one hour-of-day sales bucket of a daily report.
type HourBucket struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// HourRevenueBucket is one hour-of-day revenue bucket of a daily report.
type HourRevenueBucket struct {
	Hour   int     `json:"hour"`
	Amount float64 `json:"amount"`
}

// DailyReport is the transient daily sales report. Never persisted.
// swagger:model DailyReport
type DailyReport struct {
	Date                string              `json:"date"`
	TicketsSold         int                 `json:"ticketsSold"`
	Revenue             float64             `json:"revenue"`
	OccupancyPercentage float64             `json:"occupancyPercentage"`
	SalesData           []HourBucket        `json:"salesData"`
	RevenueData         []HourRevenueBucket `json:"revenueData"`
}

// DayBucket is one named-day sales bucket of a weekly report (Monday first).
type DayBucket struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// DayRevenueBucket is one named-day revenue bucket of a weekly report.
type DayRevenueBucket struct {
	Day    string  `json:"day"`
	Amount float64 `json:"amount"`
}

// WeeklyReport is the transient weekly sales report keyed by weekday name.
// swagger:model WeeklyReport
type WeeklyReport struct {
	From                string             `json:"from"`
	To                  string             `json:"to"`
	TicketsSold         int                `json:"ticketsSold"`
	Revenue             float64            `json:"revenue"`
	OccupancyPercentage float64            `json:"occupancyPercentage"`
	SalesData           []DayBucket        `json:"salesData"`
	RevenueData         []DayRevenueBucket `json:"revenueData"`
}

// DateBucket is one day-of-month sales bucket of a monthly report.
type DateBucket struct {
	Day   int `json:"day"`
	Count int `json:"count"`
}

// DateRevenueBucket is one day-of-month revenue bucket of a monthly report.
type DateRevenueBucket struct {
	Day    int     `json:"day"`
	Amount float64 `json:"amount"`
}

// MonthlyReport is the transient monthly sales report with one bucket per
// calendar day of the month.
// swagger:model MonthlyReport
type MonthlyReport struct {
	Month               string              `json:"month"`
	TicketsSold         int                 `json:"ticketsSold"`
	Revenue             float64             `json:"revenue"`
	OccupancyPercentage float64             `json:"occupancyPercentage"`
	SalesData           []DateBucket        `json:"salesData"`
	RevenueData         []DateRevenueBucket `json:"revenueData"`
}

// OrderRecord is one order row of the all-time report.
type OrderRecord struct {
	ID      string  `json:"id"`
	EventID string  `json:"eventId"`
	Status  string  `json:"status"`
	Tickets int     `json:"tickets"`
	Amount  float64 `json:"amount"`
	Date    string  `json:"date"`
}

// EventSummary is the per-event rollup of the all-time report.
type EventSummary struct {
	EventID             string  `json:"eventId"`
	Name                string  `json:"name"`
	Orders              int     `json:"orders"`
	ConfirmedOrders     int     `json:"confirmedOrders"`
	TicketsSold         int     `json:"ticketsSold"`
	Revenue             float64 `json:"revenue"`
	OccupancyPercentage float64 `json:"occupancyPercentage"`
}

// AllTimeReport is the transient all-time sales report. Unlike the other
// kinds it distinguishes "no events for this owner" (insufficient data)
// from "events exist but zero orders" (zero-filled report).
// swagger:model AllTimeReport
type AllTimeReport struct {
	TotalOrders         int                `json:"totalOrders"`
	ConfirmedOrders     int                `json:"confirmedOrders"`
	TicketsSold         int                `json:"ticketsSold"`
	Revenue             float64            `json:"revenue"`
	OccupancyPercentage float64            `json:"occupancyPercentage"`
	OrdersData          []OrderRecord      `json:"ordersData"`
	OrdersByDate        map[string]int     `json:"ordersByDate"`
	EventSummary        []EventSummary     `json:"eventSummary"`
	OccupancyByDate     map[string]float64 `json:"occupancyByDate"`
}

// ReportService builds sales reports scoped to the requesting principal.
type ReportService interface {
	Daily(ctx context.Context, p Principal, date string) (*DailyReport, error)
	Weekly(ctx context.Context, p Principal) (*WeeklyReport, error)
	Monthly(ctx context.Context, p Principal, date string) (*MonthlyReport, error)
	AllTime(ctx context.Context, p Principal) (*AllTimeReport, error)
	// RenderPDF writes the report of the given kind as a PDF byte stream.
	RenderPDF(ctx context.Context, w io.Writer, p Principal, kind, date string) error
}

// ScheduleEntry is one auditorium booking row of the admin schedule report.
type ScheduleEntry struct {
	ScheduleID string  `json:"scheduleId"`
	EventID    string  `json:"eventId"`
	EventName  string  `json:"eventName"`
	BookedBy   string  `json:"bookedBy"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Hours      float64 `json:"hours"`
}

// EventHeldEntry is one row of the admin events-held report.
type EventHeldEntry struct {
	EventID             string  `json:"eventId"`
	Name                string  `json:"name"`
	Date                string  `json:"date"`
	Location            string  `json:"location"`
	TotalSeats          int     `json:"totalSeats"`
	OccupancyPercentage float64 `json:"occupancyPercentage"`
}

// AuditoriumReportService builds auditorium schedule/utilization reports.
type AuditoriumReportService interface {
	Schedule(ctx context.Context, from, to string) ([]*ScheduleEntry, error)
	EventsHeld(ctx context.Context, from, to string) ([]*EventHeldEntry, error)
	Utilization(ctx context.Context, from, to string) ([]*Utilization, error)
	RenderPDF(ctx context.Context, w io.Writer, kind, from, to string) error
}

// ReportSection is one table of a rendered report document.
type ReportSection struct {
	Title   string
	Headers []string
	// Widths are relative column weights; the renderer scales them to the
	// printable width. Empty means equal columns.
	Widths []float64
	Rows   [][]string
}

// ReportDocument is the layout-ready form of a report handed to the renderer.
type ReportDocument struct {
	Title    string
	Summary  [][2]string
	Notes    []string
	Sections []ReportSection
}

// ReportRenderer renders a ReportDocument to a byte stream (e.g. PDF).
// Implementations must stop producing output when ctx is cancelled and must
// not write to w after that.
type ReportRenderer interface {
	Render(ctx context.Context, w io.Writer, doc *ReportDocument) error
}
