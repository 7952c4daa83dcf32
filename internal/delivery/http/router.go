package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"stagepass/internal/delivery/http/controllers"
	"stagepass/internal/delivery/http/middleware"
	"stagepass/internal/domain"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth       *controllers.AuthController
	Event      *controllers.EventController
	Order      *controllers.OrderController
	Waitlist   *controllers.WaitlistController
	Schedule   *controllers.ScheduleController
	Report     *controllers.ReportController
	Auditorium *controllers.AuditoriumController
	Upload     *controllers.UploadController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	adminOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(h))
	}
	reporting := func(h http.HandlerFunc) http.HandlerFunc {
		// Reports are for organizers and admins; plain users are rejected
		// inside the service with ErrForbidden.
		return auth(h)
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Event catalog
	mux.HandleFunc("GET /events", c.Event.ListEvents)
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events/mine", auth(c.Event.ListMyEvents))
	mux.HandleFunc("GET /events/{eventID}", c.Event.GetEventByID)
	mux.HandleFunc("PATCH /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.DeleteEvent))
	mux.HandleFunc("PATCH /events/{eventID}/approval", adminOnly(c.Event.ApproveEvent))

	// Event images
	mux.HandleFunc("POST /events/{eventID}/image", auth(c.Upload.UploadImage))
	mux.HandleFunc("DELETE /events/{eventID}/image", auth(c.Upload.DeleteImage))

	// Waiting list
	mux.HandleFunc("POST /events/{eventID}/waitlist", auth(c.Waitlist.Join))
	mux.HandleFunc("DELETE /events/{eventID}/waitlist", auth(c.Waitlist.Leave))
	mux.HandleFunc("GET /events/{eventID}/waitlist", auth(c.Waitlist.MyPosition))

	// Orders
	mux.HandleFunc("POST /orders", auth(c.Order.PlaceOrder))
	mux.HandleFunc("GET /orders", auth(c.Order.ListMyOrders))
	mux.HandleFunc("POST /orders/{orderID}/confirm", auth(c.Order.ConfirmOrder))
	mux.HandleFunc("POST /orders/{orderID}/cancel", auth(c.Order.CancelOrder))

	// Auditorium booking
	mux.HandleFunc("GET /auditorium/schedule", auth(c.Schedule.ListSlots))
	mux.HandleFunc("POST /auditorium/schedule", auth(c.Schedule.BookSlot))
	mux.HandleFunc("DELETE /auditorium/schedule/{scheduleID}", auth(c.Schedule.CancelSlot))

	// Sales reports
	mux.HandleFunc("GET /reports/daily", reporting(c.Report.Daily))
	mux.HandleFunc("GET /reports/weekly", reporting(c.Report.Weekly))
	mux.HandleFunc("GET /reports/monthly", reporting(c.Report.Monthly))
	mux.HandleFunc("GET /reports/all", reporting(c.Report.AllTime))
	mux.HandleFunc("GET /reports/download", reporting(c.Report.Download))

	// Admin auditorium reports
	mux.HandleFunc("GET /admin/schedule", adminOnly(c.Auditorium.Schedule))
	mux.HandleFunc("GET /admin/events-held", adminOnly(c.Auditorium.EventsHeld))
	mux.HandleFunc("GET /admin/utilization", adminOnly(c.Auditorium.Utilization))
	mux.HandleFunc("GET /admin/auditorium/download-report", adminOnly(c.Auditorium.DownloadReport))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
