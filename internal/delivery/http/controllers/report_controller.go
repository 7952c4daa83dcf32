package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"stagepass/internal/delivery/http/helpers"
	"stagepass/internal/delivery/http/middleware"
	"stagepass/internal/domain"
)

// InsufficientDataResponse is returned with status 200 when a report has no
// data to aggregate. Not an error condition.
type InsufficientDataResponse struct {
	Message string `json:"message"`
}

const insufficientDataMessage = "Insufficient data to generate this report"

type ReportController struct {
	Logger  *slog.Logger
	Service domain.ReportService
}

func NewReportController(logger *slog.Logger, svc domain.ReportService) *ReportController {
	return &ReportController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *ReportController) writeReportError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		helpers.WriteJSONSuccess(w, http.StatusOK, InsufficientDataResponse{Message: insufficientDataMessage})
	case errors.Is(err, domain.ErrInvalidDate):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid date format, expected YYYY-MM-DD")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "reports require the eventOrganizer or admin role")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// Daily godoc
// @Summary Daily sales report
// @Description Aggregates confirmed orders for one day into 24 hourly buckets. Organizers see only their own events; admins see all.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param date query string false "Report day (YYYY-MM-DD, default today)"
// @Success 200 {object} helpers.APIResponse "data contains the daily report, or a message when there is insufficient data"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid date)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reports/daily [get]
func (c *ReportController) Daily(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	report, err := c.Service.Daily(r.Context(), p, r.URL.Query().Get("date"))
	if err != nil {
		c.writeReportError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

// Weekly godoc
// @Summary Weekly sales report
// @Description Aggregates confirmed orders over the last 7 days into weekday buckets, Monday first.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the weekly report, or a message when there is insufficient data"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reports/weekly [get]
func (c *ReportController) Weekly(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	report, err := c.Service.Weekly(r.Context(), p)
	if err != nil {
		c.writeReportError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

// Monthly godoc
// @Summary Monthly sales report
// @Description Aggregates confirmed orders for the month of the given date into one bucket per calendar day.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param date query string false "Any day of the report month (YYYY-MM-DD, default today)"
// @Success 200 {object} helpers.APIResponse "data contains the monthly report, or a message when there is insufficient data"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid date)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reports/monthly [get]
func (c *ReportController) Monthly(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	report, err := c.Service.Monthly(r.Context(), p, r.URL.Query().Get("date"))
	if err != nil {
		c.writeReportError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

// AllTime godoc
// @Summary All-time sales report
// @Description Aggregates every order since the platform epoch with per-event rollups. Owners with events but zero orders get a zero-filled report.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the all-time report, or a message when there is insufficient data"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reports/all [get]
func (c *ReportController) AllTime(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	report, err := c.Service.AllTime(r.Context(), p)
	if err != nil {
		c.writeReportError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

// Download godoc
// @Summary Download a sales report as PDF
// @Description Renders the report of the given type to a PDF attachment.
// @Tags reports
// @Produce application/pdf
// @Security BearerAuth
// @Param type query string true "Report type: daily, weekly, monthly, or all"
// @Param date query string false "Report date (YYYY-MM-DD, daily/monthly only)"
// @Success 200 {file} file "PDF document"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /reports/download [get]
func (c *ReportController) Download(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	kind := r.URL.Query().Get("type")
	switch kind {
	case domain.ReportKindDaily, domain.ReportKindWeekly, domain.ReportKindMonthly, domain.ReportKindAll:
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "type must be daily, weekly, monthly, or all")
		return
	}

	filename := fmt.Sprintf("sales-report-%s-%s.pdf", kind, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := c.Service.RenderPDF(r.Context(), w, p, kind, r.URL.Query().Get("date")); err != nil {
		// Headers may already be out; reset them only if nothing was written.
		w.Header().Del("Content-Disposition")
		w.Header().Set("Content-Type", "application/json")
		c.writeReportError(w, r, err)
		return
	}
}
