package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"stagepass/internal/delivery/http/helpers"
	"stagepass/internal/domain"
)

type AuditoriumController struct {
	Logger  *slog.Logger
	Service domain.AuditoriumReportService
}

func NewAuditoriumController(logger *slog.Logger, svc domain.AuditoriumReportService) *AuditoriumController {
	return &AuditoriumController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *AuditoriumController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientData):
		helpers.WriteJSONSuccess(w, http.StatusOK, InsufficientDataResponse{Message: insufficientDataMessage})
	case errors.Is(err, domain.ErrInvalidDate):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid date format, expected YYYY-MM-DD")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// Schedule godoc
// @Summary Auditorium schedule report
// @Description Lists upcoming auditorium bookings. Missing from/to default to the next 30 days. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data contains schedule entries"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid date)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/schedule [get]
func (c *AuditoriumController) Schedule(w http.ResponseWriter, r *http.Request) {
	entries, err := c.Service.Schedule(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, entries)
}

// EventsHeld godoc
// @Summary Events held report
// @Description Lists events held in the auditorium. Missing from/to default to the last 30 days. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data contains events-held entries"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid date)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events-held [get]
func (c *AuditoriumController) EventsHeld(w http.ResponseWriter, r *http.Request) {
	entries, err := c.Service.EventsHeld(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, entries)
}

// Utilization godoc
// @Summary Auditorium utilization report
// @Description Per-day utilization with backfill of missing or zero cached values. Missing from/to default to the current month to date. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data contains per-day utilization records"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid date)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/utilization [get]
func (c *AuditoriumController) Utilization(w http.ResponseWriter, r *http.Request) {
	records, err := c.Service.Utilization(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, records)
}

// DownloadReport godoc
// @Summary Download an auditorium report as PDF
// @Description Renders schedule, events-held, utilization, or all three sections to a PDF attachment. Admin only.
// @Tags admin
// @Produce application/pdf
// @Security BearerAuth
// @Param type query string true "Report type: schedule, events-held, utilization, or all"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {file} file "PDF document"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/auditorium/download-report [get]
func (c *AuditoriumController) DownloadReport(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("type")
	switch kind {
	case domain.AuditoriumReportSchedule, domain.AuditoriumReportEventsHeld, domain.AuditoriumReportUtilize, domain.AuditoriumReportAll:
	default:
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "type must be schedule, events-held, utilization, or all")
		return
	}

	filename := fmt.Sprintf("auditorium-report-%s-%s.pdf", kind, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := c.Service.RenderPDF(r.Context(), w, kind, r.URL.Query().Get("from"), r.URL.Query().Get("to")); err != nil {
		w.Header().Del("Content-Disposition")
		w.Header().Set("Content-Type", "application/json")
		c.writeError(w, r, err)
		return
	}
}
