package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"stagepass/internal/delivery/http/helpers"
	"stagepass/internal/delivery/http/middleware"
	"stagepass/internal/domain"
)

// BookSlotRequest is the request body for POST /auditorium/schedule.
type BookSlotRequest struct {
	EventID   string    `json:"event_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Validate implements Validator.
func (b BookSlotRequest) Validate() []string {
	var errs []string
	if b.EventID == "" {
		errs = append(errs, "event_id is required")
	}
	if b.StartTime.IsZero() {
		errs = append(errs, "start_time is required")
	}
	if b.EndTime.IsZero() {
		errs = append(errs, "end_time is required")
	}
	if !b.StartTime.IsZero() && !b.EndTime.IsZero() && !b.EndTime.After(b.StartTime) {
		errs = append(errs, "end_time must be after start_time")
	}
	return errs
}

type ScheduleController struct {
	Logger  *slog.Logger
	Service domain.ScheduleService
}

func NewScheduleController(logger *slog.Logger, svc domain.ScheduleService) *ScheduleController {
	return &ScheduleController{
		Logger:  logger,
		Service: svc,
	}
}

// BookSlot godoc
// @Summary Book an auditorium slot
// @Description Books a usage interval of the shared auditorium for an approved event. Overlapping bookings are rejected with conflict.
// @Tags auditorium
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BookSlotRequest true "Slot data"
// @Success 201 {object} helpers.APIResponse "data contains the booked slot"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slot overlap)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auditorium/schedule [post]
func (c *ScheduleController) BookSlot(w http.ResponseWriter, r *http.Request) {
	var req BookSlotRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	slot, err := c.Service.BookSlot(r.Context(), p, req.EventID, req.StartTime, req.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		case errors.Is(err, domain.ErrScheduleConflict):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "slot overlaps an existing booking")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, slot)
}

// CancelSlot godoc
// @Summary Cancel an auditorium slot
// @Description Cancels a booked slot. Only the booker or an admin may cancel.
// @Tags auditorium
// @Produce json
// @Security BearerAuth
// @Param scheduleID path string true "Schedule ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains status cancelled"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auditorium/schedule/{scheduleID} [delete]
func (c *ScheduleController) CancelSlot(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("scheduleID")
	if scheduleID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing scheduleID")
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.CancelSlot(r.Context(), p, scheduleID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "slot not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// ListSlots godoc
// @Summary List auditorium slots
// @Description Lists booked slots in the given range. Missing from/to default to the next 30 days.
// @Tags auditorium
// @Produce json
// @Security BearerAuth
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data contains the slots"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid date)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auditorium/schedule [get]
func (c *ScheduleController) ListSlots(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	slots, err := c.Service.ListSlots(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid date format, expected YYYY-MM-DD")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, slots)
}
