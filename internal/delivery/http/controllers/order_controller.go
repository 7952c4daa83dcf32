package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"stagepass/internal/delivery/http/helpers"
	"stagepass/internal/delivery/http/middleware"
	"stagepass/internal/domain"
)

// PlaceOrderRequest is the request body for POST /orders.
type PlaceOrderRequest struct {
	EventID string              `json:"event_id"`
	Tickets []domain.TicketLine `json:"tickets"`
}

// Validate implements Validator.
func (p PlaceOrderRequest) Validate() []string {
	var errs []string
	if p.EventID == "" {
		errs = append(errs, "event_id is required")
	}
	if len(p.Tickets) == 0 {
		errs = append(errs, "tickets is required")
	}
	for _, t := range p.Tickets {
		if t.Quantity <= 0 {
			errs = append(errs, "ticket quantity must be positive")
			break
		}
	}
	for _, t := range p.Tickets {
		if t.Price < 0 {
			errs = append(errs, "ticket price must not be negative")
			break
		}
	}
	return errs
}

type OrderController struct {
	Logger  *slog.Logger
	Service domain.OrderService
}

func NewOrderController(logger *slog.Logger, svc domain.OrderService) *OrderController {
	return &OrderController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *OrderController) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "order or event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrSoldOut):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "not enough seats available")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// PlaceOrder godoc
// @Summary Place a ticket order
// @Description Places a pending order for an approved event. Seats are reserved atomically; ordering more seats than remain available fails with conflict.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PlaceOrderRequest true "Order data"
// @Success 201 {object} helpers.APIResponse "data contains the created order"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (sold out)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /orders [post]
func (c *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	order, err := c.Service.PlaceOrder(r.Context(), p.UserID, req.EventID, req.Tickets)
	if err != nil {
		c.writeOrderError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, order)
}

// ConfirmOrder godoc
// @Summary Confirm a pending order
// @Description Confirms the caller's pending order and sends the confirmation email. Only confirmed orders count toward sales reports.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param orderID path string true "Order ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the confirmed order"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (not pending)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /orders/{orderID}/confirm [post]
func (c *OrderController) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderID")
	if orderID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing orderID")
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	order, err := c.Service.ConfirmOrder(r.Context(), orderID, p.UserID)
	if err != nil {
		c.writeOrderError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, order)
}

// CancelOrder godoc
// @Summary Cancel an order
// @Description Cancels the caller's order, releases its seats, and notifies waiting users that seats opened up.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param orderID path string true "Order ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the cancelled order"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (already cancelled)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /orders/{orderID}/cancel [post]
func (c *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderID")
	if orderID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing orderID")
		return
	}
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	order, err := c.Service.CancelOrder(r.Context(), orderID, p.UserID)
	if err != nil {
		c.writeOrderError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, order)
}

// ListMyOrders godoc
// @Summary List the caller's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the orders"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /orders [get]
func (c *OrderController) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	orders, err := c.Service.ListMyOrders(r.Context(), p.UserID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, orders)
}
