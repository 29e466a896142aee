package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/WasepSKT/commerce-web-sub003/internal/checkout"
	"github.com/WasepSKT/commerce-web-sub003/internal/payment"
)

type CheckoutService interface {
	Quote(ctx context.Context, userID string) (*checkout.Quote, error)
	Checkout(ctx context.Context, req *checkout.CheckoutRequest) (*checkout.CheckoutResponse, error)
}

type CheckoutHandler struct {
	service CheckoutService
	timeout time.Duration
}

func NewCheckoutHandler(service CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		timeout: timeout,
	}
}

type CheckoutRequestDTO struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Method    string `json:"payment_method"`
	Channel   string `json:"payment_channel"`
	ReturnURL string `json:"return_url"`
}

// GET /api/v1/checkout/quote
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	quote, err := h.service.Quote(ctx, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to price cart")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Name == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_customer", "name and email are required")
		return
	}

	selection := payment.Selection{
		Method:  payment.Method(req.Method),
		Channel: req.Channel,
	}
	if err := selection.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_payment_method", err.Error())
		return
	}

	resp, err := h.service.Checkout(ctx, &checkout.CheckoutRequest{
		UserID: userID,
		Customer: payment.Customer{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		},
		Selection: selection,
		ReturnURL: req.ReturnURL,
	})
	if errors.Is(err, checkout.ErrEmptyCart) {
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
		return
	}
	if err != nil {
		// gateway refusals carry the gateway's own message
		respondError(w, http.StatusBadGateway, "payment_session_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}
