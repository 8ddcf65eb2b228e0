package storefront

import (
	"net/http"

	"github.com/wayfarerhq/storefront/internal/domain"
	"github.com/wayfarerhq/storefront/internal/middleware"
	"github.com/wayfarerhq/storefront/internal/service"
)

// CheckoutHandler hands the cart off to the platform's hosted checkout.
type CheckoutHandler struct {
	checkout service.CheckoutService
}

// NewCheckoutHandler creates a CheckoutHandler.
func NewCheckoutHandler(checkout service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type beginCheckoutRequest struct {
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,max=32"`
	DisplayCurrency string `json:"display_currency" validate:"omitempty,len=3"`
}

// Begin handles POST /api/checkout. On success the response carries the
// hosted checkout URL the front end redirects to. Payment itself happens
// off-site.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	var req beginCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := checkStruct("checkout.begin", req); err != nil {
		respondError(w, r, err)
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	buyer := domain.Buyer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}

	result, err := h.checkout.Begin(r.Context(), sessionID, buyer, req.DisplayCurrency)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"checkout_url": result.CheckoutURL,
		"cart_id":      result.RemoteCartID,
	})
}
