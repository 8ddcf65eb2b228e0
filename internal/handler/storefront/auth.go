package storefront

import (
	"net/http"
	"time"

	"github.com/wayfarerhq/storefront/internal/currency"
	"github.com/wayfarerhq/storefront/internal/middleware"
	"github.com/wayfarerhq/storefront/internal/service"
)

// AuthHandler manages customer sign-in state.
type AuthHandler struct {
	auth      service.AuthService
	carts     service.CartService
	converter *currency.Converter
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth service.AuthService, carts service.CartService, converter *currency.Converter) *AuthHandler {
	return &AuthHandler{auth: auth, carts: carts, converter: converter}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login. Platform rejections pass through
// verbatim with 401; there is no retry.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := checkStruct("auth.login", req); err != nil {
		respondError(w, r, err)
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	session, err := h.auth.Login(r.Context(), sessionID, req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"email":         session.Email,
		"expires_at":    session.ExpiresAt.Format(time.RFC3339),
	})
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

// Register handles POST /api/auth/register: create the account, then sign in
// with the same credentials. A created account whose chained login failed is
// still a 201; the body says whether a session was established.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := checkStruct("auth.register", req); err != nil {
		respondError(w, r, err)
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	result, err := h.auth.Register(r.Context(), sessionID, service.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"created":       result.Created,
		"authenticated": result.SessionEstablished,
		"message":       result.Message,
	})
}

// Logout handles POST /api/auth/logout. Clears the auth session, the cart
// and any cached order history for this visitor session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	if err := h.auth.Logout(r.Context(), sessionID); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Session handles GET /api/session: the boot call the front end makes to
// restore its state after a reload. One round trip covers auth state, the
// cart summary and the currency picker. Always 200; anonymous is not an
// error.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	session, err := h.auth.Restore(r.Context(), sessionID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	cart, err := h.carts.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	view := map[string]interface{}{
		"authenticated": session.Authenticated(),
		"cart": map[string]interface{}{
			"item_count": cart.ItemCount(),
			"subtotal":   cart.Subtotal().StringFixed(2),
		},
		"base_currency": h.converter.Base(),
		"currencies":    h.converter.Supported(),
	}
	if session.Authenticated() {
		view["email"] = session.Email
	}

	respondJSON(w, http.StatusOK, view)
}
