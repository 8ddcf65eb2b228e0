package storefront

import (
	"net/http"

	"github.com/wayfarerhq/storefront/internal/contact"
)

// ContactHandler relays inquiry-form submissions.
type ContactHandler struct {
	sender contact.Sender
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(sender contact.Sender) *ContactHandler {
	return &ContactHandler{sender: sender}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
	Token   string `json:"token" validate:"required"`
}

// Submit handles POST /api/contact. The bot-verification token is relayed
// untouched; the contact backend verifies it.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := checkStruct("contact.submit", req); err != nil {
		respondError(w, r, err)
		return
	}

	reply, err := h.sender.Send(r.Context(), contact.Message{
		Name:              req.Name,
		Email:             req.Email,
		Message:           req.Message,
		VerificationToken: req.Token,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": reply})
}
