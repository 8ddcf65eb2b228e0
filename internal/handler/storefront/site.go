package storefront

import (
	"net/http"
)

// SiteHandler exposes the public runtime values the front end needs before it
// can render: the bot-verification site key and the inquiry phone number.
// Secrets never go through here.
type SiteHandler struct {
	botSiteKey    string
	contactNumber string
	baseCurrency  string
}

// NewSiteHandler creates a SiteHandler.
func NewSiteHandler(botSiteKey, contactNumber, baseCurrency string) *SiteHandler {
	return &SiteHandler{
		botSiteKey:    botSiteKey,
		contactNumber: contactNumber,
		baseCurrency:  baseCurrency,
	}
}

// Config handles GET /api/config.
func (h *SiteHandler) Config(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"bot_site_key":   h.botSiteKey,
		"contact_number": h.contactNumber,
		"base_currency":  h.baseCurrency,
	})
}
