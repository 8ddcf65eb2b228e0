package storefront

import (
	"net/http"

	"github.com/wayfarerhq/storefront/internal/currency"
)

// CurrencyHandler exposes the supported display currencies.
type CurrencyHandler struct {
	converter *currency.Converter
}

// NewCurrencyHandler creates a CurrencyHandler.
func NewCurrencyHandler(converter *currency.Converter) *CurrencyHandler {
	return &CurrencyHandler{converter: converter}
}

// List handles GET /api/currencies. The set is fixed at build time; the
// front end renders its currency picker from this.
func (h *CurrencyHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"base":       h.converter.Base(),
		"currencies": h.converter.Supported(),
	})
}
