package storefront

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/wayfarerhq/storefront/internal/domain"
	"github.com/wayfarerhq/storefront/internal/middleware"
	"github.com/wayfarerhq/storefront/internal/service"
	"github.com/wayfarerhq/storefront/internal/telemetry"
)

// CartHandler manages the visitor's cart.
type CartHandler struct {
	carts   service.CartService
	metrics *telemetry.BookingMetrics
}

// NewCartHandler creates a CartHandler. metrics may be nil.
func NewCartHandler(carts service.CartService, metrics *telemetry.BookingMetrics) *CartHandler {
	return &CartHandler{carts: carts, metrics: metrics}
}

// cartView is the cart payload shared by every cart response.
type cartView struct {
	Lines            []cartLineView `json:"lines"`
	ItemCount        int            `json:"item_count"`
	Subtotal         string         `json:"subtotal"`
	DisplayCurrency  string         `json:"display_currency,omitempty"`
	DisplaySubtotal  string         `json:"display_subtotal,omitempty"`
	DisplayFormatted string         `json:"display_formatted,omitempty"`
}

type cartLineView struct {
	VariantID        string            `json:"variant_id"`
	ProductID        string            `json:"product_id"`
	Title            string            `json:"title"`
	Price            string            `json:"price"`
	Image            string            `json:"image"`
	Quantity         int               `json:"quantity"`
	CustomAttributes map[string]string `json:"custom_attributes,omitempty"`
}

func newCartView(cart *domain.Cart) cartView {
	view := cartView{
		Lines:     make([]cartLineView, 0, len(cart.Lines)),
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal().StringFixed(2),
	}
	for _, l := range cart.Lines {
		view.Lines = append(view.Lines, cartLineView{
			VariantID:        l.VariantID,
			ProductID:        l.ProductID,
			Title:            l.Title,
			Price:            l.Price.StringFixed(2),
			Image:            l.Image,
			Quantity:         l.Quantity,
			CustomAttributes: l.CustomAttributes,
		})
	}
	return view
}

// View handles GET /api/cart. The optional currency query param converts the
// subtotal for display.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	summary, err := h.carts.Summary(r.Context(), sessionID, r.URL.Query().Get("currency"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	view := newCartView(summary.Cart)
	view.DisplayCurrency = summary.DisplayCurrency
	view.DisplaySubtotal = summary.DisplaySubtotal.StringFixed(2)
	view.DisplayFormatted = summary.DisplayFormatted

	respondJSON(w, http.StatusOK, map[string]interface{}{"cart": view})
}

// addItemRequest is the add-to-cart body. Price is the base-currency unit
// price snapshot captured at add time.
type addItemRequest struct {
	VariantID        string            `json:"variant_id" validate:"required"`
	ProductID        string            `json:"product_id" validate:"required"`
	Title            string            `json:"title" validate:"required"`
	Price            decimal.Decimal   `json:"price"`
	Image            string            `json:"image"`
	Quantity         int               `json:"quantity" validate:"gte=1"`
	CustomAttributes map[string]string `json:"custom_attributes"`
}

// Add handles POST /api/cart/items.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := checkStruct("cart.add", req); err != nil {
		respondError(w, r, err)
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	cart, err := h.carts.AddItem(r.Context(), sessionID, service.AddItemInput{
		VariantID:        req.VariantID,
		ProductID:        req.ProductID,
		Title:            req.Title,
		Price:            req.Price,
		Image:            req.Image,
		Quantity:         req.Quantity,
		CustomAttributes: req.CustomAttributes,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.metrics.BookingAdded()
	respondJSON(w, http.StatusOK, map[string]interface{}{"cart": newCartView(cart)})
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// Update handles PUT /api/cart/items/{variant_id}. Quantity zero removes
// the line.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := checkStruct("cart.update", req); err != nil {
		respondError(w, r, err)
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	variantID := r.PathValue("variant_id")

	var (
		cart *domain.Cart
		err  error
	)
	if req.Quantity == 0 {
		cart, err = h.carts.RemoveItem(r.Context(), sessionID, variantID)
	} else {
		cart, err = h.carts.UpdateQuantity(r.Context(), sessionID, variantID, req.Quantity)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"cart": newCartView(cart)})
}

// Remove handles DELETE /api/cart/items/{variant_id}. Idempotent.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	cart, err := h.carts.RemoveItem(r.Context(), sessionID, r.PathValue("variant_id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"cart": newCartView(cart)})
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	if err := h.carts.Clear(r.Context(), sessionID); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
