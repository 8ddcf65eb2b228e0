package storefront

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wayfarerhq/storefront/internal/domain"
	"github.com/wayfarerhq/storefront/internal/middleware"
	"github.com/wayfarerhq/storefront/internal/service"
)

// OrderHandler serves the order history projection and the post-checkout
// confirmation snapshot.
type OrderHandler struct {
	orders service.OrderService
	carts  service.CartService
}

// NewOrderHandler creates an OrderHandler.
func NewOrderHandler(orders service.OrderService, carts service.CartService) *OrderHandler {
	return &OrderHandler{orders: orders, carts: carts}
}

type orderView struct {
	OrderNumber   int             `json:"order_number"`
	ProcessedAt   string          `json:"processed_at"`
	Status        string          `json:"status"`
	Total         string          `json:"total"`
	Currency      string          `json:"currency"`
	Lines         []orderLineView `json:"lines"`
}

type orderLineView struct {
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Image    string `json:"image"`
}

func newOrderView(o domain.Order) orderView {
	view := orderView{
		OrderNumber: o.OrderNumber,
		ProcessedAt: o.ProcessedAt.Format(time.RFC3339),
		Status:      o.DisplayStatus(),
		Total:       o.Total.StringFixed(2),
		Currency:    o.Currency,
		Lines:       make([]orderLineView, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		view.Lines = append(view.Lines, orderLineView{
			Title:    l.Title,
			Quantity: l.Quantity,
			Price:    l.Price.StringFixed(2),
			Image:    l.Image,
		})
	}
	return view
}

// History handles GET /api/orders?first=&after=. Requires authentication.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	first := 0
	if raw := r.URL.Query().Get("first"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, r, domain.Invalid("orders.history", "first must be a positive number"))
			return
		}
		first = n
	}

	page, err := h.orders.History(r.Context(), sessionID, first, r.URL.Query().Get("after"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]orderView, 0, len(page.Orders))
	for _, o := range page.Orders {
		views = append(views, newOrderView(o))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders":        views,
		"has_next_page": page.HasNextPage,
		"end_cursor":    page.EndCursor,
	})
}

// stageOrderRequest is the snapshot the front end stages before redirecting
// to hosted checkout, so the confirmation view can render without a platform
// round-trip.
type stageOrderRequest struct {
	OrderNumber int              `json:"order_number"`
	Total       decimal.Decimal  `json:"total"`
	Currency    string           `json:"currency" validate:"required,len=3"`
	Lines       []stageOrderLine `json:"lines" validate:"required,min=1,dive"`
}

type stageOrderLine struct {
	Title    string          `json:"title" validate:"required"`
	Quantity int             `json:"quantity" validate:"gte=1"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

// Stage handles POST /api/orders/staged.
func (h *OrderHandler) Stage(w http.ResponseWriter, r *http.Request) {
	var req stageOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if err := checkStruct("orders.stage", req); err != nil {
		respondError(w, r, err)
		return
	}

	order := domain.Order{
		OrderNumber: req.OrderNumber,
		ProcessedAt: time.Now().UTC(),
		Total:       req.Total,
		Currency:    req.Currency,
		Lines:       make([]domain.OrderLine, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			Title:    l.Title,
			Quantity: l.Quantity,
			Price:    l.Price,
			Image:    l.Image,
		})
	}

	sessionID := middleware.GetSessionID(r.Context())
	if err := h.orders.Stage(r.Context(), sessionID, order); err != nil {
		respondError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Confirmation handles GET /api/orders/confirmation. Pops the staged
// snapshot and clears the cart: the visitor coming back from hosted checkout
// starts fresh. Without a staged snapshot it returns 404; the front end
// falls back to order history.
func (h *OrderHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	order, err := h.orders.TakeStaged(r.Context(), sessionID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if order == nil {
		respondError(w, r, domain.Errorf(domain.ENOTFOUND, "orders.confirmation", "No order to confirm"))
		return
	}

	if err := h.carts.Clear(r.Context(), sessionID); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"order": newOrderView(*order)})
}
