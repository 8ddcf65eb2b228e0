package storefront

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/wayfarerhq/storefront/internal/currency"
	"github.com/wayfarerhq/storefront/internal/domain"
	"github.com/wayfarerhq/storefront/internal/service"
)

// ProductHandler serves the excursion catalog.
type ProductHandler struct {
	products  service.ProductService
	converter *currency.Converter
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(products service.ProductService, converter *currency.Converter) *ProductHandler {
	return &ProductHandler{products: products, converter: converter}
}

// excursionView is the listing/detail payload. Base-currency prices ride
// along with the formatted display price so the front end never converts.
type excursionView struct {
	ID              string   `json:"id"`
	Handle          string   `json:"handle"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DescriptionHTML string   `json:"description_html,omitempty"`
	Price           string   `json:"price"`
	OriginalPrice   string   `json:"original_price,omitempty"`
	DisplayPrice    string   `json:"display_price"`
	DisplayOriginal string   `json:"display_original_price,omitempty"`
	Currency        string   `json:"currency"`
	Images          []string `json:"images"`
	Location        string   `json:"location"`
	Duration        string   `json:"duration"`
	Rating          float64  `json:"rating"`
	ReviewsCount    int      `json:"reviews_count"`
	GroupSize       string   `json:"group_size"`

	Variants []variantView `json:"variants"`
}

type variantView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Available bool   `json:"available"`
}

// List handles GET /api/excursions.
// Query params: location, min_price, max_price, sort, currency.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ExcursionFilter{
		Location: q.Get("location"),
		Sort:     domain.ExcursionSort(q.Get("sort")),
	}
	if raw := q.Get("min_price"); raw != "" {
		min, err := decimal.NewFromString(raw)
		if err != nil {
			respondError(w, r, domain.Invalid("excursions.list", "min_price must be a number"))
			return
		}
		filter.MinPrice = &min
	}
	if raw := q.Get("max_price"); raw != "" {
		max, err := decimal.NewFromString(raw)
		if err != nil {
			respondError(w, r, domain.Invalid("excursions.list", "max_price must be a number"))
			return
		}
		filter.MaxPrice = &max
	}

	code, err := h.displayCurrency(q.Get("currency"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	excursions, err := h.products.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]excursionView, 0, len(excursions))
	for i := range excursions {
		view, err := h.view(&excursions[i], code)
		if err != nil {
			respondError(w, r, err)
			return
		}
		views = append(views, view)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"excursions": views})
}

// Detail handles GET /api/excursions/{id}.
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	code, err := h.displayCurrency(r.URL.Query().Get("currency"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	excursion, err := h.products.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	view, err := h.view(excursion, code)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"excursion": view})
}

// displayCurrency validates the requested currency, defaulting to base.
func (h *ProductHandler) displayCurrency(code string) (string, error) {
	if code == "" {
		return h.converter.Base(), nil
	}
	if _, err := h.converter.Lookup(code); err != nil {
		return "", err
	}
	return code, nil
}

func (h *ProductHandler) view(e *domain.Excursion, code string) (excursionView, error) {
	display, err := h.converter.Convert(e.Price, code)
	if err != nil {
		return excursionView{}, err
	}
	formatted, err := h.converter.Format(display, code)
	if err != nil {
		return excursionView{}, err
	}

	view := excursionView{
		ID:              e.ID,
		Handle:          e.Handle,
		Title:           e.Title,
		Description:     e.Description,
		DescriptionHTML: e.DescriptionHTML,
		Price:           e.Price.StringFixed(2),
		DisplayPrice:    formatted,
		Currency:        code,
		Images:          e.Images,
		Location:        e.Location,
		Duration:        e.Duration,
		Rating:          e.Rating,
		ReviewsCount:    e.ReviewsCount,
		GroupSize:       e.GroupSize,
		Variants:        make([]variantView, 0, len(e.Variants)),
	}

	if e.OriginalPrice != nil {
		view.OriginalPrice = e.OriginalPrice.StringFixed(2)
		displayOrig, err := h.converter.Convert(*e.OriginalPrice, code)
		if err != nil {
			return excursionView{}, err
		}
		if view.DisplayOriginal, err = h.converter.Format(displayOrig, code); err != nil {
			return excursionView{}, err
		}
	}

	for _, v := range e.Variants {
		view.Variants = append(view.Variants, variantView{
			ID:        v.ID,
			Title:     v.Title,
			Price:     v.Price.StringFixed(2),
			Available: v.Available,
		})
	}

	return view, nil
}
