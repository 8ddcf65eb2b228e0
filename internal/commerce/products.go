package commerce

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/wayfarerhq/storefront/internal/domain"
)

// Wire shapes shared by the product queries.

type moneyPayload struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

func (m moneyPayload) decimal() decimal.Decimal {
	d, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return decimal.Zero
	}
	return d
}

type productPayload struct {
	ID              string `json:"id"`
	Handle          string `json:"handle"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DescriptionHTML string `json:"descriptionHtml"`
	PriceRange      struct {
		MinVariantPrice moneyPayload `json:"minVariantPrice"`
	} `json:"priceRange"`
	CompareAtPriceRange struct {
		MinVariantPrice moneyPayload `json:"minVariantPrice"`
	} `json:"compareAtPriceRange"`
	Images struct {
		Edges []struct {
			Node struct {
				URL string `json:"url"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID               string       `json:"id"`
				Title            string       `json:"title"`
				AvailableForSale bool         `json:"availableForSale"`
				Price            moneyPayload `json:"price"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	Metafields []*struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"metafields"`
}

// toDomain maps the wire product onto a domain excursion.
func (p *productPayload) toDomain() domain.Excursion {
	exc := domain.Excursion{
		ID:              p.ID,
		Handle:          p.Handle,
		Title:           p.Title,
		Description:     p.Description,
		DescriptionHTML: p.DescriptionHTML,
		Price:           p.PriceRange.MinVariantPrice.decimal(),
	}

	if compareAt := p.CompareAtPriceRange.MinVariantPrice.decimal(); compareAt.GreaterThan(exc.Price) {
		exc.OriginalPrice = &compareAt
	}

	for _, e := range p.Images.Edges {
		exc.Images = append(exc.Images, e.Node.URL)
	}

	for _, e := range p.Variants.Edges {
		exc.Variants = append(exc.Variants, domain.Variant{
			ID:        e.Node.ID,
			Title:     e.Node.Title,
			Price:     e.Node.Price.decimal(),
			Available: e.Node.AvailableForSale,
		})
	}

	// Absent metafields arrive as nulls; each one falls back to its zero value.
	for _, mf := range p.Metafields {
		if mf == nil {
			continue
		}
		switch mf.Key {
		case "location":
			exc.Location = mf.Value
		case "duration":
			exc.Duration = mf.Value
		case "rating":
			if rating, err := strconv.ParseFloat(mf.Value, 64); err == nil {
				exc.Rating = rating
			}
		case "reviews_count":
			if n, err := strconv.Atoi(mf.Value); err == nil {
				exc.ReviewsCount = n
			}
		case "group_size":
			exc.GroupSize = mf.Value
		}
	}

	return exc
}

// ListExcursions fetches up to first products with their booking metadata.
func (c *GraphQLClient) ListExcursions(ctx context.Context, first int) ([]domain.Excursion, error) {
	const op = "commerce.list_excursions"

	var payload struct {
		Products struct {
			Edges []struct {
				Node productPayload `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}

	if err := c.do(ctx, op, listProductsQuery, map[string]interface{}{"first": first}, &payload); err != nil {
		return nil, err
	}

	excursions := make([]domain.Excursion, 0, len(payload.Products.Edges))
	for _, e := range payload.Products.Edges {
		excursions = append(excursions, e.Node.toDomain())
	}
	return excursions, nil
}

// GetExcursion fetches a single product by its platform ID.
func (c *GraphQLClient) GetExcursion(ctx context.Context, id string) (*domain.Excursion, error) {
	const op = "commerce.get_excursion"

	var payload struct {
		Product *productPayload `json:"product"`
	}

	if err := c.do(ctx, op, getProductQuery, map[string]interface{}{"id": id}, &payload); err != nil {
		return nil, err
	}
	if payload.Product == nil {
		return nil, domain.NotFound(op, "excursion", id)
	}

	exc := payload.Product.toDomain()
	return &exc, nil
}
