package service

import (
	"context"
	"sort"
	"strings"

	"github.com/wayfarerhq/storefront/internal/commerce"
	"github.com/wayfarerhq/storefront/internal/domain"
)

// listingFetchSize is how many products one listing query pulls; the catalog
// is small enough that filtering and sorting happen in memory.
const listingFetchSize = 50

// ProductService serves the excursion catalog: listing with filter/sort, and
// detail by platform ID. Read failures degrade the view; callers render an
// empty listing with the error, nothing blocks.
type ProductService interface {
	List(ctx context.Context, filter domain.ExcursionFilter) ([]domain.Excursion, error)
	Get(ctx context.Context, id string) (*domain.Excursion, error)
}

type productService struct {
	client commerce.Client
}

// NewProductService creates a ProductService.
func NewProductService(client commerce.Client) ProductService {
	return &productService{client: client}
}

func (s *productService) List(ctx context.Context, filter domain.ExcursionFilter) ([]domain.Excursion, error) {
	excursions, err := s.client.ListExcursions(ctx, listingFetchSize)
	if err != nil {
		return nil, err
	}

	filtered := excursions[:0]
	for _, e := range excursions {
		if filter.Location != "" && !strings.Contains(strings.ToLower(e.Location), strings.ToLower(filter.Location)) {
			continue
		}
		if filter.MinPrice != nil && e.Price.LessThan(*filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && e.Price.GreaterThan(*filter.MaxPrice) {
			continue
		}
		filtered = append(filtered, e)
	}

	switch filter.Sort {
	case domain.SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price.LessThan(filtered[j].Price) })
	case domain.SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price.GreaterThan(filtered[j].Price) })
	case domain.SortRating:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Rating > filtered[j].Rating })
	}

	return filtered, nil
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Excursion, error) {
	if id == "" {
		return nil, ErrExcursionNotFound
	}
	return s.client.GetExcursion(ctx, id)
}
