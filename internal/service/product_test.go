package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/storefront/internal/commerce"
	"github.com/wayfarerhq/storefront/internal/domain"
)

func catalog() []domain.Excursion {
	return []domain.Excursion{
		{ID: "1", Title: "Desert Safari", Location: "Dubai", Price: decimal.RequireFromString("250"), Rating: 4.8},
		{ID: "2", Title: "Dhow Cruise", Location: "Dubai Marina", Price: decimal.RequireFromString("120"), Rating: 4.2},
		{ID: "3", Title: "Old Town Walk", Location: "Abu Dhabi", Price: decimal.RequireFromString("80"), Rating: 4.9},
	}
}

func newProductFixture(t *testing.T) (ProductService, *commerce.MockClient) {
	t.Helper()

	client := commerce.NewMockClient()
	client.ListExcursionsFunc = func(_ context.Context, _ int) ([]domain.Excursion, error) {
		return catalog(), nil
	}
	return NewProductService(client), client
}

func TestProductList(t *testing.T) {
	ctx := context.Background()

	t.Run("no filter returns everything", func(t *testing.T) {
		svc, _ := newProductFixture(t)
		got, err := svc.List(ctx, domain.ExcursionFilter{})
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("location match is case-insensitive substring", func(t *testing.T) {
		svc, _ := newProductFixture(t)
		got, err := svc.List(ctx, domain.ExcursionFilter{Location: "dubai"})
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("price range bounds are inclusive", func(t *testing.T) {
		svc, _ := newProductFixture(t)
		min := decimal.RequireFromString("80")
		max := decimal.RequireFromString("120")
		got, err := svc.List(ctx, domain.ExcursionFilter{MinPrice: &min, MaxPrice: &max})
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("sorts", func(t *testing.T) {
		svc, _ := newProductFixture(t)

		asc, err := svc.List(ctx, domain.ExcursionFilter{Sort: domain.SortPriceAsc})
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "2", "1"}, ids(asc))

		desc, err := svc.List(ctx, domain.ExcursionFilter{Sort: domain.SortPriceDesc})
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3"}, ids(desc))

		rated, err := svc.List(ctx, domain.ExcursionFilter{Sort: domain.SortRating})
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "1", "2"}, ids(rated))
	})
}

func ids(excursions []domain.Excursion) []string {
	out := make([]string, 0, len(excursions))
	for _, e := range excursions {
		out = append(out, e.ID)
	}
	return out
}

func TestProductGet(t *testing.T) {
	ctx := context.Background()
	svc, client := newProductFixture(t)

	client.GetExcursionFunc = func(_ context.Context, id string) (*domain.Excursion, error) {
		if id == "1" {
			c := catalog()
			return &c[0], nil
		}
		return nil, domain.NotFound("commerce.get_excursion", "excursion", id)
	}

	got, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Desert Safari", got.Title)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, ErrExcursionNotFound)

	_, err = svc.Get(ctx, "missing")
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}
