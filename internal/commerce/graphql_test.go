package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/storefront/internal/domain"
)

// newTestClient points a client at an httptest server that replies to every
// call with the given data payload.
func newTestClient(t *testing.T, handler http.HandlerFunc) *GraphQLClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &GraphQLClient{
		endpoint: srv.URL,
		token:    "test-token",
		http:     srv.Client(),
	}
}

// dataHandler replies 200 with {"data": <data>}.
func dataHandler(t *testing.T, data string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get(accessTokenHeader))
		assert.Equal(t, http.MethodPost, r.Method)

		var req graphqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Query)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":` + data + `}`))
	}
}

func TestNewGraphQLClient(t *testing.T) {
	t.Run("builds the versioned endpoint", func(t *testing.T) {
		c, err := NewGraphQLClient(Config{StoreDomain: "shop.example.com", AccessToken: "tok"})
		require.NoError(t, err)
		assert.Equal(t, "https://shop.example.com/api/2024-07/graphql.json", c.endpoint)
	})

	t.Run("strips a scheme prefix", func(t *testing.T) {
		c, err := NewGraphQLClient(Config{StoreDomain: "https://shop.example.com/", AccessToken: "tok", APIVersion: "2025-01"})
		require.NoError(t, err)
		assert.Equal(t, "https://shop.example.com/api/2025-01/graphql.json", c.endpoint)
	})

	t.Run("requires domain and token", func(t *testing.T) {
		_, err := NewGraphQLClient(Config{AccessToken: "tok"})
		assert.Error(t, err)
		_, err = NewGraphQLClient(Config{StoreDomain: "shop.example.com"})
		assert.Error(t, err)
	})
}

func TestListExcursions(t *testing.T) {
	data := `{
		"products": {"edges": [{"node": {
			"id": "gid://product/1",
			"handle": "desert-safari",
			"title": "Desert Safari",
			"description": "Dunes at sunset",
			"priceRange": {"minVariantPrice": {"amount": "250.0", "currencyCode": "AED"}},
			"compareAtPriceRange": {"minVariantPrice": {"amount": "300.0", "currencyCode": "AED"}},
			"images": {"edges": [{"node": {"url": "https://cdn.example.com/1.jpg"}}]},
			"variants": {"edges": [{"node": {
				"id": "gid://variant/1",
				"title": "Default",
				"availableForSale": true,
				"price": {"amount": "250.0", "currencyCode": "AED"}
			}}]},
			"metafields": [
				{"key": "location", "value": "Dubai"},
				{"key": "rating", "value": "4.8"},
				{"key": "reviews_count", "value": "132"},
				null,
				{"key": "group_size", "value": "Up to 6"}
			]
		}}]}
	}`

	client := newTestClient(t, dataHandler(t, data))

	excursions, err := client.ListExcursions(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, excursions, 1)

	e := excursions[0]
	assert.Equal(t, "Desert Safari", e.Title)
	assert.Equal(t, "250", e.Price.String())
	require.NotNil(t, e.OriginalPrice, "compare-at above price becomes the original price")
	assert.Equal(t, "300", e.OriginalPrice.String())
	assert.Equal(t, "Dubai", e.Location)
	assert.Equal(t, 4.8, e.Rating)
	assert.Equal(t, 132, e.ReviewsCount)
	assert.Equal(t, "Up to 6", e.GroupSize)
	assert.Equal(t, "", e.Duration, "null metafield falls back to zero value")
	require.Len(t, e.Variants, 1)
	assert.True(t, e.Variants[0].Available)
}

func TestGetExcursion(t *testing.T) {
	t.Run("null product is not found", func(t *testing.T) {
		client := newTestClient(t, dataHandler(t, `{"product": null}`))

		_, err := client.GetExcursion(context.Background(), "gid://product/404")
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	})
}

func TestCreateCart(t *testing.T) {
	t.Run("success returns the remote cart", func(t *testing.T) {
		data := `{"cartCreate": {"cart": {"id": "gid://cart/1", "checkoutUrl": "https://checkout.example.com/1"}, "userErrors": []}}`
		client := newTestClient(t, dataHandler(t, data))

		cart, err := client.CreateCart(context.Background(), []CartLineInput{{MerchandiseID: "gid://variant/1", Quantity: 2}})
		require.NoError(t, err)
		assert.Equal(t, "gid://cart/1", cart.ID)
		assert.Equal(t, "https://checkout.example.com/1", cart.CheckoutURL)
	})

	t.Run("user errors become a rejection with platform wording", func(t *testing.T) {
		data := `{"cartCreate": {"cart": null, "userErrors": [{"field": ["lines"], "message": "Variant is out of stock"}]}}`
		client := newTestClient(t, dataHandler(t, data))

		_, err := client.CreateCart(context.Background(), nil)
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EREJECTED))
		assert.Equal(t, "Variant is out of stock", domain.ErrorMessage(err))
	})
}

func TestCustomerLogin(t *testing.T) {
	t.Run("rejected credentials are unauthorized", func(t *testing.T) {
		data := `{"customerAccessTokenCreate": {"customerAccessToken": null, "customerUserErrors": [{"field": null, "message": "Unidentified customer"}]}}`
		client := newTestClient(t, dataHandler(t, data))

		_, err := client.CustomerLogin(context.Background(), "a@example.com", "bad")
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EUNAUTHORIZED))
		assert.Equal(t, "Unidentified customer", domain.ErrorMessage(err))
	})

	t.Run("success parses the token expiry", func(t *testing.T) {
		data := `{"customerAccessTokenCreate": {"customerAccessToken": {"accessToken": "tok_1", "expiresAt": "2026-09-30T12:00:00Z"}, "customerUserErrors": []}}`
		client := newTestClient(t, dataHandler(t, data))

		token, err := client.CustomerLogin(context.Background(), "a@example.com", "good")
		require.NoError(t, err)
		assert.Equal(t, "tok_1", token.AccessToken)
		assert.Equal(t, 2026, token.ExpiresAt.Year())
	})
}

func TestCustomerOrders(t *testing.T) {
	t.Run("null customer means the token expired", func(t *testing.T) {
		client := newTestClient(t, dataHandler(t, `{"customer": null}`))

		_, err := client.CustomerOrders(context.Background(), "stale", 10, "")
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EUNAUTHORIZED))
	})
}

func TestTransportFailures(t *testing.T) {
	t.Run("network error is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		client := &GraphQLClient{endpoint: srv.URL, token: "t", http: srv.Client()}
		srv.Close() // connection refused from here on

		_, err := client.ListExcursions(context.Background(), 10)
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EUNAVAILABLE))
	})

	t.Run("timeout is unavailable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		})
		client.http.Timeout = 20 * time.Millisecond

		_, err := client.ListExcursions(context.Background(), 10)
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EUNAVAILABLE))
	})

	t.Run("non-200 is unavailable", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := client.ListExcursions(context.Background(), 10)
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EUNAVAILABLE))
	})

	t.Run("query-level errors are internal", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": null, "errors": [{"message": "Field 'product' doesn't exist"}]}`))
		})

		_, err := client.ListExcursions(context.Background(), 10)
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EINTERNAL))
	})
}
