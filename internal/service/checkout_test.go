package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/storefront/internal/commerce"
	"github.com/wayfarerhq/storefront/internal/currency"
	"github.com/wayfarerhq/storefront/internal/domain"
	"github.com/wayfarerhq/storefront/internal/kv"
)

func newCheckoutFixture(t *testing.T) (CheckoutService, CartService, *commerce.MockClient, kv.Store) {
	t.Helper()

	store := kv.NewMemoryStore()
	client := commerce.NewMockClient()
	converter, err := currency.NewConverter("AED")
	require.NoError(t, err)

	carts := NewCartService(store, client, converter)
	checkout := NewCheckoutService(store, carts, client, nil)
	return checkout, carts, client, store
}

func testBuyer() domain.Buyer {
	return domain.Buyer{
		FirstName: "Aisha",
		LastName:  "Khan",
		Email:     "aisha@example.com",
		Phone:     "+971500000000",
	}
}

func TestCheckoutBegin(t *testing.T) {
	ctx := context.Background()

	t.Run("runs all three steps and returns the hosted URL", func(t *testing.T) {
		checkout, carts, client, _ := newCheckoutFixture(t)
		_, err := carts.AddItem(ctx, "sess-1", desertSafari(2))
		require.NoError(t, err)
		client.CallLog = nil

		var gotAttrs map[string]string
		client.UpdateCartAttributesFunc = func(_ context.Context, cartID string, attrs map[string]string) (*commerce.RemoteCart, error) {
			gotAttrs = attrs
			return &commerce.RemoteCart{ID: cartID, CheckoutURL: "https://checkout.example.com/x"}, nil
		}

		result, err := checkout.Begin(ctx, "sess-1", testBuyer(), "USD")
		require.NoError(t, err)

		assert.NotEmpty(t, result.CheckoutURL)
		assert.NotEmpty(t, result.RemoteCartID)
		assert.Equal(t, 1, client.Calls("CreateCart"))
		assert.Equal(t, 1, client.Calls("UpdateCartAttributes"))
		assert.Equal(t, 1, client.Calls("UpdateBuyerIdentity"))

		// Order attributes carry booking context; currency is metadata only.
		assert.Equal(t, domain.CheckoutTypeStandard, gotAttrs[domain.AttrCheckoutType])
		assert.Equal(t, "USD", gotAttrs[domain.AttrDisplayCurrency])
		assert.Equal(t, "Aisha Khan", gotAttrs[domain.AttrBuyerName])
		assert.Equal(t, "+971500000000", gotAttrs[domain.AttrBuyerPhone])
	})

	t.Run("requires a buyer email", func(t *testing.T) {
		checkout, _, _, _ := newCheckoutFixture(t)
		buyer := testBuyer()
		buyer.Email = ""

		_, err := checkout.Begin(ctx, "sess-1", buyer, "")
		assert.ErrorIs(t, err, ErrMissingBuyerEmail)
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		checkout, _, _, _ := newCheckoutFixture(t)

		_, err := checkout.Begin(ctx, "sess-1", testBuyer(), "")
		assert.ErrorIs(t, err, ErrCartEmpty)
	})

	t.Run("resubmitting an unchanged cart replays one attempt", func(t *testing.T) {
		checkout, carts, client, _ := newCheckoutFixture(t)
		_, err := carts.AddItem(ctx, "sess-1", desertSafari(2))
		require.NoError(t, err)
		client.CallLog = nil

		first, err := checkout.Begin(ctx, "sess-1", testBuyer(), "USD")
		require.NoError(t, err)

		second, err := checkout.Begin(ctx, "sess-1", testBuyer(), "USD")
		require.NoError(t, err)

		assert.Equal(t, first.RemoteCartID, second.RemoteCartID)
		assert.Equal(t, first.CheckoutURL, second.CheckoutURL)
		assert.Equal(t, 1, client.Calls("CreateCart"), "one remote cart across both submissions")
	})

	t.Run("a failed step resumes against the same remote cart", func(t *testing.T) {
		checkout, carts, client, _ := newCheckoutFixture(t)
		_, err := carts.AddItem(ctx, "sess-1", desertSafari(2))
		require.NoError(t, err)
		client.CallLog = nil

		client.UpdateCartAttributesFunc = func(_ context.Context, _ string, _ map[string]string) (*commerce.RemoteCart, error) {
			return nil, domain.Unavailable(errors.New("timeout"), "commerce.cart_attributes_update")
		}

		_, err = checkout.Begin(ctx, "sess-1", testBuyer(), "")
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EUNAVAILABLE))
		assert.Contains(t, domain.ErrorOp(err), domain.StepAttachAttributes)

		// Platform recovers; retry picks up where it left off.
		client.UpdateCartAttributesFunc = nil

		result, err := checkout.Begin(ctx, "sess-1", testBuyer(), "")
		require.NoError(t, err)
		assert.NotEmpty(t, result.CheckoutURL)
		assert.Equal(t, 1, client.Calls("CreateCart"), "the remote cart is created once")
		assert.Equal(t, 2, client.Calls("UpdateCartAttributes"))
		assert.Equal(t, 1, client.Calls("UpdateBuyerIdentity"))
	})

	t.Run("a platform rejection aborts at the failing step", func(t *testing.T) {
		checkout, carts, client, _ := newCheckoutFixture(t)
		_, err := carts.AddItem(ctx, "sess-1", desertSafari(2))
		require.NoError(t, err)
		client.CallLog = nil

		client.CreateCartFunc = func(_ context.Context, _ []commerce.CartLineInput) (*commerce.RemoteCart, error) {
			return nil, domain.Rejected("commerce.cart_create", "This tour is no longer available")
		}

		_, err = checkout.Begin(ctx, "sess-1", testBuyer(), "")
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EREJECTED))
		assert.Equal(t, "This tour is no longer available", domain.ErrorMessage(err))
		assert.Zero(t, client.Calls("UpdateCartAttributes"), "nothing runs after a refused cart")
		assert.Zero(t, client.Calls("UpdateBuyerIdentity"))
	})

	t.Run("a changed cart starts a fresh attempt", func(t *testing.T) {
		checkout, carts, client, _ := newCheckoutFixture(t)
		_, err := carts.AddItem(ctx, "sess-1", desertSafari(2))
		require.NoError(t, err)
		client.CallLog = nil

		_, err = checkout.Begin(ctx, "sess-1", testBuyer(), "")
		require.NoError(t, err)

		input := desertSafari(1)
		input.VariantID = "gid://variant/2"
		input.Title = "Dhow Cruise"
		_, err = carts.AddItem(ctx, "sess-1", input)
		require.NoError(t, err)

		_, err = checkout.Begin(ctx, "sess-1", testBuyer(), "")
		require.NoError(t, err)
		assert.Equal(t, 2, client.Calls("CreateCart"), "new contents mean a new remote cart")
	})

	t.Run("concurrent submissions for one session are refused", func(t *testing.T) {
		checkout, carts, client, _ := newCheckoutFixture(t)
		_, err := carts.AddItem(ctx, "sess-1", desertSafari(2))
		require.NoError(t, err)

		entered := make(chan struct{})
		release := make(chan struct{})
		client.CreateCartFunc = func(_ context.Context, _ []commerce.CartLineInput) (*commerce.RemoteCart, error) {
			close(entered)
			<-release
			return &commerce.RemoteCart{ID: "gid://cart/1", CheckoutURL: "https://checkout.example.com/1"}, nil
		}

		done := make(chan error, 1)
		go func() {
			_, err := checkout.Begin(ctx, "sess-1", testBuyer(), "")
			done <- err
		}()

		<-entered
		_, err = checkout.Begin(ctx, "sess-1", testBuyer(), "")
		assert.ErrorIs(t, err, ErrCheckoutInFlight)

		close(release)
		require.NoError(t, <-done)
	})
}

func TestCheckoutFingerprint(t *testing.T) {
	cart := &domain.Cart{
		ID: "sess-1",
		Lines: []domain.CartLine{
			{VariantID: "b", Quantity: 1, CustomAttributes: map[string]string{"x": "1", "y": "2"}},
			{VariantID: "a", Quantity: 2},
		},
	}
	buyer := testBuyer()

	a := checkoutFingerprint(cart, buyer, "USD")

	// Line order must not matter.
	cart.Lines[0], cart.Lines[1] = cart.Lines[1], cart.Lines[0]
	assert.Equal(t, a, checkoutFingerprint(cart, buyer, "USD"))

	// Buyer, currency and quantity must.
	assert.NotEqual(t, a, checkoutFingerprint(cart, buyer, "EUR"))
	buyer.Email = "other@example.com"
	assert.NotEqual(t, a, checkoutFingerprint(cart, buyer, "USD"))
	cart.Lines[0].Quantity++
	assert.NotEqual(t, a, checkoutFingerprint(cart, testBuyer(), "USD"))
}
