package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/storefront/internal/commerce"
	"github.com/wayfarerhq/storefront/internal/currency"
	"github.com/wayfarerhq/storefront/internal/domain"
	"github.com/wayfarerhq/storefront/internal/kv"
)

func newAuthFixture(t *testing.T) (AuthService, CartService, *commerce.MockClient, kv.Store) {
	t.Helper()

	store := kv.NewMemoryStore()
	client := commerce.NewMockClient()
	converter, err := currency.NewConverter("AED")
	require.NoError(t, err)

	carts := NewCartService(store, client, converter)
	auth := NewAuthService(store, client, carts, nil)
	return auth, carts, client, store
}

func TestAuthLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success persists the session", func(t *testing.T) {
		auth, _, _, _ := newAuthFixture(t)

		session, err := auth.Login(ctx, "sess-1", "aisha@example.com", "secret123")
		require.NoError(t, err)
		assert.True(t, session.Authenticated())
		assert.Equal(t, "aisha@example.com", session.Email)

		restored, err := auth.Restore(ctx, "sess-1")
		require.NoError(t, err)
		require.NotNil(t, restored)
		assert.Equal(t, session.AccessToken, restored.AccessToken)
	})

	t.Run("rejected credentials leave the session anonymous", func(t *testing.T) {
		auth, _, client, _ := newAuthFixture(t)

		client.CustomerLoginFunc = func(_ context.Context, _, _ string) (*commerce.CustomerToken, error) {
			return nil, domain.Unauthorized("commerce.customer_login", "Incorrect email or password.")
		}

		_, err := auth.Login(ctx, "sess-1", "aisha@example.com", "wrong")
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EUNAUTHORIZED))
		assert.Equal(t, "Incorrect email or password.", domain.ErrorMessage(err))

		restored, err := auth.Restore(ctx, "sess-1")
		require.NoError(t, err)
		assert.Nil(t, restored)
	})
}

func TestAuthRegister(t *testing.T) {
	ctx := context.Background()

	params := RegisterParams{
		Email:     "aisha@example.com",
		Password:  "secret123",
		FirstName: "Aisha",
		LastName:  "Khan",
	}

	t.Run("creates the account and signs in", func(t *testing.T) {
		auth, _, _, _ := newAuthFixture(t)

		result, err := auth.Register(ctx, "sess-1", params)
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.True(t, result.SessionEstablished)
		require.NotNil(t, result.Session)
		assert.True(t, result.Session.Authenticated())
	})

	t.Run("created but login failed is still a success", func(t *testing.T) {
		auth, _, client, _ := newAuthFixture(t)

		client.CustomerLoginFunc = func(_ context.Context, _, _ string) (*commerce.CustomerToken, error) {
			return nil, domain.Unauthorized("commerce.customer_login", "Account pending verification")
		}

		result, err := auth.Register(ctx, "sess-1", params)
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.False(t, result.SessionEstablished)
		assert.NotEmpty(t, result.Message)

		restored, err := auth.Restore(ctx, "sess-1")
		require.NoError(t, err)
		assert.Nil(t, restored)
	})

	t.Run("a failed registration is an error", func(t *testing.T) {
		auth, _, client, _ := newAuthFixture(t)

		client.CustomerCreateFunc = func(_ context.Context, _ commerce.CustomerCreateParams) error {
			return domain.Rejected("commerce.customer_create", "Email has already been taken")
		}

		_, err := auth.Register(ctx, "sess-1", params)
		require.Error(t, err)
		assert.True(t, domain.IsCode(err, domain.EREJECTED))
		assert.Zero(t, client.Calls("CustomerLogin"), "no login attempt after a failed create")
	})
}

func TestAuthLogout(t *testing.T) {
	ctx := context.Background()
	auth, carts, _, store := newAuthFixture(t)

	_, err := auth.Login(ctx, "sess-1", "aisha@example.com", "secret123")
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, "sess-1", desertSafari(1))
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, ordersKey("sess-1"), []byte("{}"), time.Minute))

	require.NoError(t, auth.Logout(ctx, "sess-1"))

	restored, err := auth.Restore(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, restored, "session cleared")

	cart, err := carts.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines, "cart cleared")

	_, err = store.Get(ctx, ordersKey("sess-1"))
	assert.ErrorIs(t, err, kv.ErrNotFound, "cached orders cleared")
}

func TestAuthRestore(t *testing.T) {
	ctx := context.Background()
	auth, _, _, _ := newAuthFixture(t)

	t.Run("unknown session is anonymous, not an error", func(t *testing.T) {
		session, err := auth.Restore(ctx, "never-seen")
		require.NoError(t, err)
		assert.Nil(t, session)
		assert.False(t, session.Authenticated())
	})
}
