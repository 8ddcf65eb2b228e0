package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayfarerhq/storefront/internal/currency"
	"github.com/wayfarerhq/storefront/internal/domain"
	"github.com/wayfarerhq/storefront/internal/service"
)

// mockAuthService implements service.AuthService for testing
type mockAuthService struct {
	loginFunc    func(ctx context.Context, sessionID, email, password string) (*domain.AuthSession, error)
	registerFunc func(ctx context.Context, sessionID string, params service.RegisterParams) (*domain.RegisterResult, error)
	logoutFunc   func(ctx context.Context, sessionID string) error
	restoreFunc  func(ctx context.Context, sessionID string) (*domain.AuthSession, error)
}

func (m *mockAuthService) Login(ctx context.Context, sessionID, email, password string) (*domain.AuthSession, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, sessionID, email, password)
	}
	return &domain.AuthSession{AccessToken: "tok", Email: email}, nil
}

func (m *mockAuthService) Register(ctx context.Context, sessionID string, params service.RegisterParams) (*domain.RegisterResult, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, sessionID, params)
	}
	return &domain.RegisterResult{Created: true, SessionEstablished: true}, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) Restore(ctx context.Context, sessionID string) (*domain.AuthSession, error) {
	if m.restoreFunc != nil {
		return m.restoreFunc(ctx, sessionID)
	}
	return nil, nil
}

func testConverter(t *testing.T) *currency.Converter {
	t.Helper()
	c, err := currency.NewConverter("AED")
	require.NoError(t, err)
	return c
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Run("success returns the session", func(t *testing.T) {
		auth := &mockAuthService{
			loginFunc: func(_ context.Context, sessionID, email, _ string) (*domain.AuthSession, error) {
				assert.Equal(t, "sess-test", sessionID)
				return &domain.AuthSession{
					AccessToken: "tok_1",
					Email:       email,
					ExpiresAt:   time.Date(2026, 9, 30, 12, 0, 0, 0, time.UTC),
				}, nil
			},
		}
		h := NewAuthHandler(auth, &mockCartService{}, testConverter(t))

		body := `{"email": "aisha@example.com", "password": "hunter22"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := serve(h.Login, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody(t, rec)
		assert.Equal(t, true, resp["authenticated"])
		assert.Equal(t, "aisha@example.com", resp["email"])
		assert.Equal(t, "2026-09-30T12:00:00Z", resp["expires_at"])
	})

	t.Run("rejected credentials map to 401 with platform wording", func(t *testing.T) {
		auth := &mockAuthService{
			loginFunc: func(_ context.Context, _, _, _ string) (*domain.AuthSession, error) {
				return nil, domain.Unauthorized("auth.login", "Unidentified customer")
			},
		}
		h := NewAuthHandler(auth, &mockCartService{}, testConverter(t))

		body := `{"email": "aisha@example.com", "password": "wrong-pass"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		rec := serve(h.Login, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		errObj := decodeBody(t, rec)["error"].(map[string]interface{})
		assert.Equal(t, "Unidentified customer", errObj["message"])
	})
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Run("created but not signed in is still 201", func(t *testing.T) {
		auth := &mockAuthService{
			registerFunc: func(_ context.Context, _ string, params service.RegisterParams) (*domain.RegisterResult, error) {
				assert.Equal(t, "aisha@example.com", params.Email)
				return &domain.RegisterResult{
					Created: true,
					Message: "Account created. Please sign in.",
				}, nil
			},
		}
		h := NewAuthHandler(auth, &mockCartService{}, testConverter(t))

		body := `{"email": "aisha@example.com", "password": "longenough", "first_name": "Aisha", "last_name": "Khan"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := serve(h.Register, req)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		resp := decodeBody(t, rec)
		assert.Equal(t, true, resp["created"])
		assert.Equal(t, false, resp["authenticated"])
	})

	t.Run("short password fails validation", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthService{}, &mockCartService{}, testConverter(t))

		body := `{"email": "aisha@example.com", "password": "short", "first_name": "Aisha", "last_name": "Khan"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := serve(h.Register, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		fields := decodeBody(t, rec)["error"].(map[string]interface{})["fields"].(map[string]interface{})
		assert.Contains(t, fields, "password")
	})
}

func TestAuthHandlerSession(t *testing.T) {
	t.Run("anonymous bootstrap", func(t *testing.T) {
		carts := &mockCartService{
			getFunc: func(_ context.Context, sessionID string) (*domain.Cart, error) {
				return &domain.Cart{ID: sessionID}, nil
			},
		}
		h := NewAuthHandler(&mockAuthService{}, carts, testConverter(t))

		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		rec := serve(h.Session, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody(t, rec)
		assert.Equal(t, false, resp["authenticated"])
		assert.NotContains(t, resp, "email")
		assert.Equal(t, "AED", resp["base_currency"])
		assert.Len(t, resp["currencies"], 6)
	})

	t.Run("authenticated bootstrap carries the cart summary", func(t *testing.T) {
		auth := &mockAuthService{
			restoreFunc: func(_ context.Context, _ string) (*domain.AuthSession, error) {
				return &domain.AuthSession{AccessToken: "tok", Email: "aisha@example.com"}, nil
			},
		}
		carts := &mockCartService{
			getFunc: func(_ context.Context, sessionID string) (*domain.Cart, error) {
				return &domain.Cart{ID: sessionID, Lines: []domain.CartLine{
					{VariantID: "v1", Price: decimal.RequireFromString("100"), Quantity: 2},
				}}, nil
			},
		}
		h := NewAuthHandler(auth, carts, testConverter(t))

		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		rec := serve(h.Session, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody(t, rec)
		assert.Equal(t, true, resp["authenticated"])
		assert.Equal(t, "aisha@example.com", resp["email"])
		cart := resp["cart"].(map[string]interface{})
		assert.Equal(t, float64(2), cart["item_count"])
		assert.Equal(t, "200.00", cart["subtotal"])
	})
}

func TestAuthHandlerLogout(t *testing.T) {
	called := false
	auth := &mockAuthService{
		logoutFunc: func(_ context.Context, sessionID string) error {
			called = true
			assert.Equal(t, "sess-test", sessionID)
			return nil
		},
	}
	h := NewAuthHandler(auth, &mockCartService{}, testConverter(t))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := serve(h.Logout, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, called)
}
