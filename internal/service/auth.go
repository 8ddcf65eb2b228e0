package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/wayfarerhq/storefront/internal/commerce"
	"github.com/wayfarerhq/storefront/internal/domain"
	"github.com/wayfarerhq/storefront/internal/kv"
	"github.com/wayfarerhq/storefront/internal/telemetry"
)

// authTTL bounds the persisted session. The platform token usually expires
// sooner; that expiry is discovered reactively on a failing call.
const authTTL = 30 * 24 * time.Hour

// AuthService tracks login state and gates access to protected views.
//
// States: anonymous -> authenticated via Login/Register, authenticated ->
// anonymous via Logout or a rejected token. There is no proactive refresh.
type AuthService interface {
	// Login delegates to the platform; on success the session is stored
	// under the visitor session. The platform's rejection message is
	// returned without retry.
	Login(ctx context.Context, sessionID, email, password string) (*domain.AuthSession, error)

	// Register creates the account, then chains to Login with the same
	// credentials. If the account was created but the login failed, the
	// result says so - distinguishable from a failed registration.
	Register(ctx context.Context, sessionID string, params RegisterParams) (*domain.RegisterResult, error)

	// Logout clears the session and all session-scoped data owned by
	// other stores (cart, checkout progress, cached orders). The cross-
	// store sequence is explicit here, not a side effect elsewhere.
	Logout(ctx context.Context, sessionID string) error

	// Restore reads the persisted session at boot. It trusts the stored
	// token without checking freshness; (nil, nil) means anonymous.
	Restore(ctx context.Context, sessionID string) (*domain.AuthSession, error)
}

// RegisterParams are the registration form fields.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type authService struct {
	store   kv.Store
	client  commerce.Client
	carts   CartService
	metrics *telemetry.BookingMetrics
}

// NewAuthService creates an AuthService. The cart service is required so
// logout can clear cart state in the same call sequence. metrics may be nil.
func NewAuthService(store kv.Store, client commerce.Client, carts CartService, metrics *telemetry.BookingMetrics) AuthService {
	return &authService{
		store:   store,
		client:  client,
		carts:   carts,
		metrics: metrics,
	}
}

func (s *authService) Login(ctx context.Context, sessionID, email, password string) (*domain.AuthSession, error) {
	token, err := s.client.CustomerLogin(ctx, email, password)
	if err != nil {
		s.metrics.Login(false)
		return nil, err
	}

	session := &domain.AuthSession{
		AccessToken: token.AccessToken,
		Email:       email,
		ExpiresAt:   token.ExpiresAt,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.save(ctx, sessionID, session); err != nil {
		return nil, err
	}

	s.metrics.Login(true)
	return session, nil
}

func (s *authService) Register(ctx context.Context, sessionID string, params RegisterParams) (*domain.RegisterResult, error) {
	err := s.client.CustomerCreate(ctx, commerce.CustomerCreateParams{
		Email:     params.Email,
		Password:  params.Password,
		FirstName: params.FirstName,
		LastName:  params.LastName,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Signup()

	// The account exists from here on; a failed chained login is still a
	// successful registration.
	session, err := s.Login(ctx, sessionID, params.Email, params.Password)
	if err != nil {
		return &domain.RegisterResult{
			Created:            true,
			SessionEstablished: false,
			Message:            "Your account was created. Please sign in.",
		}, nil
	}

	return &domain.RegisterResult{
		Created:            true,
		SessionEstablished: true,
		Session:            session,
		Message:            "Welcome aboard.",
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, authKey(sessionID)); err != nil {
		return domain.Internal(err, "auth.logout", "Failed to clear session")
	}
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, ordersKey(sessionID)); err != nil {
		return domain.Internal(err, "auth.logout", "Failed to clear cached orders")
	}
	return nil
}

func (s *authService) Restore(ctx context.Context, sessionID string) (*domain.AuthSession, error) {
	data, err := s.store.Get(ctx, authKey(sessionID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Internal(err, "auth.restore", "Failed to restore session")
	}

	var session domain.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, domain.Internal(err, "auth.restore", "Failed to restore session")
	}
	if !session.Authenticated() {
		return nil, nil
	}
	return &session, nil
}

func (s *authService) save(ctx context.Context, sessionID string, session *domain.AuthSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return domain.Internal(err, "auth.save", "Failed to save session")
	}
	if err := s.store.Set(ctx, authKey(sessionID), data, authTTL); err != nil {
		return domain.Internal(err, "auth.save", "Failed to save session")
	}
	return nil
}
