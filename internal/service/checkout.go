package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wayfarerhq/storefront/internal/commerce"
	"github.com/wayfarerhq/storefront/internal/domain"
	"github.com/wayfarerhq/storefront/internal/kv"
	"github.com/wayfarerhq/storefront/internal/telemetry"
)

// checkoutStateTTL bounds how long a partially-completed attempt may be
// resumed before it is treated as abandoned.
const checkoutStateTTL = 1 * time.Hour

// CheckoutService converts a local cart plus buyer info into a remote,
// payable checkout session.
//
// The protocol is sequential: create the remote cart from the local lines,
// attach the booking attributes, attach the buyer identity, return the hosted
// checkout URL. Every step after the first is retried against the remote cart
// the first step created: progress is persisted under the session, keyed by a
// fingerprint of the cart contents and buyer, so resubmitting an unchanged
// cart resumes (or replays) one attempt instead of creating a second remote
// cart. A step failure is reported loudly with the failing step in the error;
// the caller never receives a checkout URL for an incompletely attributed
// cart.
type CheckoutService interface {
	Begin(ctx context.Context, sessionID string, buyer domain.Buyer, displayCurrency string) (*domain.CheckoutResult, error)
}

type checkoutService struct {
	store   kv.Store
	carts   CartService
	client  commerce.Client
	metrics *telemetry.BookingMetrics

	// inflight guards concurrent Begin calls for the same session.
	mu       sync.Mutex
	inflight map[string]bool
}

// NewCheckoutService creates a CheckoutService. metrics may be nil.
func NewCheckoutService(store kv.Store, carts CartService, client commerce.Client, metrics *telemetry.BookingMetrics) CheckoutService {
	return &checkoutService{
		store:    store,
		carts:    carts,
		client:   client,
		metrics:  metrics,
		inflight: map[string]bool{},
	}
}

func (s *checkoutService) Begin(ctx context.Context, sessionID string, buyer domain.Buyer, displayCurrency string) (*domain.CheckoutResult, error) {
	if buyer.Email == "" {
		return nil, ErrMissingBuyerEmail
	}

	if !s.acquire(sessionID) {
		return nil, ErrCheckoutInFlight
	}
	defer s.release(sessionID)

	s.metrics.CheckoutStarted()

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrCartEmpty
	}

	fingerprint := checkoutFingerprint(cart, buyer, displayCurrency)
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil || state.Fingerprint != fingerprint {
		state = &domain.CheckoutState{
			Fingerprint: fingerprint,
			StartedAt:   time.Now().UTC(),
		}
	}

	// Step 1: create the remote cart from the local lines. A platform
	// rejection (variant unavailable, etc.) aborts here; nothing later
	// runs against a cart the platform refused.
	if !state.StepDone(domain.StepCreateCart) {
		remote, err := s.client.CreateCart(ctx, remoteLines(cart))
		if err != nil {
			s.metrics.CheckoutFailed(domain.StepCreateCart)
			return nil, stepError(err, domain.StepCreateCart)
		}
		state.RemoteCartID = remote.ID
		state.CheckoutURL = remote.CheckoutURL
		state.CompletedSteps = append(state.CompletedSteps, domain.StepCreateCart)
		if err := s.saveState(ctx, sessionID, state); err != nil {
			return nil, err
		}
	}

	// Step 2: attach the order-level booking attributes so the platform's
	// back office sees the context its schema does not model.
	if !state.StepDone(domain.StepAttachAttributes) {
		attrs := orderAttributes(buyer, displayCurrency)
		if _, err := s.client.UpdateCartAttributes(ctx, state.RemoteCartID, attrs); err != nil {
			s.metrics.CheckoutFailed(domain.StepAttachAttributes)
			return nil, stepError(err, domain.StepAttachAttributes)
		}
		state.CompletedSteps = append(state.CompletedSteps, domain.StepAttachAttributes)
		if err := s.saveState(ctx, sessionID, state); err != nil {
			return nil, err
		}
	}

	// Step 3: attach buyer identity for pre-fill at hosted checkout.
	if !state.StepDone(domain.StepAttachBuyer) {
		if _, err := s.client.UpdateBuyerIdentity(ctx, state.RemoteCartID, buyer.Email, buyer.Phone); err != nil {
			s.metrics.CheckoutFailed(domain.StepAttachBuyer)
			return nil, stepError(err, domain.StepAttachBuyer)
		}
		state.CompletedSteps = append(state.CompletedSteps, domain.StepAttachBuyer)
		if err := s.saveState(ctx, sessionID, state); err != nil {
			return nil, err
		}
	}

	s.metrics.CheckoutCompleted()

	return &domain.CheckoutResult{
		RemoteCartID: state.RemoteCartID,
		CheckoutURL:  state.CheckoutURL,
	}, nil
}

func (s *checkoutService) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[sessionID] {
		return false
	}
	s.inflight[sessionID] = true
	return true
}

func (s *checkoutService) release(sessionID string) {
	s.mu.Lock()
	delete(s.inflight, sessionID)
	s.mu.Unlock()
}

func (s *checkoutService) loadState(ctx context.Context, sessionID string) (*domain.CheckoutState, error) {
	data, err := s.store.Get(ctx, checkoutKey(sessionID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Internal(err, "checkout.load_state", "Failed to load checkout state")
	}

	var state domain.CheckoutState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, domain.Internal(err, "checkout.load_state", "Failed to load checkout state")
	}
	return &state, nil
}

func (s *checkoutService) saveState(ctx context.Context, sessionID string, state *domain.CheckoutState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return domain.Internal(err, "checkout.save_state", "Failed to save checkout state")
	}
	if err := s.store.Set(ctx, checkoutKey(sessionID), data, checkoutStateTTL); err != nil {
		return domain.Internal(err, "checkout.save_state", "Failed to save checkout state")
	}
	return nil
}

// stepError annotates a failure with the protocol step it happened in,
// keeping the original code and user message.
func stepError(err error, step string) error {
	var e *domain.Error
	if errors.As(err, &e) {
		op := "checkout." + step
		if e.Op != "" {
			op = op + ": " + e.Op
		}
		return &domain.Error{Code: e.Code, Message: e.Message, Op: op, Err: e.Err}
	}
	return domain.Internal(err, "checkout."+step, "Checkout could not be completed")
}

// remoteLines maps local cart lines onto the cart-create input, carrying the
// per-line booking attributes with each line.
func remoteLines(cart *domain.Cart) []commerce.CartLineInput {
	lines := make([]commerce.CartLineInput, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, commerce.CartLineInput{
			MerchandiseID: l.VariantID,
			Quantity:      l.Quantity,
			Attributes:    l.CustomAttributes,
		})
	}
	return lines
}

// orderAttributes builds the order-level attribute set: checkout tag, the
// currency the buyer viewed prices in (metadata only - settlement stays in
// the base currency), and the buyer's name and phone for the back office.
func orderAttributes(buyer domain.Buyer, displayCurrency string) map[string]string {
	attrs := map[string]string{
		domain.AttrCheckoutType: domain.CheckoutTypeStandard,
	}
	if displayCurrency != "" {
		attrs[domain.AttrDisplayCurrency] = displayCurrency
	}
	if name := buyer.FullName(); name != "" {
		attrs[domain.AttrBuyerName] = name
	}
	if buyer.Phone != "" {
		attrs[domain.AttrBuyerPhone] = buyer.Phone
	}
	return attrs
}

// checkoutFingerprint identifies a cart-contents + buyer combination. Lines
// are serialized in variant order so the fingerprint is stable across map
// iteration order.
func checkoutFingerprint(cart *domain.Cart, buyer domain.Buyer, displayCurrency string) string {
	var b strings.Builder
	b.WriteString(buyer.Email)
	b.WriteString("|")
	b.WriteString(buyer.Phone)
	b.WriteString("|")
	b.WriteString(buyer.FullName())
	b.WriteString("|")
	b.WriteString(displayCurrency)

	lines := make([]domain.CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	sort.Slice(lines, func(i, j int) bool { return lines[i].VariantID < lines[j].VariantID })

	for _, l := range lines {
		fmt.Fprintf(&b, "|%s:%d:%s", l.VariantID, l.Quantity, l.Price.String())

		keys := make([]string, 0, len(l.CustomAttributes))
		for k := range l.CustomAttributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, ";%s=%s", k, l.CustomAttributes[k])
		}
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
