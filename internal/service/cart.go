package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wayfarerhq/storefront/internal/commerce"
	"github.com/wayfarerhq/storefront/internal/currency"
	"github.com/wayfarerhq/storefront/internal/domain"
	"github.com/wayfarerhq/storefront/internal/kv"
)

// cartTTL matches the visitor session horizon: an untouched cart survives
// reloads for 30 days, like the original local-storage cart.
const cartTTL = 30 * 24 * time.Hour

// CartService is the single source of truth for a visitor's pending
// selections prior to checkout handoff.
type CartService interface {
	// Get loads the session's cart. An absent cart is an empty cart, not
	// an error.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// AddItem appends a line or merges into an existing line with the
	// same variant: quantities are summed and the new add's custom
	// attributes replace the old ones. The add is two-phase: the merged
	// cart is only persisted after the remote mirror call succeeds, so a
	// failed or timed-out call leaves the cart exactly as it was.
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.Cart, error)

	// UpdateQuantity sets a line's quantity. Values below 1 are rejected;
	// callers route zero to RemoveItem. No-op if the variant is absent.
	// Local-only: no remote round-trip.
	UpdateQuantity(ctx context.Context, sessionID, variantID string, quantity int) (*domain.Cart, error)

	// RemoveItem removes the line if present. Idempotent; removing an
	// absent variant is not an error. Local-only.
	RemoveItem(ctx context.Context, sessionID, variantID string) (*domain.Cart, error)

	// Clear empties the cart and drops any checkout progress. Used after
	// order confirmation and on logout.
	Clear(ctx context.Context, sessionID string) error

	// Summary returns the cart with derived totals, converting the
	// subtotal into the requested display currency. The base-currency
	// subtotal is untouched; the display amount never reaches checkout.
	Summary(ctx context.Context, sessionID, displayCurrency string) (*domain.CartSummary, error)
}

// AddItemInput carries the add-time snapshot for a new cart line.
type AddItemInput struct {
	VariantID        string
	ProductID        string
	Title            string
	Price            decimal.Decimal
	Image            string
	Quantity         int
	CustomAttributes map[string]string
}

type cartService struct {
	store     kv.Store
	client    commerce.Client
	converter *currency.Converter
	locks     *sessionLocks
}

// NewCartService creates a CartService backed by the given KV store and
// platform client.
func NewCartService(store kv.Store, client commerce.Client, converter *currency.Converter) CartService {
	return &cartService{
		store:     store,
		client:    client,
		converter: converter,
		locks:     newSessionLocks(),
	}
}

func (s *cartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.load(ctx, sessionID)
}

func (s *cartService) load(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := s.store.Get(ctx, cartKey(sessionID))
	if errors.Is(err, kv.ErrNotFound) {
		return &domain.Cart{ID: sessionID}, nil
	}
	if err != nil {
		return nil, domain.Internal(err, "cart.load", "Failed to load cart")
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, domain.Internal(err, "cart.load", "Failed to load cart")
	}
	return &cart, nil
}

func (s *cartService) save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(cart)
	if err != nil {
		return domain.Internal(err, "cart.save", "Failed to save cart")
	}
	if err := s.store.Set(ctx, cartKey(cart.ID), data, cartTTL); err != nil {
		return domain.Internal(err, "cart.save", "Failed to save cart")
	}
	return nil
}

func (s *cartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.Cart, error) {
	if input.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if input.VariantID == "" {
		return nil, ErrMissingVariant
	}
	if input.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Merge into a tentative copy; the stored cart stays untouched until
	// the remote call commits.
	tentative := cart.Clone()
	if line := tentative.Line(input.VariantID); line != nil {
		line.Quantity += input.Quantity
		line.CustomAttributes = input.CustomAttributes
	} else {
		tentative.Lines = append(tentative.Lines, domain.CartLine{
			VariantID:        input.VariantID,
			ProductID:        input.ProductID,
			Title:            input.Title,
			Price:            input.Price,
			Image:            input.Image,
			Quantity:         input.Quantity,
			CustomAttributes: input.CustomAttributes,
		})
	}

	remoteLine := []commerce.CartLineInput{{
		MerchandiseID: input.VariantID,
		Quantity:      input.Quantity,
		Attributes:    input.CustomAttributes,
	}}

	// The mirror call doubles as the availability check. Checkout later
	// rebuilds the authoritative remote cart from local state, so a
	// diverged mirror cannot reach an order.
	if tentative.RemoteID == "" {
		remote, err := s.client.CreateCart(ctx, remoteLine)
		if err != nil {
			return nil, err
		}
		tentative.RemoteID = remote.ID
	} else {
		if _, err := s.client.AddCartLines(ctx, tentative.RemoteID, remoteLine); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, tentative); err != nil {
		return nil, err
	}
	return tentative, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, sessionID, variantID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line := cart.Line(variantID)
	if line == nil {
		return cart, nil
	}
	line.Quantity = quantity

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) RemoveItem(ctx context.Context, sessionID, variantID string) (*domain.Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := cart.Lines[:0]
	removed := false
	for _, l := range cart.Lines {
		if l.VariantID == variantID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	cart.Lines = kept

	if !removed {
		return cart, nil
	}

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	if err := s.store.Delete(ctx, cartKey(sessionID)); err != nil {
		return domain.Internal(err, "cart.clear", "Failed to clear cart")
	}
	// Checkout progress is meaningless without the cart it was started for.
	if err := s.store.Delete(ctx, checkoutKey(sessionID)); err != nil {
		return domain.Internal(err, "cart.clear", "Failed to clear checkout state")
	}
	return nil
}

func (s *cartService) Summary(ctx context.Context, sessionID, displayCurrency string) (*domain.CartSummary, error) {
	if displayCurrency == "" {
		displayCurrency = s.converter.Base()
	}

	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	subtotal := cart.Subtotal()
	display, err := s.converter.Convert(subtotal, displayCurrency)
	if err != nil {
		return nil, err
	}
	formatted, err := s.converter.Format(display, displayCurrency)
	if err != nil {
		return nil, err
	}

	return &domain.CartSummary{
		Cart:             cart,
		ItemCount:        cart.ItemCount(),
		Subtotal:         subtotal,
		DisplayCurrency:  displayCurrency,
		DisplaySubtotal:  display,
		DisplayFormatted: formatted,
	}, nil
}
