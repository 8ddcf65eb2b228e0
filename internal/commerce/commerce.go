// Package commerce is the typed client for the remote platform's storefront
// API. Everything durable - catalog, carts, customers, orders - lives on the
// platform; this package maps its GraphQL shapes onto domain records and its
// failure modes onto the domain error taxonomy.
package commerce

import (
	"context"
	"time"

	"github.com/wayfarerhq/storefront/internal/domain"
)

// Client issues query/mutation calls against the platform storefront API.
type Client interface {
	// ListExcursions fetches up to first products with their booking
	// metadata. Read failures degrade the listing view; they are reported,
	// never fatal.
	ListExcursions(ctx context.Context, first int) ([]domain.Excursion, error)

	// GetExcursion fetches a single product by its platform ID.
	GetExcursion(ctx context.Context, id string) (*domain.Excursion, error)

	// CreateCart creates a remote cart with the given lines. Platform
	// user errors (variant unavailable, etc.) come back as EREJECTED.
	CreateCart(ctx context.Context, lines []CartLineInput) (*RemoteCart, error)

	// AddCartLines appends lines to an existing remote cart.
	AddCartLines(ctx context.Context, cartID string, lines []CartLineInput) (*RemoteCart, error)

	// UpdateCartAttributes sets order-level custom attributes on a remote
	// cart so the booking context reaches the platform's back office.
	UpdateCartAttributes(ctx context.Context, cartID string, attributes map[string]string) (*RemoteCart, error)

	// UpdateBuyerIdentity attaches the buyer's email and phone for
	// checkout pre-fill.
	UpdateBuyerIdentity(ctx context.Context, cartID string, email, phone string) (*RemoteCart, error)

	// CustomerLogin exchanges credentials for an access token. Rejected
	// credentials come back as EUNAUTHORIZED with the platform's message.
	CustomerLogin(ctx context.Context, email, password string) (*CustomerToken, error)

	// CustomerCreate registers a new customer account.
	CustomerCreate(ctx context.Context, params CustomerCreateParams) error

	// CustomerOrders pages through the customer's order history,
	// reverse-chronological.
	CustomerOrders(ctx context.Context, accessToken string, first int, after string) (*OrdersPage, error)
}

// CartLineInput is one line of a cart mutation: a merchandise (variant) ID, a
// quantity, and the per-line booking attributes.
type CartLineInput struct {
	MerchandiseID string
	Quantity      int
	Attributes    map[string]string
}

// RemoteCart is the platform's view of a cart after a mutation.
type RemoteCart struct {
	ID          string
	CheckoutURL string
}

// CustomerToken is a platform-issued bearer token with its remote expiry.
// The expiry is informational; freshness is only discovered reactively.
type CustomerToken struct {
	AccessToken string
	ExpiresAt   time.Time
}

// CustomerCreateParams are the fields for account registration.
type CustomerCreateParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// OrdersPage is one page of a customer's order history.
type OrdersPage struct {
	Orders      []domain.Order
	HasNextPage bool
	EndCursor   string
}
