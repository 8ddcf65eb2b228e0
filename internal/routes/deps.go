package routes

import (
	"github.com/wayfarerhq/storefront/internal/handler/storefront"
)

// StorefrontDeps contains the handlers for the booking API routes.
type StorefrontDeps struct {
	// Catalog
	ProductHandler *storefront.ProductHandler

	// Cart
	CartHandler *storefront.CartHandler

	// Checkout handoff
	CheckoutHandler *storefront.CheckoutHandler

	// Auth (login, register, logout, session bootstrap)
	AuthHandler *storefront.AuthHandler

	// Order history and confirmation
	OrderHandler *storefront.OrderHandler

	// Display currencies
	CurrencyHandler *storefront.CurrencyHandler

	// Inquiry form relay
	ContactHandler *storefront.ContactHandler

	// Public front-end configuration
	SiteHandler *storefront.SiteHandler
}
