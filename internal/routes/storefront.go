package routes

import (
	"github.com/wayfarerhq/storefront/internal/router"
)

// RegisterStorefrontRoutes registers the customer-facing booking API.
//
// Credential routes (login, register) are registered separately by the
// caller behind a stricter rate limit.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Session bootstrap and public configuration
	r.Get("/api/session", deps.AuthHandler.Session)
	r.Get("/api/config", deps.SiteHandler.Config)

	// Catalog
	r.Get("/api/excursions", deps.ProductHandler.List)
	r.Get("/api/excursions/{id}", deps.ProductHandler.Detail)

	// Display currencies
	r.Get("/api/currencies", deps.CurrencyHandler.List)

	// Cart
	r.Get("/api/cart", deps.CartHandler.View)
	r.Post("/api/cart/items", deps.CartHandler.Add)
	r.Put("/api/cart/items/{variant_id}", deps.CartHandler.Update)
	r.Delete("/api/cart/items/{variant_id}", deps.CartHandler.Remove)
	r.Delete("/api/cart", deps.CartHandler.Clear)

	// Checkout handoff
	r.Post("/api/checkout", deps.CheckoutHandler.Begin)

	// Orders
	r.Get("/api/orders", deps.OrderHandler.History)
	r.Post("/api/orders/staged", deps.OrderHandler.Stage)
	r.Get("/api/orders/confirmation", deps.OrderHandler.Confirmation)

	// Auth (non-credential routes)
	r.Post("/api/auth/logout", deps.AuthHandler.Logout)

	// Inquiries
	r.Post("/api/contact", deps.ContactHandler.Submit)
}
