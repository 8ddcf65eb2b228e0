package service

import (
	"github.com/wayfarerhq/storefront/internal/domain"
)

// Catalog errors
var (
	ErrExcursionNotFound = domain.Errorf(domain.ENOTFOUND, "", "Excursion not found")
	ErrNoVariants        = domain.Errorf(domain.EINVALID, "", "Excursion has no bookable option")
)

// Cart errors
var (
	ErrInvalidQuantity = domain.Errorf(domain.EINVALID, "", "Quantity must be at least 1")
	ErrMissingVariant  = domain.Errorf(domain.EINVALID, "", "A bookable option is required")
	ErrNegativePrice   = domain.Errorf(domain.EINVALID, "", "Price must not be negative")
)

// Checkout errors
var (
	ErrCartEmpty         = domain.Errorf(domain.EINVALID, "", "Your cart is empty")
	ErrCheckoutInFlight  = domain.Errorf(domain.ECONFLICT, "", "Checkout is already in progress")
	ErrMissingBuyerEmail = domain.Errorf(domain.EINVALID, "", "An email address is required for checkout")
)

// Auth errors
var (
	ErrNotAuthenticated = domain.Errorf(domain.EUNAUTHORIZED, "", "Please sign in to continue")
)
