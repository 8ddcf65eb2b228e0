package domain

import (
	"github.com/shopspring/decimal"
)

// Excursion is a bookable tour product. All fields come from the remote
// catalog; the application never mutates an excursion.
type Excursion struct {
	ID              string
	Handle          string
	Title           string
	Description     string
	DescriptionHTML string

	// Price is in the base (settlement) currency.
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal // compare-at price for discount display, nil if none

	Images []string

	// Booking metadata carried as custom key/value fields on the platform.
	Location     string
	Duration     string
	Rating       float64 // 0-5
	ReviewsCount int
	GroupSize    string

	Variants []Variant
}

// Variant is a purchasable option of an excursion. Every excursion has at
// least one variant; bookings always use the first.
type Variant struct {
	ID        string
	Title     string
	Price     decimal.Decimal
	Available bool
}

// BookingVariant returns the variant used for bookings (the first one).
// Returns false if the excursion has no variants.
func (e *Excursion) BookingVariant() (Variant, bool) {
	if len(e.Variants) == 0 {
		return Variant{}, false
	}
	return e.Variants[0], true
}

// ExcursionSort enumerates supported listing sort orders.
type ExcursionSort string

const (
	SortDefault   ExcursionSort = ""
	SortPriceAsc  ExcursionSort = "price_asc"
	SortPriceDesc ExcursionSort = "price_desc"
	SortRating    ExcursionSort = "rating"
)

// ExcursionFilter narrows a listing. Zero values mean "no constraint".
type ExcursionFilter struct {
	Location string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     ExcursionSort
}
