package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Attribute keys recorded on cart lines so the platform's back office sees
// booking context its line-item schema does not model.
const (
	AttrBookingDate      = "Booking Date"
	AttrAdults           = "Adults"
	AttrChildren         = "Children"
	AttrTotalGuests      = "Total Guests"
	AttrDisplayCurrency  = "Viewed Currency"
	AttrCheckoutType     = "Checkout Type"
	AttrBuyerName        = "Customer Name"
	AttrBuyerPhone       = "Customer Phone"
	CheckoutTypeStandard = "excursion-booking"
)

// CartLine is one entry in a visitor's cart: a variant, a quantity, and the
// booking metadata captured at add time. Title, price and image are
// denormalized snapshots so the cart renders without refetching the catalog.
// Price is always in the base currency.
type CartLine struct {
	VariantID        string            `json:"variant_id"`
	ProductID        string            `json:"product_id"`
	Title            string            `json:"title"`
	Price            decimal.Decimal   `json:"price"`
	Image            string            `json:"image"`
	Quantity         int               `json:"quantity"`
	CustomAttributes map[string]string `json:"custom_attributes,omitempty"`
}

// Subtotal returns price x quantity in the base currency.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the ordered collection of a session's pending selections.
// Lines are keyed by VariantID: at most one line per variant. Re-adding a
// variant sums quantities and the newest add's custom attributes win.
type Cart struct {
	// ID is the visitor session token the cart is stored under.
	ID    string     `json:"id"`
	Lines []CartLine `json:"lines"`

	// RemoteID is the platform cart identifier once a mirror exists.
	RemoteID  string    `json:"remote_id,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Line returns the line for a variant, or nil if absent.
func (c *Cart) Line(variantID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].VariantID == variantID {
			return &c.Lines[i]
		}
	}
	return nil
}

// ItemCount is the sum of line quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the base-currency sum over lines of price x quantity.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Clone returns a deep copy, used for the tentative-state snapshot around
// remote round-trips.
func (c *Cart) Clone() *Cart {
	out := &Cart{
		ID:        c.ID,
		RemoteID:  c.RemoteID,
		UpdatedAt: c.UpdatedAt,
		Lines:     make([]CartLine, len(c.Lines)),
	}
	copy(out.Lines, c.Lines)
	for i, l := range c.Lines {
		if l.CustomAttributes != nil {
			attrs := make(map[string]string, len(l.CustomAttributes))
			for k, v := range l.CustomAttributes {
				attrs[k] = v
			}
			out.Lines[i].CustomAttributes = attrs
		}
	}
	return out
}

// CartSummary is the view of a cart handed to consumers: lines plus derived
// totals, with the subtotal also converted into the requested display
// currency. The display amount is presentation metadata only; checkout always
// receives the base-currency subtotal.
type CartSummary struct {
	Cart             *Cart
	ItemCount        int
	Subtotal         decimal.Decimal
	DisplayCurrency  string
	DisplaySubtotal  decimal.Decimal
	DisplayFormatted string
}
