// Package currency presents base-currency prices in a visitor's chosen
// display currency. Conversion is display-only: settlement always happens in
// the base currency, and nothing in this package ever feeds back into an
// amount sent to checkout.
package currency

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/wayfarerhq/storefront/internal/domain"
)

// Placement says which side of the amount the symbol sits on.
type Placement string

const (
	Before Placement = "before"
	After  Placement = "after"
)

// Currency is one entry in the closed set of supported display currencies.
type Currency struct {
	Code      string          `json:"code"`
	Symbol    string          `json:"symbol"`
	Placement Placement       `json:"placement"`
	Rate      decimal.Decimal `json:"rate"` // units of this currency per one base unit
}

// displayExponent is the rounding precision for display amounts. All
// supported currencies use two decimal places.
const displayExponent = 2

// table is the fixed rate table relative to the base currency (AED).
// Rates are periodically maintained by hand; they are display hints, not
// settlement rates.
var table = map[string]Currency{
	"AED": {Code: "AED", Symbol: "AED", Placement: After, Rate: decimal.NewFromInt(1)},
	"USD": {Code: "USD", Symbol: "$", Placement: Before, Rate: decimal.RequireFromString("0.27")},
	"EUR": {Code: "EUR", Symbol: "€", Placement: Before, Rate: decimal.RequireFromString("0.25")},
	"GBP": {Code: "GBP", Symbol: "£", Placement: Before, Rate: decimal.RequireFromString("0.21")},
	"SAR": {Code: "SAR", Symbol: "SAR", Placement: After, Rate: decimal.RequireFromString("1.02")},
	"INR": {Code: "INR", Symbol: "₹", Placement: Before, Rate: decimal.RequireFromString("23.7")},
}

// BaseCode is the settlement currency every catalog price is quoted in.
const BaseCode = "AED"

// Converter resolves display currencies against the fixed table. It is
// constructed once and passed to the consumers that need it; the selected
// display currency itself is per-request state, never process-wide.
type Converter struct {
	base string
}

// NewConverter builds a converter for the given base currency code.
// The base must be part of the supported set.
func NewConverter(base string) (*Converter, error) {
	if _, ok := table[base]; !ok {
		return nil, domain.Errorf(domain.EINVALID, "currency.new", "unsupported base currency: %s", base)
	}
	return &Converter{base: base}, nil
}

// Base returns the base currency code.
func (c *Converter) Base() string {
	return c.base
}

// Lookup validates a currency code at the boundary where a visitor selects
// it. Unknown codes are rejected rather than defaulted.
func (c *Converter) Lookup(code string) (Currency, error) {
	cur, ok := table[code]
	if !ok {
		return Currency{}, domain.Errorf(domain.EINVALID, "currency.lookup", "unsupported currency: %s", code)
	}
	return cur, nil
}

// Supported lists the supported currencies, base first then alphabetical.
func (c *Converter) Supported() []Currency {
	out := make([]Currency, 0, len(table))
	for _, cur := range table {
		out = append(out, cur)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code == c.base {
			return true
		}
		if out[j].Code == c.base {
			return false
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Convert turns a base-currency amount into a display amount in the target
// currency, rounded half away from zero to two decimal places. The input is
// never mutated and must keep being used for anything settlement-related.
func (c *Converter) Convert(baseAmount decimal.Decimal, code string) (decimal.Decimal, error) {
	cur, err := c.Lookup(code)
	if err != nil {
		return decimal.Zero, err
	}
	if code == c.base {
		return baseAmount.Round(displayExponent), nil
	}
	return baseAmount.Mul(cur.Rate).Round(displayExponent), nil
}

// Format renders a display amount with the currency's symbol convention.
func (c *Converter) Format(amount decimal.Decimal, code string) (string, error) {
	cur, err := c.Lookup(code)
	if err != nil {
		return "", err
	}
	fixed := amount.StringFixed(displayExponent)
	if cur.Placement == After {
		return fixed + " " + cur.Symbol, nil
	}
	return cur.Symbol + fixed, nil
}
