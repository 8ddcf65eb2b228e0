package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Platform status enums as returned by the orders query.
const (
	FinancialPending       = "PENDING"
	FinancialAuthorized    = "AUTHORIZED"
	FinancialPaid          = "PAID"
	FinancialRefunded      = "REFUNDED"
	FulfillmentUnfulfilled = "UNFULFILLED"
	FulfillmentPartial     = "PARTIALLY_FULFILLED"
	FulfillmentFulfilled   = "FULFILLED"
)

// OrderLine is a snapshot line on a completed order.
type OrderLine struct {
	Title    string          `json:"title"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

// Order is a read-only projection of a platform order. Created by the
// platform, never mutated here.
type Order struct {
	OrderNumber       int             `json:"order_number"`
	ProcessedAt       time.Time       `json:"processed_at"`
	FinancialStatus   string          `json:"financial_status"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	Total             decimal.Decimal `json:"total"`
	Currency          string          `json:"currency"`
	Lines             []OrderLine     `json:"lines"`
}

// DisplayStatus collapses the platform's financial/fulfillment enums into the
// single status the storefront shows.
func (o Order) DisplayStatus() string {
	switch o.FulfillmentStatus {
	case FulfillmentFulfilled:
		return "Completed"
	case FulfillmentPartial:
		return "In Progress"
	}
	switch o.FinancialStatus {
	case FinancialRefunded:
		return "Refunded"
	case FinancialPaid, FinancialAuthorized:
		return "Confirmed"
	}
	return "Processing"
}
