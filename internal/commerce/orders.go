package commerce

import (
	"context"
	"time"

	"github.com/wayfarerhq/storefront/internal/domain"
)

// CustomerOrders pages through the customer's order history. A nil customer
// in the reply means the access token is no longer valid - the reactive
// expiry path.
func (c *GraphQLClient) CustomerOrders(ctx context.Context, accessToken string, first int, after string) (*OrdersPage, error) {
	const op = "commerce.customer_orders"

	var payload struct {
		Customer *struct {
			Orders struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Edges []struct {
					Node struct {
						OrderNumber       int          `json:"orderNumber"`
						ProcessedAt       string       `json:"processedAt"`
						FinancialStatus   string       `json:"financialStatus"`
						FulfillmentStatus string       `json:"fulfillmentStatus"`
						TotalPrice        moneyPayload `json:"totalPrice"`
						LineItems         struct {
							Edges []struct {
								Node struct {
									Title              string       `json:"title"`
									Quantity           int          `json:"quantity"`
									OriginalTotalPrice moneyPayload `json:"originalTotalPrice"`
									Variant            *struct {
										Image *struct {
											URL string `json:"url"`
										} `json:"image"`
									} `json:"variant"`
								} `json:"node"`
							} `json:"edges"`
						} `json:"lineItems"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"orders"`
		} `json:"customer"`
	}

	vars := map[string]interface{}{
		"token": accessToken,
		"first": first,
	}
	if after != "" {
		vars["after"] = after
	}
	if err := c.do(ctx, op, customerOrdersQuery, vars, &payload); err != nil {
		return nil, err
	}

	if payload.Customer == nil {
		return nil, domain.Unauthorized(op, "Your session has expired. Please sign in again.")
	}

	page := &OrdersPage{
		HasNextPage: payload.Customer.Orders.PageInfo.HasNextPage,
		EndCursor:   payload.Customer.Orders.PageInfo.EndCursor,
	}

	for _, edge := range payload.Customer.Orders.Edges {
		node := edge.Node
		order := domain.Order{
			OrderNumber:       node.OrderNumber,
			FinancialStatus:   node.FinancialStatus,
			FulfillmentStatus: node.FulfillmentStatus,
			Total:             node.TotalPrice.decimal(),
			Currency:          node.TotalPrice.CurrencyCode,
		}
		if processed, err := time.Parse(time.RFC3339, node.ProcessedAt); err == nil {
			order.ProcessedAt = processed
		}
		for _, li := range node.LineItems.Edges {
			line := domain.OrderLine{
				Title:    li.Node.Title,
				Quantity: li.Node.Quantity,
				Price:    li.Node.OriginalTotalPrice.decimal(),
			}
			if li.Node.Variant != nil && li.Node.Variant.Image != nil {
				line.Image = li.Node.Variant.Image.URL
			}
			order.Lines = append(order.Lines, line)
		}
		page.Orders = append(page.Orders, order)
	}

	return page, nil
}
