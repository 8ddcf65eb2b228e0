package commerce

import (
	"context"

	"github.com/wayfarerhq/storefront/internal/domain"
)

// cartMutationPayload is the shared reply shape of the cart mutations.
type cartMutationPayload struct {
	Cart *struct {
		ID          string `json:"id"`
		CheckoutURL string `json:"checkoutUrl"`
	} `json:"cart"`
	UserErrors []UserError `json:"userErrors"`
}

func (p *cartMutationPayload) result(op string) (*RemoteCart, error) {
	if err := userErrorsToDomain(op, p.UserErrors); err != nil {
		return nil, err
	}
	if p.Cart == nil {
		return nil, domain.Errorf(domain.EUNAVAILABLE, op, "The store returned no cart")
	}
	return &RemoteCart{ID: p.Cart.ID, CheckoutURL: p.Cart.CheckoutURL}, nil
}

// attributeInputs converts a map into the platform's attribute list shape.
func attributeInputs(attributes map[string]string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(attributes))
	for k, v := range attributes {
		out = append(out, map[string]interface{}{"key": k, "value": v})
	}
	return out
}

// lineInputs converts cart line inputs into the mutation variable shape.
func lineInputs(lines []CartLineInput) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(lines))
	for _, l := range lines {
		line := map[string]interface{}{
			"merchandiseId": l.MerchandiseID,
			"quantity":      l.Quantity,
		}
		if len(l.Attributes) > 0 {
			line["attributes"] = attributeInputs(l.Attributes)
		}
		out = append(out, line)
	}
	return out
}

// CreateCart creates a remote cart with the given lines.
func (c *GraphQLClient) CreateCart(ctx context.Context, lines []CartLineInput) (*RemoteCart, error) {
	const op = "commerce.cart_create"

	var payload struct {
		CartCreate cartMutationPayload `json:"cartCreate"`
	}

	vars := map[string]interface{}{
		"input": map[string]interface{}{"lines": lineInputs(lines)},
	}
	if err := c.do(ctx, op, cartCreateMutation, vars, &payload); err != nil {
		return nil, err
	}
	return payload.CartCreate.result(op)
}

// AddCartLines appends lines to an existing remote cart.
func (c *GraphQLClient) AddCartLines(ctx context.Context, cartID string, lines []CartLineInput) (*RemoteCart, error) {
	const op = "commerce.cart_lines_add"

	var payload struct {
		CartLinesAdd cartMutationPayload `json:"cartLinesAdd"`
	}

	vars := map[string]interface{}{
		"cartId": cartID,
		"lines":  lineInputs(lines),
	}
	if err := c.do(ctx, op, cartLinesAddMutation, vars, &payload); err != nil {
		return nil, err
	}
	return payload.CartLinesAdd.result(op)
}

// UpdateCartAttributes sets order-level custom attributes on a remote cart.
func (c *GraphQLClient) UpdateCartAttributes(ctx context.Context, cartID string, attributes map[string]string) (*RemoteCart, error) {
	const op = "commerce.cart_attributes_update"

	var payload struct {
		CartAttributesUpdate cartMutationPayload `json:"cartAttributesUpdate"`
	}

	vars := map[string]interface{}{
		"cartId":     cartID,
		"attributes": attributeInputs(attributes),
	}
	if err := c.do(ctx, op, cartAttributesUpdateMutation, vars, &payload); err != nil {
		return nil, err
	}
	return payload.CartAttributesUpdate.result(op)
}

// UpdateBuyerIdentity attaches the buyer's email and phone to a remote cart.
func (c *GraphQLClient) UpdateBuyerIdentity(ctx context.Context, cartID string, email, phone string) (*RemoteCart, error) {
	const op = "commerce.cart_buyer_identity_update"

	var payload struct {
		CartBuyerIdentityUpdate cartMutationPayload `json:"cartBuyerIdentityUpdate"`
	}

	buyer := map[string]interface{}{"email": email}
	if phone != "" {
		buyer["phone"] = phone
	}

	vars := map[string]interface{}{
		"cartId":        cartID,
		"buyerIdentity": buyer,
	}
	if err := c.do(ctx, op, cartBuyerIdentityUpdateMutation, vars, &payload); err != nil {
		return nil, err
	}
	return payload.CartBuyerIdentityUpdate.result(op)
}
