package commerce

import (
	"context"
	"time"

	"github.com/wayfarerhq/storefront/internal/domain"
)

// CustomerLogin exchanges credentials for a platform access token.
func (c *GraphQLClient) CustomerLogin(ctx context.Context, email, password string) (*CustomerToken, error) {
	const op = "commerce.customer_login"

	var payload struct {
		CustomerAccessTokenCreate struct {
			CustomerAccessToken *struct {
				AccessToken string `json:"accessToken"`
				ExpiresAt   string `json:"expiresAt"`
			} `json:"customerAccessToken"`
			CustomerUserErrors []UserError `json:"customerUserErrors"`
		} `json:"customerAccessTokenCreate"`
	}

	vars := map[string]interface{}{
		"input": map[string]interface{}{
			"email":    email,
			"password": password,
		},
	}
	if err := c.do(ctx, op, customerAccessTokenCreateMutation, vars, &payload); err != nil {
		return nil, err
	}

	result := payload.CustomerAccessTokenCreate
	if err := userErrorsToUnauthorized(op, result.CustomerUserErrors); err != nil {
		return nil, err
	}
	if result.CustomerAccessToken == nil {
		return nil, domain.Unauthorized(op, "Invalid email or password")
	}

	token := &CustomerToken{AccessToken: result.CustomerAccessToken.AccessToken}
	if expires, err := time.Parse(time.RFC3339, result.CustomerAccessToken.ExpiresAt); err == nil {
		token.ExpiresAt = expires
	}
	return token, nil
}

// CustomerCreate registers a new customer account.
func (c *GraphQLClient) CustomerCreate(ctx context.Context, params CustomerCreateParams) error {
	const op = "commerce.customer_create"

	var payload struct {
		CustomerCreate struct {
			Customer *struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"customer"`
			CustomerUserErrors []UserError `json:"customerUserErrors"`
		} `json:"customerCreate"`
	}

	vars := map[string]interface{}{
		"input": map[string]interface{}{
			"email":     params.Email,
			"password":  params.Password,
			"firstName": params.FirstName,
			"lastName":  params.LastName,
		},
	}
	if err := c.do(ctx, op, customerCreateMutation, vars, &payload); err != nil {
		return err
	}

	result := payload.CustomerCreate
	if err := userErrorsToDomain(op, result.CustomerUserErrors); err != nil {
		return err
	}
	if result.Customer == nil {
		return domain.Errorf(domain.EUNAVAILABLE, op, "The store returned no customer")
	}
	return nil
}
