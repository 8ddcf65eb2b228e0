package commerce

import (
	"strings"

	"github.com/wayfarerhq/storefront/internal/domain"
)

// UserError is a structured, user-facing rejection from a platform mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// userErrorsToDomain folds a mutation's user-error list into a single
// EREJECTED error, keeping the platform's wording verbatim.
func userErrorsToDomain(op string, errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return domain.Rejected(op, strings.Join(msgs, "; "))
}

// userErrorsToUnauthorized is the login variant: rejected credentials are an
// authentication failure, not a generic platform rejection.
func userErrorsToUnauthorized(op string, errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return domain.Unauthorized(op, strings.Join(msgs, "; "))
}
