package domain

import "time"

// Buyer is the identity attached to a remote cart for checkout pre-fill and
// order records.
type Buyer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// FullName joins first and last name for the order attributes.
func (b Buyer) FullName() string {
	if b.FirstName == "" {
		return b.LastName
	}
	if b.LastName == "" {
		return b.FirstName
	}
	return b.FirstName + " " + b.LastName
}

// Checkout steps, in protocol order. Each step depends on the prior step's
// output; a failed step is retried against the already-created remote cart
// rather than starting over.
const (
	StepCreateCart       = "create_cart"
	StepAttachAttributes = "attach_attributes"
	StepAttachBuyer      = "attach_buyer"
)

// CheckoutState records the progress of a checkout attempt so a retry after a
// partial failure resumes instead of creating a second remote cart.
type CheckoutState struct {
	// Fingerprint identifies the cart contents + buyer this attempt was
	// started for. A changed cart invalidates the state.
	Fingerprint string `json:"fingerprint"`

	RemoteCartID string `json:"remote_cart_id"`
	CheckoutURL  string `json:"checkout_url"`

	// CompletedSteps holds the steps that committed remotely.
	CompletedSteps []string `json:"completed_steps"`

	StartedAt time.Time `json:"started_at"`
}

// StepDone reports whether a step already committed.
func (s *CheckoutState) StepDone(step string) bool {
	for _, done := range s.CompletedSteps {
		if done == step {
			return true
		}
	}
	return false
}

// CheckoutResult is handed back once every step has succeeded. The caller
// clears the local cart and redirects the browser to the hosted checkout.
type CheckoutResult struct {
	RemoteCartID string `json:"remote_cart_id"`
	CheckoutURL  string `json:"checkout_url"`
}
