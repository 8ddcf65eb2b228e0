// Package contact relays inquiry-form submissions to the external contact
// backend. The bot-verification token is passed through untouched; the
// backend owns verification.
package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wayfarerhq/storefront/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Message is one inquiry submission.
type Message struct {
	Name    string
	Email   string
	Message string

	// VerificationToken is the bot-protection widget's response token.
	VerificationToken string
}

// Sender relays inquiry messages.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Disabled is the Sender used when no contact endpoint is configured.
// Submissions are rejected with a clear message instead of silently dropped.
type Disabled struct{}

func (Disabled) Send(_ context.Context, _ Message) (string, error) {
	return "", domain.Errorf(domain.EUNAVAILABLE, "contact.send", "The contact form is not available right now.")
}

// Client posts inquiries to the configured endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

var _ Sender = (*Client)(nil)

// NewClient builds a contact client for the given endpoint URL.
func NewClient(endpoint string, timeout time.Duration) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("contact: endpoint is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// Send posts the message and returns the backend's confirmation text.
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	const op = "contact.send"

	payload := map[string]string{
		"name":    msg.Name,
		"email":   msg.Email,
		"message": msg.Message,
		"token":   msg.VerificationToken,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", domain.Internal(err, op, "Failed to encode message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", domain.Internal(err, op, "Failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", domain.Unavailable(err, op)
	}
	defer resp.Body.Close()

	var reply struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", domain.Unavailable(fmt.Errorf("failed to decode response: %w", err), op)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if reply.Message != "" {
			return "", domain.Rejected(op, reply.Message)
		}
		return "", domain.Unavailable(fmt.Errorf("contact backend returned status %d", resp.StatusCode), op)
	}

	return reply.Message, nil
}
