package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wayfarerhq/storefront/internal/domain"
)

const (
	defaultAPIVersion = "2024-07"
	defaultTimeout    = 10 * time.Second
	accessTokenHeader = "X-Storefront-Access-Token"
)

// Config holds the platform connection settings, resolved once at start.
type Config struct {
	// StoreDomain is the platform host, e.g. "shop.example.com".
	StoreDomain string

	// AccessToken is the public storefront API token.
	AccessToken string

	// APIVersion selects the storefront API version path segment.
	APIVersion string

	// Timeout bounds every remote call. The platform defines none, so the
	// client imposes one and reports expiry as a network error.
	Timeout time.Duration
}

// GraphQLClient implements Client against the platform's GraphQL endpoint.
type GraphQLClient struct {
	endpoint string
	token    string
	http     *http.Client
}

// compile-time interface check
var _ Client = (*GraphQLClient)(nil)

// NewGraphQLClient validates the config and builds a client.
func NewGraphQLClient(cfg Config) (*GraphQLClient, error) {
	if cfg.StoreDomain == "" {
		return nil, fmt.Errorf("commerce: store domain is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("commerce: storefront access token is required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	domainHost := strings.TrimSuffix(strings.TrimPrefix(cfg.StoreDomain, "https://"), "/")

	return &GraphQLClient{
		endpoint: fmt.Sprintf("https://%s/api/%s/graphql.json", domainHost, cfg.APIVersion),
		token:    cfg.AccessToken,
		http:     &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// graphqlRequest is the wire envelope for a query/mutation call.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphqlResponse is the wire envelope of the reply. Errors here are
// query-level failures, distinct from mutation user errors.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// do executes one GraphQL call and unmarshals the data payload into out.
// Transport failures (including client-side timeout) map to EUNAVAILABLE.
func (c *GraphQLClient) do(ctx context.Context, op, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return domain.Internal(err, op, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Internal(err, op, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(accessTokenHeader, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Unavailable(err, op)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Unavailable(fmt.Errorf("storefront API returned status %d", resp.StatusCode), op)
	}

	var envelope graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return domain.Unavailable(fmt.Errorf("failed to decode response: %w", err), op)
	}

	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return domain.Internal(fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; ")), op, "The store could not process the request")
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return domain.Internal(err, op, "failed to decode response data")
		}
	}

	return nil
}
