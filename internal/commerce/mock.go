package commerce

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarerhq/storefront/internal/domain"
)

// MockClient is a mock storefront client for testing. Defaults simulate a
// healthy platform; every method can be overridden per test via the Func
// fields.
type MockClient struct {
	ListExcursionsFunc       func(ctx context.Context, first int) ([]domain.Excursion, error)
	GetExcursionFunc         func(ctx context.Context, id string) (*domain.Excursion, error)
	CreateCartFunc           func(ctx context.Context, lines []CartLineInput) (*RemoteCart, error)
	AddCartLinesFunc         func(ctx context.Context, cartID string, lines []CartLineInput) (*RemoteCart, error)
	UpdateCartAttributesFunc func(ctx context.Context, cartID string, attributes map[string]string) (*RemoteCart, error)
	UpdateBuyerIdentityFunc  func(ctx context.Context, cartID string, email, phone string) (*RemoteCart, error)
	CustomerLoginFunc        func(ctx context.Context, email, password string) (*CustomerToken, error)
	CustomerCreateFunc       func(ctx context.Context, params CustomerCreateParams) error
	CustomerOrdersFunc       func(ctx context.Context, accessToken string, first int, after string) (*OrdersPage, error)

	// CallLog tracks method calls for test assertions.
	CallLog []string
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a mock with default happy-path behavior.
func NewMockClient() *MockClient {
	return &MockClient{CallLog: []string{}}
}

func (m *MockClient) log(format string, args ...interface{}) {
	m.CallLog = append(m.CallLog, fmt.Sprintf(format, args...))
}

// Calls returns how many logged calls start with the given method name.
func (m *MockClient) Calls(method string) int {
	n := 0
	for _, c := range m.CallLog {
		if len(c) >= len(method) && c[:len(method)] == method {
			n++
		}
	}
	return n
}

func (m *MockClient) ListExcursions(ctx context.Context, first int) ([]domain.Excursion, error) {
	m.log("ListExcursions(%d)", first)
	if m.ListExcursionsFunc != nil {
		return m.ListExcursionsFunc(ctx, first)
	}
	return nil, nil
}

func (m *MockClient) GetExcursion(ctx context.Context, id string) (*domain.Excursion, error) {
	m.log("GetExcursion(%s)", id)
	if m.GetExcursionFunc != nil {
		return m.GetExcursionFunc(ctx, id)
	}
	return nil, domain.NotFound("commerce.get_excursion", "excursion", id)
}

func (m *MockClient) CreateCart(ctx context.Context, lines []CartLineInput) (*RemoteCart, error) {
	m.log("CreateCart(%d lines)", len(lines))
	if m.CreateCartFunc != nil {
		return m.CreateCartFunc(ctx, lines)
	}
	id := "gid://cart/" + uuid.New().String()
	return &RemoteCart{ID: id, CheckoutURL: "https://checkout.example.com/" + uuid.New().String()}, nil
}

func (m *MockClient) AddCartLines(ctx context.Context, cartID string, lines []CartLineInput) (*RemoteCart, error) {
	m.log("AddCartLines(%s, %d lines)", cartID, len(lines))
	if m.AddCartLinesFunc != nil {
		return m.AddCartLinesFunc(ctx, cartID, lines)
	}
	return &RemoteCart{ID: cartID, CheckoutURL: "https://checkout.example.com/resume"}, nil
}

func (m *MockClient) UpdateCartAttributes(ctx context.Context, cartID string, attributes map[string]string) (*RemoteCart, error) {
	m.log("UpdateCartAttributes(%s)", cartID)
	if m.UpdateCartAttributesFunc != nil {
		return m.UpdateCartAttributesFunc(ctx, cartID, attributes)
	}
	return &RemoteCart{ID: cartID, CheckoutURL: "https://checkout.example.com/resume"}, nil
}

func (m *MockClient) UpdateBuyerIdentity(ctx context.Context, cartID string, email, phone string) (*RemoteCart, error) {
	m.log("UpdateBuyerIdentity(%s, %s)", cartID, email)
	if m.UpdateBuyerIdentityFunc != nil {
		return m.UpdateBuyerIdentityFunc(ctx, cartID, email, phone)
	}
	return &RemoteCart{ID: cartID, CheckoutURL: "https://checkout.example.com/resume"}, nil
}

func (m *MockClient) CustomerLogin(ctx context.Context, email, password string) (*CustomerToken, error) {
	m.log("CustomerLogin(%s)", email)
	if m.CustomerLoginFunc != nil {
		return m.CustomerLoginFunc(ctx, email, password)
	}
	return &CustomerToken{
		AccessToken: "tok_" + uuid.New().String(),
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}, nil
}

func (m *MockClient) CustomerCreate(ctx context.Context, params CustomerCreateParams) error {
	m.log("CustomerCreate(%s)", params.Email)
	if m.CustomerCreateFunc != nil {
		return m.CustomerCreateFunc(ctx, params)
	}
	return nil
}

func (m *MockClient) CustomerOrders(ctx context.Context, accessToken string, first int, after string) (*OrdersPage, error) {
	m.log("CustomerOrders(first=%d)", first)
	if m.CustomerOrdersFunc != nil {
		return m.CustomerOrdersFunc(ctx, accessToken, first, after)
	}
	return &OrdersPage{}, nil
}
