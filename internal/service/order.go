package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/wayfarerhq/storefront/internal/commerce"
	"github.com/wayfarerhq/storefront/internal/domain"
	"github.com/wayfarerhq/storefront/internal/kv"
)

const (
	// ordersCacheTTL keeps the first history page warm between views.
	ordersCacheTTL = 5 * time.Minute

	// stagedOrderTTL covers the gap between order creation and redirect.
	stagedOrderTTL = 15 * time.Minute

	defaultOrdersPageSize = 10
)

// OrderService is the read-only projection of the customer's platform
// orders, plus the briefly-staged snapshot shown on the confirmation view.
type OrderService interface {
	// History pages through the authenticated customer's orders,
	// reverse-chronological. The first page is cached per session; the
	// cache dies on logout. An expired token surfaces as EUNAUTHORIZED.
	History(ctx context.Context, sessionID string, first int, after string) (*commerce.OrdersPage, error)

	// Stage keeps an order snapshot for the confirmation view between
	// order creation and the checkout redirect.
	Stage(ctx context.Context, sessionID string, order domain.Order) error

	// TakeStaged pops the staged snapshot, if any.
	TakeStaged(ctx context.Context, sessionID string) (*domain.Order, error)
}

type orderService struct {
	store  kv.Store
	client commerce.Client
	auth   AuthService
}

// NewOrderService creates an OrderService.
func NewOrderService(store kv.Store, client commerce.Client, auth AuthService) OrderService {
	return &orderService{
		store:  store,
		client: client,
		auth:   auth,
	}
}

func (s *orderService) History(ctx context.Context, sessionID string, first int, after string) (*commerce.OrdersPage, error) {
	session, err := s.auth.Restore(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	if first <= 0 {
		first = defaultOrdersPageSize
	}

	firstPage := after == "" && first == defaultOrdersPageSize
	if firstPage {
		if page := s.cached(ctx, sessionID); page != nil {
			return page, nil
		}
	}

	page, err := s.client.CustomerOrders(ctx, session.AccessToken, first, after)
	if err != nil {
		return nil, err
	}

	if firstPage {
		if data, err := json.Marshal(page); err == nil {
			_ = s.store.Set(ctx, ordersKey(sessionID), data, ordersCacheTTL)
		}
	}

	return page, nil
}

// cached returns the cached first page, or nil on any miss or decode issue.
func (s *orderService) cached(ctx context.Context, sessionID string) *commerce.OrdersPage {
	data, err := s.store.Get(ctx, ordersKey(sessionID))
	if err != nil {
		return nil
	}
	var page commerce.OrdersPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil
	}
	return &page
}

func (s *orderService) Stage(ctx context.Context, sessionID string, order domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return domain.Internal(err, "order.stage", "Failed to stage order")
	}
	if err := s.store.Set(ctx, stagedKey(sessionID), data, stagedOrderTTL); err != nil {
		return domain.Internal(err, "order.stage", "Failed to stage order")
	}
	return nil
}

func (s *orderService) TakeStaged(ctx context.Context, sessionID string) (*domain.Order, error) {
	data, err := s.store.Get(ctx, stagedKey(sessionID))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Internal(err, "order.take_staged", "Failed to load staged order")
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, domain.Internal(err, "order.take_staged", "Failed to load staged order")
	}

	_ = s.store.Delete(ctx, stagedKey(sessionID))
	return &order, nil
}
