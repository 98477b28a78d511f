package pawmart

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

const ordersEndpoint = "/orders"

// orderService implements the OrderService interface
type orderService struct {
	client *Client
}

// Create places an order from the current server cart. Any pending batched
// cart deltas are flushed first so the order reflects what the user sees.
func (s *orderService) Create(ctx context.Context, params *CreateOrderParams) (*Order, error) {
	s.client.Cart.Flush(ctx)

	var order Order
	if err := s.client.do(ctx, http.MethodPost, ordersEndpoint, params, &order); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	// The server empties the cart when the order is accepted
	s.client.cache.Invalidate(cartCacheKey)
	return &order, nil
}

// List retrieves the order history
func (s *orderService) List(ctx context.Context) ([]*Order, error) {
	var orders []*Order
	if err := s.client.do(ctx, http.MethodGet, ordersEndpoint, nil, &orders); err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}
	return orders, nil
}

// Get retrieves a single order
func (s *orderService) Get(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := s.client.do(ctx, http.MethodGet, ordersEndpoint+"/"+orderID, nil, &order); err != nil {
		return nil, errors.Wrap(err, "failed to get order")
	}
	return &order, nil
}

// Cancel cancels a pending order
func (s *orderService) Cancel(ctx context.Context, orderID string) error {
	if err := s.client.do(ctx, http.MethodPut, ordersEndpoint+"/"+orderID+"/cancel", nil, nil); err != nil {
		return errors.Wrap(err, "failed to cancel order")
	}
	return nil
}
