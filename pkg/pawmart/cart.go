package pawmart

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	cartEndpoint      = "/carts"
	cartItemsEndpoint = "/carts/items"

	// cartCacheKey is the cache key the cached cart lives under
	cartCacheKey = "cart"
)

// cartService implements CartService. Mutations apply to the cached cart
// immediately and reconcile with the server asynchronously: every fallible
// mutation snapshots the cache first and restores it verbatim on failure.
// Unauthenticated clients get a local-only guest cart that is never synced.
type cartService struct {
	client   *Client
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*pendingLine
	guest   *Cart
}

// pendingLine accumulates not-yet-sent quantity deltas for one cart line.
// The snapshot is the cache state before the first optimistic apply of the
// window, so a failed flush can restore everything the window touched.
type pendingLine struct {
	delta    int
	timer    *time.Timer
	snapshot *Cart
}

func newCartService(client *Client) *cartService {
	return &cartService{
		client:   client,
		debounce: client.options.CartDebounce,
		pending:  map[string]*pendingLine{},
		guest:    &Cart{},
	}
}

// Get returns the current cart. For authenticated clients the server cart is
// fetched once and cached; concurrent first fetches share a single request.
func (s *cartService) Get(ctx context.Context) (*Cart, error) {
	if !s.client.isAuthenticated() {
		s.mu.Lock()
		defer s.mu.Unlock()
		return cloneCart(s.guest), nil
	}

	v, err := s.client.cache.Fetch(cartCacheKey, func() (interface{}, error) {
		var cart Cart
		if err := s.client.do(ctx, http.MethodGet, cartEndpoint, nil, &cart); err != nil {
			return nil, errors.Wrap(err, "failed to fetch cart")
		}
		return &cart, nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCart(v.(*Cart)), nil
}

// AddItem merges line into the cart. An existing line for the same product
// variant has its quantity incremented; otherwise the line is appended under
// a temporary identifier until the server assigns a real one. The server
// call failing leaves the optimistic line in place; the caller decides how
// to surface the error.
func (s *cartService) AddItem(ctx context.Context, line *CartLine) error {
	qty := line.Quantity
	if qty < 1 {
		qty = 1
	}

	if !s.client.isAuthenticated() {
		s.mu.Lock()
		mergeLine(s.guest, line, qty, "guest-"+uuid.New().String())
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	cart := cloneCart(s.cachedCart())
	mergeLine(cart, line, qty, "tmp-"+uuid.New().String())
	s.client.cache.Set(cartCacheKey, cart)
	s.mu.Unlock()

	if err := s.client.do(ctx, http.MethodPost, cartItemsEndpoint, map[string]interface{}{
		"productVariantId": line.ProductVariantID,
		"quantity":         qty,
	}, nil); err != nil {
		return errors.Wrap(err, "failed to add cart item")
	}

	// Refetch so the temporary line ID is replaced by the server-assigned one
	s.client.cache.Invalidate(cartCacheKey)
	return nil
}

// UpdateQuantity applies delta to the line immediately and sends it to the
// server. A computed quantity <= 0 removes the line. Failure restores the
// pre-mutation snapshot.
func (s *cartService) UpdateQuantity(ctx context.Context, productVariantID string, delta int) error {
	if !s.client.isAuthenticated() {
		s.mu.Lock()
		applyDelta(s.guest, productVariantID, delta)
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	snapshot := cloneCart(s.cachedCart())
	cart := cloneCart(snapshot)
	applyDelta(cart, productVariantID, delta)
	s.client.cache.Set(cartCacheKey, cart)
	s.mu.Unlock()

	return s.sendDelta(ctx, productVariantID, delta, snapshot)
}

// BatchUpdateQuantity applies delta optimistically and accumulates it into
// the line's pending total, (re)arming the debounce timer. When the timer
// fires the net delta goes out as one server call; a net of zero sends
// nothing. Rapid clicks on one line therefore cost at most one request per
// window.
func (s *cartService) BatchUpdateQuantity(productVariantID string, delta int) {
	if !s.client.isAuthenticated() {
		s.mu.Lock()
		applyDelta(s.guest, productVariantID, delta)
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.pending[productVariantID]
	if entry == nil {
		entry = &pendingLine{snapshot: cloneCart(s.cachedCart())}
		s.pending[productVariantID] = entry
	}

	cart := cloneCart(s.cachedCart())
	applyDelta(cart, productVariantID, delta)
	s.client.cache.Set(cartCacheKey, cart)

	entry.delta += delta
	if entry.timer != nil {
		entry.timer.Stop()
	}
	entry.timer = time.AfterFunc(s.debounce, func() {
		s.flushLine(context.Background(), productVariantID)
	})
}

// DeleteItem removes the line optimistically, rolling back on failure
func (s *cartService) DeleteItem(ctx context.Context, cartItemID string) error {
	if !s.client.isAuthenticated() {
		s.mu.Lock()
		removeLineByID(s.guest, cartItemID)
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	snapshot := cloneCart(s.cachedCart())
	cart := cloneCart(snapshot)
	removeLineByID(cart, cartItemID)
	s.client.cache.Set(cartCacheKey, cart)
	s.mu.Unlock()

	if err := s.client.do(ctx, http.MethodDelete, cartItemsEndpoint+"/"+cartItemID, nil, nil); err != nil {
		s.rollback(snapshot)
		return errors.Wrap(err, "failed to delete cart item")
	}
	return nil
}

// Flush sends all pending batched deltas immediately
func (s *cartService) Flush(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.pending))
	for id, entry := range s.pending {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.flushLine(ctx, id)
	}
}

// Clear empties the cart
func (s *cartService) Clear(ctx context.Context) error {
	if !s.client.isAuthenticated() {
		s.mu.Lock()
		s.guest = &Cart{}
		s.mu.Unlock()
		return nil
	}

	if err := s.client.do(ctx, http.MethodDelete, cartEndpoint, nil, nil); err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}
	s.client.cache.Invalidate(cartCacheKey)
	return nil
}

// flushLine pops the pending entry for the line and sends its net delta.
// Entry removal before the send keeps at most one mutation in flight per
// line: clicks arriving during the flight open a fresh window.
func (s *cartService) flushLine(ctx context.Context, productVariantID string) {
	s.mu.Lock()
	entry := s.pending[productVariantID]
	if entry == nil {
		s.mu.Unlock()
		return
	}
	delete(s.pending, productVariantID)
	delta, snapshot := entry.delta, entry.snapshot
	s.mu.Unlock()

	if delta == 0 {
		return
	}

	if err := s.sendDelta(ctx, productVariantID, delta, snapshot); err != nil && s.client.options.Logger != nil {
		s.client.options.Logger.Warn("Cart quantity sync failed, rolled back",
			"productVariantId", productVariantID, "delta", delta, "error", err)
	}
}

// sendDelta performs the server quantity mutation, restoring snapshot on
// failure.
func (s *cartService) sendDelta(ctx context.Context, productVariantID string, delta int, snapshot *Cart) error {
	if err := s.client.do(ctx, http.MethodPatch, cartItemsEndpoint, map[string]interface{}{
		"productVariantId": productVariantID,
		"delta":            delta,
	}, nil); err != nil {
		s.rollback(snapshot)
		return errors.Wrap(err, "failed to update cart quantity")
	}
	return nil
}

// rollback replaces the cached cart with the snapshot, last writer wins
func (s *cartService) rollback(snapshot *Cart) {
	s.mu.Lock()
	s.client.cache.Set(cartCacheKey, snapshot)
	s.mu.Unlock()
}

// cachedCart returns the cached cart without fetching, or an empty cart.
// Callers hold s.mu.
func (s *cartService) cachedCart() *Cart {
	if v, ok := s.client.cache.Get(cartCacheKey); ok {
		return v.(*Cart)
	}
	return &Cart{}
}

// mergeLine merges a new line into cart: same product variant increments
// quantity, anything else appends under the given placeholder ID.
func mergeLine(cart *Cart, line *CartLine, qty int, placeholderID string) {
	for _, existing := range cart.Items {
		if existing.ProductVariantID == line.ProductVariantID {
			existing.Quantity += qty
			return
		}
	}

	added := *line
	added.ID = placeholderID
	added.Quantity = qty
	cart.Items = append(cart.Items, &added)
}

// applyDelta adjusts the quantity of the line for productVariantID. A
// computed quantity <= 0 removes the line entirely.
func applyDelta(cart *Cart, productVariantID string, delta int) {
	for i, line := range cart.Items {
		if line.ProductVariantID != productVariantID {
			continue
		}
		q := line.Quantity + delta
		if q <= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		} else {
			line.Quantity = q
		}
		return
	}
}

// removeLineByID removes the line with the given cart item ID
func removeLineByID(cart *Cart, cartItemID string) {
	for i, line := range cart.Items {
		if line.ID == cartItemID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return
		}
	}
}

// cloneCart deep-copies a cart so snapshots and returned values are immune
// to later optimistic writes.
func cloneCart(cart *Cart) *Cart {
	if cart == nil {
		return &Cart{}
	}
	out := &Cart{Items: make([]*CartLine, len(cart.Items))}
	for i, line := range cart.Items {
		copied := *line
		out.Items[i] = &copied
	}
	return out
}
