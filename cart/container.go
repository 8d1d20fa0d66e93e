package cart

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Container is the cart state container for one session. All operations
// read-modify-write the whole item list under one lock, so no two mutations
// interleave mid-update. Mutations persist the updated list to the session
// store before returning; store failures are logged and never surfaced,
// matching the permissive policy of the rest of the system.
type Container struct {
	mu      sync.Mutex
	store   Store
	items   []LineItem
	subs    map[int]chan struct{}
	nextSub int
}

// New builds a container backed by store, rehydrating any previously
// persisted item list. Absent or corrupt data yields an empty cart.
func New(ctx context.Context, store Store) *Container {
	c := &Container{
		store: store,
		subs:  make(map[int]chan struct{}),
	}

	data, err := store.Load(ctx)
	if err != nil || len(data) == 0 {
		return c
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		// Unparseable stored carts are discarded, not surfaced
		return c
	}

	// Drop any malformed entries that slipped into the store
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 {
			continue
		}
		c.items = append(c.items, it)
	}
	return c
}

// AddItem merges the product into the cart. An id already present has its
// quantity incremented; otherwise a new line item is appended. A quantity
// below 1 is clamped to 1, never rejected.
func (c *Container) AddItem(ctx context.Context, p Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ProductID == p.ID {
			c.items[i].Quantity += quantity
			c.persistLocked(ctx)
			c.mu.Unlock()
			c.notify()
			return
		}
	}
	c.items = append(c.items, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageURL:  p.ImageURL,
		Quantity:  quantity,
	})
	c.persistLocked(ctx)
	c.mu.Unlock()
	c.notify()
}

// UpdateQuantity replaces the quantity of an existing line item. A value
// below 1 is clamped to 1; removal is a distinct explicit operation. An
// unknown product id is a no-op.
func (c *Container) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			c.persistLocked(ctx)
			c.mu.Unlock()
			c.notify()
			return
		}
	}
	c.mu.Unlock()
}

// RemoveItem removes the matching line item if present; no-op otherwise.
func (c *Container) RemoveItem(ctx context.Context, productID string) {
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persistLocked(ctx)
			c.mu.Unlock()
			c.notify()
			return
		}
	}
	c.mu.Unlock()
}

// Clear empties the cart. Idempotent; used after successful checkout or on
// explicit user request.
func (c *Container) Clear(ctx context.Context) {
	c.mu.Lock()
	c.items = nil
	c.persistLocked(ctx)
	c.mu.Unlock()
	c.notify()
}

// Items returns a copy of the current line items in insertion order.
func (c *Container) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Totals recomputes the derived totals from the current items.
func (c *Container) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()

	var t Totals
	for _, it := range c.items {
		t.TotalItems += it.Quantity
		t.TotalPrice += it.UnitPrice * float64(it.Quantity)
	}
	return t
}

// Len reports the number of line items in the cart.
func (c *Container) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Subscribe registers an observer of cart mutations. The returned channel
// receives a signal after each mutation; the second return value
// unsubscribes. Notifications are best-effort and never block a mutation.
func (c *Container) Subscribe() (<-chan struct{}, func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	ch := make(chan struct{}, 1)
	c.subs[id] = ch
	c.mu.Unlock()

	unsubscribe := func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
	return ch, unsubscribe
}

func (c *Container) notify() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// persistLocked writes the current item list to the session store. Caller
// holds c.mu.
func (c *Container) persistLocked(ctx context.Context) {
	data, err := json.Marshal(c.items)
	if err != nil {
		log.Printf("cart: failed to encode items: %v", err)
		return
	}
	if err := c.store.Save(ctx, data); err != nil {
		log.Printf("cart: failed to persist items: %v", err)
	}
}
