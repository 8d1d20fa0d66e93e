// Package cart holds the session-scoped shopping cart state container.
//
// The container owns the in-session list of items a user intends to buy and
// the invariants around it: one line item per product id, quantity always at
// least 1, totals derived from the items and never cached. Every mutation is
// written through to a durable session store so the cart survives reloads.
package cart

// LineItem is one product entry in a cart. Quantity is independent of
// catalog inventory and is never below 1; an item whose quantity would drop
// to 0 is removed instead.
type LineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	ImageURL  string  `json:"image_url"`
	Quantity  int     `json:"quantity"`
}

// Product is the descriptor AddItem needs: a stable id, a display name and a
// non-negative price.
type Product struct {
	ID       string
	Name     string
	Price    float64
	ImageURL string
}

// Totals is the derived view of a cart, recomputed on every read.
type Totals struct {
	TotalItems int     `json:"total_items"`
	TotalPrice float64 `json:"total_price"`
}
