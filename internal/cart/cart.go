// Package cart owns the session shopping cart: an ordered list of line
// items uniquely keyed by product id, mutated only through Store methods.
// Prices and stock are snapshotted when an item is added; the cart never
// re-reads the live catalog (deliberate point-in-time price lock).
package cart

import "sync"

// LineItem is one row of the cart. UnitPrice is integer UGX.
// AvailableStock bounds Quantity and is frozen at add time.
type LineItem struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	UnitPrice      int64  `json:"unitPrice"`
	CoverImageURL  string `json:"coverImageUrl,omitempty"`
	Quantity       int    `json:"quantity"`
	AvailableStock int    `json:"availableStock"`
}

// Snapshot is a read-only copy of the cart plus its derived totals.
type Snapshot struct {
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"totalItems"`
	Subtotal   int64      `json:"subtotal"`
}

// Store holds one session's cart. All mutation goes through its methods,
// which uphold two post-conditions: at most one line per product id, and
// no line with quantity outside [1, AvailableStock].
type Store struct {
	mu    sync.Mutex
	items []LineItem
}

func NewStore() *Store { return &Store{} }

// AddItem appends the line item, or merges quantities when a line for the
// same product already exists. Quantities are silently clamped to the
// line's snapshotted stock; an item with no available stock is dropped.
func (s *Store) AddItem(item LineItem) {
	if item.AvailableStock < 1 {
		return
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID {
			// Merge against the stock recorded when the line was created.
			q := s.items[i].Quantity + item.Quantity
			s.items[i].Quantity = clampQty(q, s.items[i].AvailableStock)
			return
		}
	}

	item.Quantity = clampQty(item.Quantity, item.AvailableStock)
	s.items = append(s.items, item)
}

// ChangeQuantity sets the quantity for the matching line. A quantity
// below 1 removes the line (same as RemoveItem); a quantity above the
// snapshotted stock is clamped. Unknown product ids are a no-op.
func (s *Store) ChangeQuantity(productID string, quantity int) {
	if quantity < 1 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = clampQty(quantity, s.items[i].AvailableStock)
			return
		}
	}
}

// RemoveItem deletes the matching line if present; no-op otherwise.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Snapshot returns a copy of the items in insertion order together with
// the derived item count and subtotal.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Items: make([]LineItem, len(s.items))}
	copy(snap.Items, s.items)
	for _, it := range s.items {
		snap.TotalItems += it.Quantity
		snap.Subtotal += it.UnitPrice * int64(it.Quantity)
	}
	return snap
}

func clampQty(q, stock int) int {
	if q > stock {
		return stock
	}
	if q < 1 {
		return 1
	}
	return q
}
