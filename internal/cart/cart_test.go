package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(id string, qty int, price int64, stock int) LineItem {
	return LineItem{ProductID: id, Name: "item " + id, UnitPrice: price, Quantity: qty, AvailableStock: stock}
}

func TestAddItem_NewLine(t *testing.T) {
	s := NewStore()
	s.AddItem(line("P1", 2, 1000, 5))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, 2, snap.TotalItems)
	assert.Equal(t, int64(2000), snap.Subtotal)
}

func TestAddItem_MergesSameProduct(t *testing.T) {
	s := NewStore()
	s.AddItem(line("P1", 2, 1000, 10))
	s.AddItem(line("P1", 3, 1000, 10))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 5, snap.Items[0].Quantity)
}

func TestAddItem_ClampsToStock(t *testing.T) {
	// add 2 then 5 against a stock of 3: one line, clamped to 3
	s := NewStore()
	s.AddItem(line("P1", 2, 1000, 3))
	s.AddItem(line("P1", 5, 1000, 3))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.Equal(t, int64(3000), snap.Subtotal)
}

func TestAddItem_ZeroStockDropped(t *testing.T) {
	s := NewStore()
	s.AddItem(line("P1", 1, 1000, 0))
	assert.Empty(t, s.Snapshot().Items)
}

func TestAddItem_QuantityFloorsAtOne(t *testing.T) {
	s := NewStore()
	s.AddItem(line("P1", 0, 1000, 5))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Items[0].Quantity)
}

func TestAddItem_PreservesInsertionOrder(t *testing.T) {
	s := NewStore()
	s.AddItem(line("P1", 1, 100, 5))
	s.AddItem(line("P2", 1, 200, 5))
	s.AddItem(line("P3", 1, 300, 5))
	s.AddItem(line("P2", 1, 200, 5)) // merge must not reorder

	snap := s.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.Equal(t, "P1", snap.Items[0].ProductID)
	assert.Equal(t, "P2", snap.Items[1].ProductID)
	assert.Equal(t, "P3", snap.Items[2].ProductID)
}

func TestChangeQuantity(t *testing.T) {
	s := NewStore()
	s.AddItem(line("P1", 1, 1000, 4))

	s.ChangeQuantity("P1", 3)
	assert.Equal(t, 3, s.Snapshot().Items[0].Quantity)

	// above stock: clamp
	s.ChangeQuantity("P1", 9)
	assert.Equal(t, 4, s.Snapshot().Items[0].Quantity)

	// unknown id: no-op
	s.ChangeQuantity("nope", 2)
	assert.Equal(t, 4, s.Snapshot().Items[0].Quantity)
}

func TestChangeQuantityZero_EqualsRemove(t *testing.T) {
	s := NewStore()
	s.AddItem(line("P1", 2, 1000, 5))
	s.AddItem(line("P2", 1, 500, 5))

	s.ChangeQuantity("P1", 0)

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "P2", snap.Items[0].ProductID)
}

func TestRemoveItem_Idempotent(t *testing.T) {
	s := NewStore()
	s.AddItem(line("P1", 2, 1000, 5))

	s.RemoveItem("P1")
	s.RemoveItem("P1") // second call is a no-op

	assert.Empty(t, s.Snapshot().Items)
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.AddItem(line("P1", 2, 1000, 5))
	s.AddItem(line("P2", 1, 500, 5))

	s.Clear()

	snap := s.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, 0, snap.TotalItems)
	assert.Equal(t, int64(0), snap.Subtotal)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := NewStore()
	s.AddItem(line("P1", 2, 1000, 5))

	snap := s.Snapshot()
	snap.Items[0].Quantity = 99

	assert.Equal(t, 2, s.Snapshot().Items[0].Quantity)
}
