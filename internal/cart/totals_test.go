package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_EmptyCart(t *testing.T) {
	got := ComputeTotals(nil, 0, 0)
	assert.Equal(t, Totals{}, got)
}

func TestComputeTotals_Breakdown(t *testing.T) {
	items := []LineItem{
		{ProductID: "P1", UnitPrice: 1000, Quantity: 3},
		{ProductID: "P2", UnitPrice: 2500, Quantity: 2},
	}
	got := ComputeTotals(items, 10000, 2000)

	assert.Equal(t, int64(8000), got.Subtotal)
	assert.Equal(t, int64(2000), got.Discount)
	assert.Equal(t, int64(10000), got.Shipping)
	assert.Equal(t, int64(16000), got.Total)
}

func TestComputeTotals_DiscountClampsToSubtotal(t *testing.T) {
	// discount rule computed 8000 against a 5000 subtotal
	items := []LineItem{{ProductID: "P1", UnitPrice: 5000, Quantity: 1}}
	got := ComputeTotals(items, 3000, 8000)

	assert.Equal(t, int64(5000), got.Discount)
	assert.Equal(t, int64(3000), got.Total) // 0 pre-shipping, never negative
}

func TestComputeTotals_NegativeInputsClampToZero(t *testing.T) {
	items := []LineItem{{ProductID: "P1", UnitPrice: 1000, Quantity: 1}}
	got := ComputeTotals(items, -50, -100)

	assert.Equal(t, int64(0), got.Discount)
	assert.Equal(t, int64(0), got.Shipping)
	assert.Equal(t, int64(1000), got.Total)
}
