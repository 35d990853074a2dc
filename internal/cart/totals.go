package cart

// Totals is the full price breakdown for a cart, in integer UGX.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// ComputeTotals derives the totals breakdown from the line items, an
// externally selected shipping fee and an already-resolved discount.
// The discount is clamped into [0, subtotal] so the pre-shipping total
// can never go negative.
func ComputeTotals(items []LineItem, shippingFee, discount int64) Totals {
	var subtotal int64
	for _, it := range items {
		subtotal += it.UnitPrice * int64(it.Quantity)
	}

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}
	if shippingFee < 0 {
		shippingFee = 0
	}

	return Totals{
		Subtotal: subtotal,
		Shipping: shippingFee,
		Discount: discount,
		Total:    subtotal - discount + shippingFee,
	}
}
