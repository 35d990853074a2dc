package checkout

import (
	"context"
	"fmt"

	"github.com/webdroid21/component-pulse-sub000/internal/cart"
	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
)

// SubmitResult is the outcome of a successful submission. Card payments
// carry the gateway redirect link; cash-on-delivery and mobile-money
// orders are confirmed directly.
type SubmitResult struct {
	OrderID     string `json:"orderId"`
	TxRef       string `json:"txRef"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	Confirmed   bool   `json:"confirmed"`
}

// Submit performs the terminal transition: it freezes the cart into an
// order record and hands the total to the payment collaborator. On any
// failure the step stays on Payment and the cart is left untouched so
// the user can retry; the transaction reference is generated once per
// checkout and reused across retries, which is what makes the retried
// order creation idempotent.
func (c *Checkout) Submit(ctx context.Context) (*SubmitResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepPayment {
		return nil, ErrWrongStep
	}
	if c.payMethod == "" {
		return nil, ErrNoPaymentMethod
	}

	snap := c.cart.Snapshot()
	if len(snap.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if c.txRef == "" {
		c.txRef = c.newTxRef()
	}

	discount, err := c.resolver.Resolve(ctx, c.couponCode, snap.Subtotal)
	if err != nil {
		if !isCouponNotice(err) {
			return nil, fmt.Errorf("resolve coupon: %w", err)
		}
		discount = 0
	}
	totals := cart.ComputeTotals(snap.Items, c.delivery.Fee, discount)

	items := make([]domain.OrderItem, len(snap.Items))
	for i, it := range snap.Items {
		items[i] = domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}

	order := &domain.Order{
		SessionID: c.opts.SessionID,
		Status:    domain.StatusPending,
		Items:     items,
		Amounts: domain.Amounts{
			Subtotal: totals.Subtotal,
			Discount: totals.Discount,
			Shipping: totals.Shipping,
			Total:    totals.Total,
			Currency: c.opts.Currency,
		},
		Shipping:       c.shipping,
		DeliveryOption: c.delivery.ID,
		PaymentMethod:  c.payMethod,
		CouponCode:     c.couponCode,
		TxRef:          c.txRef,
	}

	orderID, err := c.placer.Execute(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	res := &SubmitResult{OrderID: orderID, TxRef: c.txRef}
	if c.payMethod == domain.PayCard {
		sess, err := c.gateway.InitiatePayment(ctx, PaymentRequest{
			Amount:          totals.Total,
			Currency:        c.opts.Currency,
			TxRef:           c.txRef,
			CustomerName:    c.shipping.Name,
			CustomerContact: c.shipping.Contact,
		})
		if err != nil {
			return nil, fmt.Errorf("payment gateway: %w", err)
		}
		res.RedirectURL = sess.RedirectURL
	} else {
		res.Confirmed = true
	}

	c.cart.Clear()
	c.reset()
	return res, nil
}

// reset returns the checkout to a fresh state after a successful order.
func (c *Checkout) reset() {
	c.step = StepShipping
	c.shipping = domain.ShippingInfo{}
	c.payMethod = ""
	c.couponCode = ""
	c.txRef = ""
	if len(c.opts.DeliveryOptions) > 0 {
		c.delivery = c.opts.DeliveryOptions[0]
	}
}
