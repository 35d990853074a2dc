// Package checkout drives the linear shipping -> delivery -> payment
// flow for one session. Step transitions are guarded by per-step
// validation; backward navigation is always allowed and loses no drafts.
package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/webdroid21/component-pulse-sub000/internal/cart"
	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/pricing"
)

type Step string

const (
	StepShipping Step = "shipping"
	StepDelivery Step = "delivery"
	StepPayment  Step = "payment"
)

var (
	ErrWrongStep             = errors.New("operation not valid for current step")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrUnknownDeliveryOption = errors.New("unknown delivery option")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
	ErrNoPaymentMethod       = errors.New("no payment method selected")
)

// FieldErrors reports per-field validation failures on the shipping form.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	return "invalid fields: " + strings.Join(keys, ", ")
}

// DiscountResolver maps a coupon code and subtotal to a discount amount.
// Satisfied by pricing.Resolver.
type DiscountResolver interface {
	Resolve(ctx context.Context, code string, subtotal int64) (int64, error)
}

// OrderPlacer creates the immutable order record exactly once per
// transaction reference. Satisfied by usecase.PlaceOrder.
type OrderPlacer interface {
	Execute(ctx context.Context, o *domain.Order) (orderID string, err error)
}

// PaymentRequest is the handoff to the hosted payment gateway.
type PaymentRequest struct {
	Amount          int64
	Currency        string
	TxRef           string
	CustomerName    string
	CustomerContact string
}

// PaymentSession is the gateway's redirect-based collection flow.
type PaymentSession struct {
	RedirectURL string
}

type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req PaymentRequest) (*PaymentSession, error)
}

// Options fixes the menus and identity the checkout operates against.
type Options struct {
	SessionID       string
	Currency        string
	DeliveryOptions []domain.DeliveryOption
	PaymentMethods  []string
}

// Checkout is the per-session orchestrator. It owns only transient draft
// state; the cart itself stays in the cart.Store and is untouched until
// a submission succeeds.
type Checkout struct {
	mu       sync.Mutex
	cart     *cart.Store
	resolver DiscountResolver
	placer   OrderPlacer
	gateway  PaymentGateway
	opts     Options

	step       Step
	shipping   domain.ShippingInfo
	delivery   domain.DeliveryOption
	payMethod  string
	couponCode string
	txRef      string

	newTxRef func() string
}

func New(c *cart.Store, resolver DiscountResolver, placer OrderPlacer, gateway PaymentGateway, opts Options, newTxRef func() string) *Checkout {
	ck := &Checkout{
		cart:     c,
		resolver: resolver,
		placer:   placer,
		gateway:  gateway,
		opts:     opts,
		step:     StepShipping,
		newTxRef: newTxRef,
	}
	// First delivery option is pre-selected, so Delivery -> Payment is
	// unconditional in practice.
	if len(opts.DeliveryOptions) > 0 {
		ck.delivery = opts.DeliveryOptions[0]
	}
	return ck
}

// State is a read-only rendering of the checkout for the UI.
type State struct {
	Step             Step                    `json:"step"`
	Shipping         domain.ShippingInfo     `json:"shipping"`
	DeliveryOptions  []domain.DeliveryOption `json:"deliveryOptions"`
	SelectedDelivery string                  `json:"selectedDelivery"`
	PaymentMethods   []string                `json:"paymentMethods"`
	SelectedPayment  string                  `json:"selectedPayment,omitempty"`
	CouponCode       string                  `json:"couponCode,omitempty"`
}

func (c *Checkout) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Step:             c.step,
		Shipping:         c.shipping,
		DeliveryOptions:  c.opts.DeliveryOptions,
		SelectedDelivery: c.delivery.ID,
		PaymentMethods:   c.opts.PaymentMethods,
		SelectedPayment:  c.payMethod,
		CouponCode:       c.couponCode,
	}
}

// SubmitShipping validates the shipping form and advances to the
// delivery step. On validation failure the step does not move and the
// returned FieldErrors carries per-field messages.
func (c *Checkout) SubmitShipping(info domain.ShippingInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepShipping {
		return ErrWrongStep
	}

	fe := FieldErrors{}
	if strings.TrimSpace(info.Name) == "" {
		fe["name"] = "required"
	}
	if strings.TrimSpace(info.Contact) == "" {
		fe["contact"] = "required"
	}
	if strings.TrimSpace(info.Address) == "" {
		fe["address"] = "required"
	}
	if len(fe) > 0 {
		return fe
	}

	c.shipping = info
	c.step = StepDelivery
	return nil
}

// SelectDelivery picks a delivery option from the fixed menu and
// advances to the payment step.
func (c *Checkout) SelectDelivery(optionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepDelivery {
		return ErrWrongStep
	}
	for _, opt := range c.opts.DeliveryOptions {
		if opt.ID == optionID {
			c.delivery = opt
			c.step = StepPayment
			return nil
		}
	}
	return ErrUnknownDeliveryOption
}

// SelectPayment records the chosen payment method. The step stays on
// Payment; Submit performs the terminal transition.
func (c *Checkout) SelectPayment(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepPayment {
		return ErrWrongStep
	}
	for _, m := range c.opts.PaymentMethods {
		if m == method {
			c.payMethod = method
			return nil
		}
	}
	return ErrUnknownPaymentMethod
}

// Back moves one step backward. All entered drafts are preserved.
func (c *Checkout) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case StepDelivery:
		c.step = StepShipping
	case StepPayment:
		c.step = StepDelivery
	}
}

// SetCoupon stores the coupon code. Resolution happens at totals time;
// an unknown code simply resolves to a zero discount with a notice.
func (c *Checkout) SetCoupon(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.couponCode = strings.TrimSpace(code)
}

func (c *Checkout) Coupon() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.couponCode
}

// Totals computes the current breakdown using the selected delivery fee
// and the resolved coupon discount. Coupon notices (unknown/ineligible)
// come back as the error alongside valid zero-discount totals.
func (c *Checkout) Totals(ctx context.Context) (cart.Totals, error) {
	c.mu.Lock()
	code := c.couponCode
	fee := c.delivery.Fee
	c.mu.Unlock()

	snap := c.cart.Snapshot()
	discount, err := c.resolver.Resolve(ctx, code, snap.Subtotal)
	if err != nil && !isCouponNotice(err) {
		return cart.Totals{}, err
	}
	return cart.ComputeTotals(snap.Items, fee, discount), err
}

func isCouponNotice(err error) bool {
	return errors.Is(err, pricing.ErrCouponNotFound) || errors.Is(err, pricing.ErrCouponNotEligible)
}
