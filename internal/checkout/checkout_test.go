package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webdroid21/component-pulse-sub000/internal/cart"
	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/pricing"
)

type stubResolver struct {
	amount int64
	err    error
}

func (s *stubResolver) Resolve(context.Context, string, int64) (int64, error) {
	return s.amount, s.err
}

type mockPlacer struct {
	placed []*domain.Order
	err    error
}

func (m *mockPlacer) Execute(_ context.Context, o *domain.Order) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.placed = append(m.placed, o)
	return fmt.Sprintf("order-%d", len(m.placed)), nil
}

type mockGateway struct {
	requests []PaymentRequest
	err      error
}

func (m *mockGateway) InitiatePayment(_ context.Context, req PaymentRequest) (*PaymentSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.requests = append(m.requests, req)
	return &PaymentSession{RedirectURL: "https://pay.example/" + req.TxRef}, nil
}

var testOptions = Options{
	SessionID: "sess-1",
	Currency:  "UGX",
	DeliveryOptions: []domain.DeliveryOption{
		{ID: "pickup", Label: "Pick up", Fee: 0},
		{ID: "kampala", Label: "Kampala", Fee: 10000},
	},
	PaymentMethods: []string{domain.PayCard, domain.PayMobileMoney, domain.PayCashOnDelivery},
}

func fixture(t *testing.T) (*Checkout, *cart.Store, *mockPlacer, *mockGateway) {
	t.Helper()
	cs := cart.NewStore()
	cs.AddItem(cart.LineItem{ProductID: "P1", Name: "Inverter", UnitPrice: 10000, Quantity: 2, AvailableStock: 5})
	placer := &mockPlacer{}
	gw := &mockGateway{}
	refs := 0
	ck := New(cs, &stubResolver{}, placer, gw, testOptions, func() string {
		refs++
		return fmt.Sprintf("tx-%d", refs)
	})
	return ck, cs, placer, gw
}

func validShipping() domain.ShippingInfo {
	return domain.ShippingInfo{Name: "Okello James", Contact: "+256700000000", Address: "Plot 4, Kampala Rd"}
}

func advanceToPayment(t *testing.T, ck *Checkout, method string) {
	t.Helper()
	require.NoError(t, ck.SubmitShipping(validShipping()))
	require.NoError(t, ck.SelectDelivery("kampala"))
	require.NoError(t, ck.SelectPayment(method))
}

func TestSubmitShipping_ValidationBlocks(t *testing.T) {
	ck, _, _, _ := fixture(t)

	err := ck.SubmitShipping(domain.ShippingInfo{Name: "  ", Contact: "x"})
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "name")
	assert.Contains(t, fe, "address")
	assert.NotContains(t, fe, "contact")
	assert.Equal(t, StepShipping, ck.State().Step)
}

func TestLinearFlow_NoSkipping(t *testing.T) {
	ck, _, _, _ := fixture(t)

	assert.ErrorIs(t, ck.SelectDelivery("pickup"), ErrWrongStep)
	assert.ErrorIs(t, ck.SelectPayment(domain.PayCard), ErrWrongStep)
	_, err := ck.Submit(context.Background())
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestBack_PreservesDrafts(t *testing.T) {
	ck, _, _, _ := fixture(t)
	require.NoError(t, ck.SubmitShipping(validShipping()))
	require.Equal(t, StepDelivery, ck.State().Step)

	ck.Back()

	st := ck.State()
	assert.Equal(t, StepShipping, st.Step)
	assert.Equal(t, "Okello James", st.Shipping.Name)
	assert.Equal(t, "Plot 4, Kampala Rd", st.Shipping.Address)
}

func TestSelectDelivery_UnknownOption(t *testing.T) {
	ck, _, _, _ := fixture(t)
	require.NoError(t, ck.SubmitShipping(validShipping()))

	assert.ErrorIs(t, ck.SelectDelivery("drone"), ErrUnknownDeliveryOption)
	assert.Equal(t, StepDelivery, ck.State().Step)
}

func TestDefaultDeliveryPreselected(t *testing.T) {
	ck, _, _, _ := fixture(t)
	assert.Equal(t, "pickup", ck.State().SelectedDelivery)
}

func TestSubmit_CardPayment(t *testing.T) {
	ck, cs, placer, gw := fixture(t)
	advanceToPayment(t, ck, domain.PayCard)

	res, err := ck.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "order-1", res.OrderID)
	assert.Equal(t, "https://pay.example/tx-1", res.RedirectURL)
	assert.False(t, res.Confirmed)

	require.Len(t, placer.placed, 1)
	o := placer.placed[0]
	assert.Equal(t, int64(20000), o.Amounts.Subtotal)
	assert.Equal(t, int64(10000), o.Amounts.Shipping)
	assert.Equal(t, int64(30000), o.Amounts.Total)
	assert.Equal(t, "tx-1", o.TxRef)

	require.Len(t, gw.requests, 1)
	assert.Equal(t, int64(30000), gw.requests[0].Amount)
	assert.Equal(t, "UGX", gw.requests[0].Currency)

	// submit success clears the cart and resets the flow
	assert.Empty(t, cs.Snapshot().Items)
	assert.Equal(t, StepShipping, ck.State().Step)
}

func TestSubmit_CashOnDeliveryBypassesGateway(t *testing.T) {
	ck, cs, placer, gw := fixture(t)
	advanceToPayment(t, ck, domain.PayCashOnDelivery)

	res, err := ck.Submit(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Confirmed)
	assert.Empty(t, res.RedirectURL)
	assert.Empty(t, gw.requests)
	require.Len(t, placer.placed, 1)
	assert.Empty(t, cs.Snapshot().Items)
}

func TestSubmit_GatewayFailureKeepsCartAndStep(t *testing.T) {
	ck, cs, placer, gw := fixture(t)
	advanceToPayment(t, ck, domain.PayCard)
	gw.err = errors.New("gateway unreachable")

	_, err := ck.Submit(context.Background())
	require.Error(t, err)

	// cart untouched, step still Payment, order attempt recorded but
	// nothing cleared; user can retry
	assert.Len(t, cs.Snapshot().Items, 1)
	assert.Equal(t, StepPayment, ck.State().Step)

	// retry after the gateway recovers reuses the same tx ref
	gw.err = nil
	res, err := ck.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tx-1", res.TxRef)
	assert.Len(t, placer.placed, 2)
	assert.Equal(t, placer.placed[0].TxRef, placer.placed[1].TxRef)
}

func TestSubmit_PlacerFailureKeepsCart(t *testing.T) {
	ck, cs, placer, _ := fixture(t)
	advanceToPayment(t, ck, domain.PayCard)
	placer.err = errors.New("write failed")

	_, err := ck.Submit(context.Background())
	require.Error(t, err)
	assert.Len(t, cs.Snapshot().Items, 1)
	assert.Equal(t, StepPayment, ck.State().Step)
}

func TestSubmit_EmptyCart(t *testing.T) {
	ck, cs, _, _ := fixture(t)
	advanceToPayment(t, ck, domain.PayCard)
	cs.Clear()

	_, err := ck.Submit(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestTotals_CouponNoticePassesThrough(t *testing.T) {
	cs := cart.NewStore()
	cs.AddItem(cart.LineItem{ProductID: "P1", UnitPrice: 5000, Quantity: 1, AvailableStock: 3})
	ck := New(cs, &stubResolver{err: pricing.ErrCouponNotFound}, &mockPlacer{}, &mockGateway{}, testOptions, func() string { return "tx" })
	ck.SetCoupon("NOPE")

	totals, err := ck.Totals(context.Background())
	assert.ErrorIs(t, err, pricing.ErrCouponNotFound)
	assert.Equal(t, int64(0), totals.Discount)
	assert.Equal(t, int64(5000), totals.Subtotal)
}

func TestSubmit_CouponNoticeStillSubmits(t *testing.T) {
	cs := cart.NewStore()
	cs.AddItem(cart.LineItem{ProductID: "P1", UnitPrice: 5000, Quantity: 1, AvailableStock: 3})
	placer := &mockPlacer{}
	ck := New(cs, &stubResolver{err: pricing.ErrCouponNotEligible}, placer, &mockGateway{}, testOptions, func() string { return "tx" })
	ck.SetCoupon("EXPIRED")
	advanceToPayment(t, ck, domain.PayCashOnDelivery)

	res, err := ck.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Confirmed)
	assert.Equal(t, int64(0), placer.placed[0].Amounts.Discount)
}
