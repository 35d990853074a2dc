package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
)

type mockCouponRepo struct {
	coupons map[string]*domain.Coupon
	err     error
}

func (m *mockCouponRepo) FindByCode(_ context.Context, code string) (*domain.Coupon, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.coupons[code]
	if !ok {
		return nil, ErrCouponNotFound
	}
	return c, nil
}

func newResolver(coupons ...*domain.Coupon) *Resolver {
	repo := &mockCouponRepo{coupons: map[string]*domain.Coupon{}}
	for _, c := range coupons {
		repo.coupons[c.Code] = c
	}
	r := NewResolver(repo)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestResolve_EmptyCode(t *testing.T) {
	amount, err := newResolver().Resolve(context.Background(), "", 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), amount)
}

func TestResolve_UnknownCode(t *testing.T) {
	amount, err := newResolver().Resolve(context.Background(), "NOPE", 5000)
	assert.ErrorIs(t, err, ErrCouponNotFound)
	assert.Equal(t, int64(0), amount)
}

func TestResolve_FixedAmount(t *testing.T) {
	r := newResolver(&domain.Coupon{Code: "SOLAR5K", Type: domain.DiscountFixed, Value: 5000, Active: true})

	amount, err := r.Resolve(context.Background(), "SOLAR5K", 20000)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), amount)
}

func TestResolve_FixedClampsToSubtotal(t *testing.T) {
	r := newResolver(&domain.Coupon{Code: "BIG", Type: domain.DiscountFixed, Value: 8000, Active: true})

	amount, err := r.Resolve(context.Background(), "BIG", 5000)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), amount)
}

func TestResolve_Percentage(t *testing.T) {
	r := newResolver(&domain.Coupon{Code: "TEN", Type: domain.DiscountPercentage, Value: 10, Active: true})

	amount, err := r.Resolve(context.Background(), "TEN", 25000)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), amount)
}

func TestResolve_PercentageOverHundredClamps(t *testing.T) {
	r := newResolver(&domain.Coupon{Code: "MAD", Type: domain.DiscountPercentage, Value: 150, Active: true})

	amount, err := r.Resolve(context.Background(), "MAD", 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), amount)
}

func TestResolve_Ineligible(t *testing.T) {
	inactive := &domain.Coupon{Code: "OFF", Type: domain.DiscountFixed, Value: 100, Active: false}
	expired := &domain.Coupon{
		Code: "OLD", Type: domain.DiscountFixed, Value: 100, Active: true,
		ExpiresAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	minimum := &domain.Coupon{Code: "MIN", Type: domain.DiscountFixed, Value: 100, Active: true, MinSubtotal: 50000}
	r := newResolver(inactive, expired, minimum)

	for _, code := range []string{"OFF", "OLD", "MIN"} {
		amount, err := r.Resolve(context.Background(), code, 10000)
		assert.ErrorIs(t, err, ErrCouponNotEligible, code)
		assert.Equal(t, int64(0), amount, code)
	}
}
