// Package pricing resolves promotional coupon codes into discount
// amounts against a cart subtotal.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
)

var (
	// ErrCouponNotFound is surfaced as a user notice, never a hard failure.
	ErrCouponNotFound = errors.New("coupon not found")
	// ErrCouponNotEligible covers inactive, expired and below-minimum coupons.
	ErrCouponNotEligible = errors.New("coupon not eligible")
)

// CouponRepo looks up coupon rules by code. Implementations return
// ErrCouponNotFound for unknown codes.
type CouponRepo interface {
	FindByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

type Resolver struct {
	repo CouponRepo
	now  func() time.Time
}

func NewResolver(repo CouponRepo) *Resolver {
	return &Resolver{repo: repo, now: time.Now}
}

// Resolve maps a coupon code and the current subtotal to a discount
// amount. An empty code resolves to 0 with no error. Unknown or
// ineligible coupons resolve to 0 alongside a sentinel the caller can
// show as a notice; any other error is a real lookup failure.
func (r *Resolver) Resolve(ctx context.Context, code string, subtotal int64) (int64, error) {
	if code == "" {
		return 0, nil
	}

	coupon, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrCouponNotFound) {
			return 0, ErrCouponNotFound
		}
		return 0, fmt.Errorf("coupon lookup: %w", err)
	}

	if !coupon.Active || coupon.Expired(r.now()) || subtotal < coupon.MinSubtotal {
		return 0, ErrCouponNotEligible
	}

	var amount int64
	switch coupon.Type {
	case domain.DiscountFixed:
		amount = coupon.Value
	case domain.DiscountPercentage:
		amount = subtotal * coupon.Value / 100
	default:
		return 0, ErrCouponNotEligible
	}

	// Never discount below a zero pre-shipping total.
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	return amount, nil
}
