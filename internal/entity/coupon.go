package domain

import "time"

type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Coupon is a promotional rule keyed by its code. Value is a UGX amount
// for fixed coupons and a whole percentage (0-100] for percentage ones.
type Coupon struct {
	Code        string       `bson:"_id" json:"code"`
	Type        DiscountType `bson:"type" json:"type"`
	Value       int64        `bson:"value" json:"value"`
	MinSubtotal int64        `bson:"min_subtotal,omitempty" json:"minSubtotal,omitempty"`
	ExpiresAt   time.Time    `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
	Active      bool         `bson:"active" json:"active"`
}

// Expired reports whether the coupon has an expiry in the past.
func (c Coupon) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
