package domain

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNoItems       = errors.New("order has no items")
)

// OrderItem is one cart line frozen into the order. Prices are the
// snapshot taken when the product was added to the cart, not the live
// catalog price.
type OrderItem struct {
	ProductID string `bson:"product_id" json:"productId"`
	Name      string `bson:"name" json:"name"`
	UnitPrice int64  `bson:"unit_price" json:"unitPrice"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// Amounts carries the totals breakdown in integer UGX.
type Amounts struct {
	Subtotal int64  `bson:"subtotal" json:"subtotal"`
	Discount int64  `bson:"discount" json:"discount"`
	Shipping int64  `bson:"shipping" json:"shipping"`
	Total    int64  `bson:"total" json:"total"`
	Currency string `bson:"currency" json:"currency"`
}

type ShippingInfo struct {
	Name    string `bson:"name" json:"name"`
	Contact string `bson:"contact" json:"contact"`
	Address string `bson:"address" json:"address"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	Note    string `bson:"note,omitempty" json:"note,omitempty"`
}

type Order struct {
	ID             string       `bson:"_id,omitempty" json:"id"`
	SessionID      string       `bson:"session_id" json:"sessionId"`
	CustomerID     string       `bson:"customer_id,omitempty" json:"customerId,omitempty"`
	Status         Status       `bson:"status" json:"status"`
	Items          []OrderItem  `bson:"items" json:"items"`
	Amounts        Amounts      `bson:"amounts" json:"amounts"`
	Shipping       ShippingInfo `bson:"shipping" json:"shipping"`
	DeliveryOption string       `bson:"delivery_option" json:"deliveryOption"`
	PaymentMethod  string       `bson:"payment_method" json:"paymentMethod"`
	CouponCode     string       `bson:"coupon_code,omitempty" json:"couponCode,omitempty"`
	TxRef          string       `bson:"tx_ref" json:"txRef"`
	CreatedAt      time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `bson:"updated_at" json:"updatedAt"`
}

func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	if o.Amounts.Total < 0 || o.Amounts.Currency == "" {
		return ErrInvalidAmount
	}
	return nil
}
