package domain

// DeliveryOption is one row of the fixed delivery menu shown at checkout.
// Fee is integer UGX, SLA is a display string ("2-3 business days").
type DeliveryOption struct {
	ID    string `bson:"id" json:"id"`
	Label string `bson:"label" json:"label"`
	Fee   int64  `bson:"fee" json:"fee"`
	SLA   string `bson:"sla" json:"sla"`
}

// Payment method identifiers accepted at checkout.
const (
	PayCard           = "card"
	PayMobileMoney    = "mobile_money"
	PayCashOnDelivery = "cash_on_delivery"
)

type StoreSettings struct {
	ID              string           `bson:"_id,omitempty" json:"-"`
	StoreName       string           `bson:"store_name" json:"storeName"`
	Currency        string           `bson:"currency" json:"currency"`
	SupportPhone    string           `bson:"support_phone,omitempty" json:"supportPhone,omitempty"`
	SupportEmail    string           `bson:"support_email,omitempty" json:"supportEmail,omitempty"`
	DeliveryOptions []DeliveryOption `bson:"delivery_options" json:"deliveryOptions"`
	PaymentMethods  []string         `bson:"payment_methods" json:"paymentMethods"`
}

// DefaultSettings is the document used until an admin saves one.
func DefaultSettings() StoreSettings {
	return StoreSettings{
		StoreName: "ComponentPulse",
		Currency:  "UGX",
		DeliveryOptions: []DeliveryOption{
			{ID: "pickup", Label: "Pick up in store", Fee: 0, SLA: "same day"},
			{ID: "kampala", Label: "Kampala delivery", Fee: 10000, SLA: "1-2 business days"},
			{ID: "upcountry", Label: "Upcountry delivery", Fee: 25000, SLA: "3-5 business days"},
		},
		PaymentMethods: []string{PayCard, PayMobileMoney, PayCashOnDelivery},
	}
}
