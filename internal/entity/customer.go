package domain

import "time"

type Address struct {
	Label   string `bson:"label,omitempty" json:"label,omitempty"`
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

type Customer struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Addresses []Address `bson:"addresses,omitempty" json:"addresses,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
