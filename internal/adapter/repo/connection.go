package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound aliases the port-level sentinel so callers can match it
// without importing this package.
var ErrNotFound = usecase.ErrNotFound

// Collection names in the store database.
const (
	colProducts   = "products"
	colCategories = "categories"
	colOrders     = "orders"
	colCustomers  = "customers"
	colSettings   = "settings"
	colCoupons    = "coupons"
	colOutbox     = "outbox"
)

func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client.Database(database), nil
}
