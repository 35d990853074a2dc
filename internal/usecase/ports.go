package usecase

import (
	"context"
	"errors"
	"time"

	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
)

// ErrNotFound is returned by repositories for missing documents.
var ErrNotFound = errors.New("not found")

// ProductFilter narrows and orders catalog listings. Zero values mean
// "no constraint"; PriceMax of 0 is treated as unbounded.
type ProductFilter struct {
	CategoryID    string
	PriceMin      int64
	PriceMax      int64
	FeaturedOnly  bool
	PublishedOnly bool
	SortBy        string // "price_asc" | "price_desc" | "newest"
	Limit         int64
}

type OrderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByTxRef(ctx context.Context, txRef string) (*domain.Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, to domain.Status) error
	UpdateStatusIf(ctx context.Context, id string, from, to domain.Status) (bool, error)
}

type OutboxRepo interface {
	InsertOrderPlaced(ctx context.Context, payload []byte) error
}

// OutboxEntry is one queued event awaiting publication to the broker.
type OutboxEntry struct {
	ID         string
	Channel    string
	Payload    []byte
	RetryCount int
}

// OutboxSource is the poller's view of the outbox collection.
type OutboxSource interface {
	FetchPending(ctx context.Context, limit int64) ([]OutboxEntry, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, nextAttempt time.Time) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

type OrderCache interface {
	SetStatus(ctx context.Context, orderID string, status string) error
	GetStatus(ctx context.Context, orderID string) (string, bool, error)
}

type ProductRepo interface {
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) (string, error)
	Update(ctx context.Context, id string, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) error
	// AdjustStock adds delta to the stored stock, flooring at zero.
	AdjustStock(ctx context.Context, id string, delta int) error
}

type CategoryRepo interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c *domain.Category) (string, error)
	Delete(ctx context.Context, id string) error
}

type CustomerRepo interface {
	List(ctx context.Context) ([]domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Upsert(ctx context.Context, c *domain.Customer) error
}

type SettingsRepo interface {
	Get(ctx context.Context) (*domain.StoreSettings, error)
	Update(ctx context.Context, s *domain.StoreSettings) error
}

type CouponAdminRepo interface {
	Create(ctx context.Context, c *domain.Coupon) error
	SetActive(ctx context.Context, code string, active bool) error
	List(ctx context.Context) ([]domain.Coupon, error)
}

type CatalogCache interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SetProduct(ctx context.Context, p *domain.Product) error
	InvalidateProduct(ctx context.Context, id string) error
}
