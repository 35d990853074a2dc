package usecase

import (
	"context"
	"errors"
	"log/slog"

	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"golang.org/x/sync/singleflight"
)

var ErrCacheMiss = errors.New("cache miss")

// Catalog serves product and category reads. Single-product lookups go
// through a Redis read-through cache guarded by singleflight so a cache
// miss on a hot product hits Mongo once, not once per request.
type Catalog struct {
	products   ProductRepo
	categories CategoryRepo
	cache      CatalogCache
	sfg        singleflight.Group
	log        *slog.Logger
}

func NewCatalog(products ProductRepo, categories CategoryRepo, cache CatalogCache, log *slog.Logger) *Catalog {
	return &Catalog{products: products, categories: categories, cache: cache, log: log}
}

func (c *Catalog) ListProducts(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	return c.products.List(ctx, f)
}

func (c *Catalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	v, err, _ := c.sfg.Do(id, func() (interface{}, error) {
		if c.cache != nil {
			p, err := c.cache.GetProduct(ctx, id)
			if err == nil {
				return p, nil
			}
			if !errors.Is(err, ErrCacheMiss) {
				c.log.Warn("catalog cache get failed", "product_id", id, "err", err)
			}
		}

		p, err := c.products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if c.cache != nil {
			go func() {
				if err := c.cache.SetProduct(context.Background(), p); err != nil {
					c.log.Warn("catalog cache set failed", "product_id", id, "err", err)
				}
			}()
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Product), nil
}

func (c *Catalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return c.categories.List(ctx)
}

// Invalidate drops the cached copy after an admin write.
func (c *Catalog) Invalidate(ctx context.Context, productID string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.InvalidateProduct(ctx, productID); err != nil {
		c.log.Warn("catalog cache invalidate failed", "product_id", productID, "err", err)
	}
}
