package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	domain "github.com/webdroid21/component-pulse-sub000/internal/entity"
	"github.com/webdroid21/component-pulse-sub000/internal/usecase"
)

// RedisCatalogCache stores product documents as JSON with a jittered TTL
// so a batch of hot products does not expire in the same instant.
type RedisCatalogCache struct {
	rdb     *redis.Client
	baseTTL time.Duration
}

func NewRedisCatalogCache(rdb *redis.Client, baseTTL time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{rdb: rdb, baseTTL: baseTTL}
}

func productKey(id string) string { return "catalog:product:" + id }

func (r *RedisCatalogCache) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	data, err := r.rdb.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, usecase.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

func (r *RedisCatalogCache) SetProduct(ctx context.Context, p *domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	// +-10% jitter
	jitter := time.Duration(rand.Int63n(int64(r.baseTTL)/5)) - r.baseTTL/10
	return r.rdb.Set(ctx, productKey(p.ID), data, r.baseTTL+jitter).Err()
}

func (r *RedisCatalogCache) InvalidateProduct(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, productKey(id)).Err()
}

var _ usecase.CatalogCache = (*RedisCatalogCache)(nil)
