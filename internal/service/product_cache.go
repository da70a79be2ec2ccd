package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	productsCacheKey   = "catalog:products"
	productsVersionKey = "catalog:products:version"
)

var errStaleRebuild = errors.New("products cache invalidated during rebuild")

// ProductCache holds the rendered GET /products payload in Redis. Every method
// is best effort and a nil cache or nil client turns it into a no-op.
//
// Each invalidation bumps a version counter. A rebuild records the version
// before reading the store and only writes its payload if the counter is
// unchanged, so a read racing a commit never re-caches pre-commit stock.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func (c *ProductCache) enabled() bool { return c != nil && c.rdb != nil }

func (c *ProductCache) get(ctx context.Context) ([]dto.ProductResponse, bool) {
	if !c.enabled() {
		return nil, false
	}
	cached, err := c.rdb.Get(ctx, productsCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var products []dto.ProductResponse
	if err := json.Unmarshal(cached, &products); err != nil {
		return nil, false
	}
	return products, true
}

// version returns the invalidation counter to hand to set after a rebuild.
// ok is false when the cache is disabled or Redis is unreachable.
func (c *ProductCache) version(ctx context.Context) (v int64, ok bool) {
	if !c.enabled() {
		return 0, false
	}
	v, err := c.rdb.Get(ctx, productsVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	return v, true
}

// set stores products unless an invalidation happened after version was read.
func (c *ProductCache) set(ctx context.Context, version int64, products []dto.ProductResponse) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(products)
	if err != nil {
		return
	}
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, productsVersionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleRebuild
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, productsCacheKey, b, c.ttl)
			return nil
		})
		return err
	}, productsVersionKey)
	switch {
	case err == nil:
	case errors.Is(err, errStaleRebuild), errors.Is(err, redis.TxFailedErr):
		log.Debug().Msg("products cache write skipped: invalidated during rebuild")
	default:
		log.Warn().Err(err).Msg("products cache write failed")
	}
}

// Invalidate drops the cached payload after a committed stock or catalog change.
func (c *ProductCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, productsVersionKey)
		p.Del(ctx, productsCacheKey)
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("products cache invalidation failed")
	}
}
