package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/vendora/marketplace-api/models"
)

// ProductCache is a cache-aside layer over product reads. A nil *ProductCache
// is valid and behaves as a permanent miss, so handlers never branch on
// whether Redis is configured.
type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client) *ProductCache {
	if rdb == nil {
		return nil
	}
	return &ProductCache{rdb: rdb, ttl: 5 * time.Minute}
}

func (c *ProductCache) Get(ctx context.Context, key string) (*models.Product, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var product models.Product
		if err := json.Unmarshal(data, &product); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to unmarshal cached product, falling through to DB")
			return nil, false
		}
		return &product, true
	case errors.Is(err, redis.Nil):
		return nil, false
	default:
		log.Warn().Err(err).Msg("redis error, falling through to DB")
		return nil, false
	}
}

func (c *ProductCache) Set(ctx context.Context, product *models.Product) {
	if c == nil {
		return
	}

	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	for _, key := range productKeys(product) {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache product")
		}
	}
}

// Invalidate drops the cached copies after any product write.
func (c *ProductCache) Invalidate(ctx context.Context, product *models.Product) {
	if c == nil {
		return
	}

	if err := c.rdb.Del(ctx, productKeys(product)...).Err(); err != nil {
		log.Warn().Err(err).Uint("product_id", product.ID).Msg("failed to invalidate product cache")
	}
}

func productKeys(p *models.Product) []string {
	return []string{
		fmt.Sprintf("product:id:%d", p.ID),
		fmt.Sprintf("product:slug:%s", p.Slug),
	}
}

func IDKey(id uint) string      { return fmt.Sprintf("product:id:%d", id) }
func SlugKey(slug string) string { return fmt.Sprintf("product:slug:%s", slug) }
