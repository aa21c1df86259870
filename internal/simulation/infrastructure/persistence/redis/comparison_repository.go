package redis

import (
	"context"
	"time"

	"github.com/wyfcoding/rentvsbuy/internal/simulation/domain"
	"github.com/wyfcoding/rentvsbuy/pkg/cache"
)

const keyPrefix = "rentvsbuy:comparison:"

type comparisonRepository struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewComparisonRepository 基于 Redis 的对比结果缓存，按参数摘要存取
func NewComparisonRepository(c *cache.RedisCache, ttl time.Duration) domain.ComparisonRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &comparisonRepository{cache: c, ttl: ttl}
}

func (r *comparisonRepository) Save(ctx context.Context, c *domain.Comparison) error {
	if c == nil {
		return nil
	}
	return r.cache.SetJSON(ctx, keyPrefix+c.Key, c, r.ttl)
}

func (r *comparisonRepository) Get(ctx context.Context, key string) (*domain.Comparison, error) {
	var c domain.Comparison
	found, err := r.cache.GetJSON(ctx, keyPrefix+key, &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}
