// internal/routing/cache.go
package routing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"freeflow-backend/internal/common/logger"
	"freeflow-backend/internal/models"
)

const (
	categoriesCacheKey     = "routing:categories:active"
	categoryCacheKeyPrefix = "routing:category:"
)

// CachedGateway caches category reference data in Redis in front of another
// Gateway. Categories change rarely, so a short TTL is enough; business
// eligibility is time-sensitive and always read through. Cache failures
// degrade to direct store reads.
type CachedGateway struct {
	inner  Gateway
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedGateway(inner Gateway, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedGateway {
	return &CachedGateway{
		inner:  inner,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "gateway-cache"}),
	}
}

func (g *CachedGateway) ListActiveBusinesses(ctx context.Context, categoryID string) ([]models.Business, error) {
	return g.inner.ListActiveBusinesses(ctx, categoryID)
}

func (g *CachedGateway) GetBusiness(ctx context.Context, businessID string) (*models.Business, error) {
	return g.inner.GetBusiness(ctx, businessID)
}

func (g *CachedGateway) ListCategories(ctx context.Context) ([]models.BusinessCategory, error) {
	if val, err := g.redis.Get(ctx, categoriesCacheKey).Result(); err == nil {
		var categories []models.BusinessCategory
		if err := json.Unmarshal([]byte(val), &categories); err == nil {
			return categories, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		g.redis.Del(ctx, categoriesCacheKey)
	}

	categories, err := g.inner.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(categories); err == nil {
		if err := g.redis.Set(ctx, categoriesCacheKey, payload, g.ttl).Err(); err != nil {
			g.logger.Warn("category cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return categories, nil
}

func (g *CachedGateway) GetCategory(ctx context.Context, categoryID string) (*models.BusinessCategory, error) {
	cacheKey := categoryCacheKeyPrefix + categoryID
	if val, err := g.redis.Get(ctx, cacheKey).Result(); err == nil {
		var category models.BusinessCategory
		if err := json.Unmarshal([]byte(val), &category); err == nil {
			return &category, nil
		}
		g.redis.Del(ctx, cacheKey)
	}

	category, err := g.inner.GetCategory(ctx, categoryID)
	if err != nil || category == nil {
		return category, err
	}

	if payload, err := json.Marshal(category); err == nil {
		if err := g.redis.Set(ctx, cacheKey, payload, g.ttl).Err(); err != nil {
			g.logger.Warn("category cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return category, nil
}
