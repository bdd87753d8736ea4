// internal/routing/cache_test.go
package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeflow-backend/internal/common/logger"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()}), mr
}

func newCachedGateway(t *testing.T, inner Gateway) (*CachedGateway, *miniredis.Miniredis) {
	rdb, mr := setupRedis(t)
	return NewCachedGateway(inner, rdb, 5*time.Minute, logger.NewNoOpLogger()), mr
}

func TestCachedGateway_ListCategories_CacheAside(t *testing.T) {
	inner := newFixtureGateway()
	gateway, _ := newCachedGateway(t, inner)

	// First call misses the cache and hits the store.
	first, err := gateway.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 3)
	assert.Equal(t, 1, inner.categoryCalls)

	// Second call is served from Redis.
	second, err := gateway.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.categoryCalls)
}

func TestCachedGateway_ListCategories_StoreErrorPropagates(t *testing.T) {
	inner := newFixtureGateway()
	inner.categoriesErr = errors.New("connection refused")
	gateway, _ := newCachedGateway(t, inner)

	_, err := gateway.ListCategories(context.Background())
	assert.Error(t, err)
}

func TestCachedGateway_ListCategories_CorruptEntryFallsBack(t *testing.T) {
	inner := newFixtureGateway()
	gateway, mr := newCachedGateway(t, inner)

	require.NoError(t, mr.Set(categoriesCacheKey, "not-json"))

	categories, err := gateway.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 3)
	assert.Equal(t, 1, inner.categoryCalls)
}

func TestCachedGateway_ListCategories_EntriesExpire(t *testing.T) {
	inner := newFixtureGateway()
	gateway, mr := newCachedGateway(t, inner)

	_, err := gateway.ListCategories(context.Background())
	require.NoError(t, err)

	mr.FastForward(6 * time.Minute)

	_, err = gateway.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.categoryCalls)
}

func TestCachedGateway_GetCategory_CachesHits(t *testing.T) {
	inner := newFixtureGateway()
	gateway, _ := newCachedGateway(t, inner)

	category, err := gateway.GetCategory(context.Background(), "cat-sushi")
	require.NoError(t, err)
	require.NotNil(t, category)
	assert.Equal(t, "sushi", category.Name)

	// Served from cache: mutate the fixture and expect the old value.
	inner.categories[1].Name = "changed"
	cached, err := gateway.GetCategory(context.Background(), "cat-sushi")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "sushi", cached.Name)
}

func TestCachedGateway_GetCategory_MissingNotCached(t *testing.T) {
	inner := newFixtureGateway()
	gateway, mr := newCachedGateway(t, inner)

	category, err := gateway.GetCategory(context.Background(), "cat-missing")
	require.NoError(t, err)
	assert.Nil(t, category)
	assert.False(t, mr.Exists(categoryCacheKeyPrefix+"cat-missing"))
}

func TestCachedGateway_ListActiveBusinesses_AlwaysReadsThrough(t *testing.T) {
	inner := newFixtureGateway()
	gateway, _ := newCachedGateway(t, inner)

	_, err := gateway.ListActiveBusinesses(context.Background(), "cat-pizzeria")
	require.NoError(t, err)
	_, err = gateway.ListActiveBusinesses(context.Background(), "cat-pizzeria")
	require.NoError(t, err)

	// Eligibility is time-sensitive, so both calls hit the store.
	assert.Equal(t, 2, inner.businessCalls)
}
