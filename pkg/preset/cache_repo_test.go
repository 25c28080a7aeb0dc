package preset

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quant.com/pkg/logger"
)

// countingRepository 统计底层读取次数
type countingRepository struct {
	Repository
	gets  atomic.Int64
	lists atomic.Int64
}

func (c *countingRepository) Get(ctx context.Context, name string) (*Preset, error) {
	c.gets.Add(1)
	return c.Repository.Get(ctx, name)
}

func (c *countingRepository) List(ctx context.Context) ([]*Preset, error) {
	c.lists.Add(1)
	return c.Repository.List(ctx)
}

// setupRedis 连接本地 Redis，不可用时跳过
func setupRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("skipping test; redis not available: %v", err)
	}
	purge := func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, cacheKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
	}
	purge()
	t.Cleanup(func() {
		purge()
		client.Close()
	})
	return client
}

func TestCachedRepository_GetBackfillsAndInvalidates(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	base := &countingRepository{Repository: NewSeededMemoryRepository()}
	repo := NewCachedRepository(base, rdb, time.Minute, logger.Discard())

	p, err := repo.Get(ctx, "forward-1y")
	require.NoError(t, err)
	assert.Equal(t, "forward", p.Kind)
	assert.EqualValues(t, 1, base.gets.Load())

	key := fmt.Sprintf(cacheKeyName, "forward-1y")
	require.Eventually(t, func() bool {
		return rdb.Exists(ctx, key).Val() == 1
	}, time.Second, 10*time.Millisecond)

	// 命中缓存，不再访问底层
	cached, err := repo.Get(ctx, "forward-1y")
	require.NoError(t, err)
	assert.Equal(t, p.Params, cached.Params)
	assert.EqualValues(t, 1, base.gets.Load())

	require.NoError(t, repo.Delete(ctx, "forward-1y"))
	assert.EqualValues(t, 0, rdb.Exists(ctx, key).Val())
	_, err = repo.Get(ctx, "forward-1y")
	require.ErrorIs(t, err, ErrPresetNotFound)
}

func TestCachedRepository_ListInvalidatedOnCreate(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	base := &countingRepository{Repository: NewSeededMemoryRepository()}
	repo := NewCachedRepository(base, rdb, time.Minute, logger.Discard())

	first, err := repo.List(ctx)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return rdb.Exists(ctx, cacheKeyAll).Val() == 1
	}, time.Second, 10*time.Millisecond)

	_, err = repo.List(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, base.lists.Load())

	require.NoError(t, repo.Create(ctx, &Preset{Name: "custom", Kind: "forward", Params: map[string]any{"S": 50.0}}))
	after, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(first)+1)
	assert.EqualValues(t, 2, base.lists.Load())
}

func TestCachedRepository_StaleBackfillSkipped(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	base := NewSeededMemoryRepository()
	repo := NewCachedRepository(base, rdb, time.Minute, logger.Discard())
	key := fmt.Sprintf(cacheKeyName, "fra-6m")

	// 读底层之后、回填之前发生了删除
	gen := repo.generation(ctx)
	p, err := base.Get(ctx, "fra-6m")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, "fra-6m"))
	assert.Greater(t, repo.generation(ctx), gen)

	repo.setCache(ctx, gen, key, p)
	assert.EqualValues(t, 0, rdb.Exists(ctx, key).Val())

	_, err = repo.Get(ctx, "fra-6m")
	require.ErrorIs(t, err, ErrPresetNotFound)

	// 代数一致时正常回填
	repo.setCache(ctx, repo.generation(ctx), key, p)
	assert.EqualValues(t, 1, rdb.Exists(ctx, key).Val())
}
