// 文件: pkg/preset/cache_repo.go
// 预设 Redis 缓存层
//
// 【缓存策略】
// - 读: 先查 Redis，miss 则查底层并回填
// - 写: 先写底层，成功后删除缓存并递增代数 (Cache Aside)
// - 回填: 只有代数和读底层前一致时才写入，避免并发删除后又把旧值写回

package preset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var _ Repository = (*CachedRepository)(nil)

var errStaleBackfill = errors.New("preset cache generation changed")

const (
	cacheKeyPrefix = "pricing:preset:"

	// 单个预设: pricing:preset:name:{name}
	cacheKeyName = cacheKeyPrefix + "name:%s"

	// 全部预设: pricing:preset:all
	cacheKeyAll = cacheKeyPrefix + "all"

	// 缓存代数，每次失效 +1
	cacheKeyGen = cacheKeyPrefix + "gen"

	// DefaultCacheTTL 默认过期时间
	DefaultCacheTTL = 10 * time.Minute
)

// CachedRepository Redis 缓存装饰器
type CachedRepository struct {
	repo  Repository
	redis *redis.Client
	ttl   time.Duration
	log   logrus.FieldLogger
}

// NewCachedRepository 包装底层存储
//
// 用法:
//
//	db, _ := OpenMySQL(dsn, log)
//	repo := NewCachedRepository(NewMySQLRepository(db), rdb, time.Minute, log)
func NewCachedRepository(repo Repository, rds *redis.Client, ttl time.Duration, log logrus.FieldLogger) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedRepository{
		repo:  repo,
		redis: rds,
		ttl:   ttl,
		log:   log.WithField("component", "preset-cache"),
	}
}

// Get 按名称查询 (带缓存)
func (r *CachedRepository) Get(ctx context.Context, name string) (*Preset, error) {
	key := fmt.Sprintf(cacheKeyName, name)

	// 1. 查缓存
	data, err := r.redis.Get(ctx, key).Bytes()
	if err == nil {
		var p Preset
		if json.Unmarshal(data, &p) == nil {
			return &p, nil
		}
	} else if err != redis.Nil {
		r.log.WithError(err).Warn("redis get failed, falling back")
	}

	// 2. 记下代数再查底层
	gen := r.generation(ctx)
	p, err := r.repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	// 3. 回填
	r.setCache(ctx, gen, key, p)

	return p, nil
}

// List 列出全部 (带缓存)
func (r *CachedRepository) List(ctx context.Context) ([]*Preset, error) {
	data, err := r.redis.Get(ctx, cacheKeyAll).Bytes()
	if err == nil {
		var presets []*Preset
		if json.Unmarshal(data, &presets) == nil {
			return presets, nil
		}
	}

	gen := r.generation(ctx)
	presets, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	r.setCache(ctx, gen, cacheKeyAll, presets)
	return presets, nil
}

// Create 写底层，删列表缓存
func (r *CachedRepository) Create(ctx context.Context, p *Preset) error {
	if err := r.repo.Create(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, "")
	return nil
}

// Delete 写底层，删单个和列表缓存
func (r *CachedRepository) Delete(ctx context.Context, name string) error {
	if err := r.repo.Delete(ctx, name); err != nil {
		return err
	}
	r.invalidate(ctx, name)
	return nil
}

// generation 当前缓存代数，key 不存在时为 0
func (r *CachedRepository) generation(ctx context.Context) int64 {
	gen, err := r.redis.Get(ctx, cacheKeyGen).Int64()
	if err != nil && err != redis.Nil {
		r.log.WithError(err).Warn("redis get generation failed")
	}
	return gen
}

// setCache 代数仍为 gen 时写入
// WATCH 代数 key，期间有失效则事务放弃
func (r *CachedRepository) setCache(ctx context.Context, gen int64, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	err = r.redis.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, cacheKeyGen).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if cur != gen {
			return errStaleBackfill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, cacheKeyGen)

	switch {
	case err == nil:
	case errors.Is(err, errStaleBackfill), errors.Is(err, redis.TxFailedErr):
		r.log.WithField("key", key).Debug("skip stale backfill")
	default:
		r.log.WithError(err).WithField("key", key).Warn("redis backfill failed")
	}
}

// invalidate name 为空时只删列表缓存
func (r *CachedRepository) invalidate(ctx context.Context, name string) {
	keys := []string{cacheKeyAll}
	if name != "" {
		keys = append(keys, fmt.Sprintf(cacheKeyName, name))
	}
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, cacheKeyGen)
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		r.log.WithError(err).Warn("redis invalidate failed")
	}
}
