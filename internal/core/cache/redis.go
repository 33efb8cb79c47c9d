package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"recipe-finder/internal/core/domain"
	"recipe-finder/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultKeyPrefix Redis 鍵前綴
const DefaultKeyPrefix = "translation:"

// RedisCache 多個實例共用的翻譯快取，條目不設 TTL
type RedisCache struct {
	client *redis.Client
	prefix string
	stats  stats
}

// NewRedis 依連線 URL 創建 Redis 快取並測試連線
func NewRedis(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisWithClient(client, DefaultKeyPrefix), nil
}

// NewRedisWithClient 使用既有的 Redis 客戶端
func NewRedisWithClient(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) key(k string) string {
	return r.prefix + k
}

// Get 讀取快取，Redis 錯誤視為未命中
func (r *RedisCache) Get(ctx context.Context, key string) (domain.TranslationResult, bool) {
	var result domain.TranslationResult

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.stats.errors.Add(1)
			common.LogWarn("讀取 Redis 快取失敗", zap.String("key", key), zap.Error(err))
		}
		r.stats.misses.Add(1)
		return result, false
	}

	if err := json.Unmarshal(data, &result); err != nil {
		r.stats.errors.Add(1)
		r.stats.misses.Add(1)
		common.LogWarn("解析 Redis 快取失敗", zap.String("key", key), zap.Error(err))
		return result, false
	}

	r.stats.hits.Add(1)
	return result, true
}

// Set 寫入快取
func (r *RedisCache) Set(ctx context.Context, key string, result domain.TranslationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		r.stats.errors.Add(1)
		return
	}
	if err := r.client.Set(ctx, r.key(key), data, 0).Err(); err != nil {
		r.stats.errors.Add(1)
		common.LogWarn("寫入 Redis 快取失敗", zap.String("key", key), zap.Error(err))
	}
}

// scan 逐批走訪前綴下的鍵
func (r *RedisCache) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Len 快取筆數
func (r *RedisCache) Len(ctx context.Context) int {
	count := 0
	if err := r.scan(ctx, func(keys []string) error {
		count += len(keys)
		return nil
	}); err != nil {
		r.stats.errors.Add(1)
		common.LogWarn("計算 Redis 快取筆數失敗", zap.Error(err))
	}
	return count
}

// Clear 清空前綴下所有快取
func (r *RedisCache) Clear(ctx context.Context) {
	if err := r.scan(ctx, func(keys []string) error {
		return r.client.Del(ctx, keys...).Err()
	}); err != nil {
		r.stats.errors.Add(1)
		common.LogWarn("清空 Redis 快取失敗", zap.Error(err))
	}
}

// GetStats 獲取快取統計信息
func (r *RedisCache) GetStats(ctx context.Context) map[string]interface{} {
	s := r.stats.snapshot()
	s["type"] = "redis"
	s["size"] = r.Len(ctx)
	return s
}

// Close 關閉連線
func (r *RedisCache) Close() error {
	return r.client.Close()
}
