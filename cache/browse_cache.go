package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "listny:browse:"

type redisBrowseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBrowseCache(client *redis.Client, ttl time.Duration) catalog_interface.BrowseCache {
	return &redisBrowseCache{client: client, ttl: ttl}
}

// Get 未命中返回 false 且不报错
func (c *redisBrowseCache) Get(ctx context.Context, key string) ([]catalog_models.SongView, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	var songs []catalog_models.SongView
	if err := json.Unmarshal(data, &songs); err != nil {
		return nil, false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return songs, true, nil
}

func (c *redisBrowseCache) Set(ctx context.Context, key string, songs []catalog_models.SongView) error {
	data, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Invalidate 删除全部浏览缓存键
func (c *redisBrowseCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

type noopBrowseCache struct{}

// NewNoopBrowseCache 未配置 Redis 时使用，所有读取均未命中
func NewNoopBrowseCache() catalog_interface.BrowseCache {
	return noopBrowseCache{}
}

func (noopBrowseCache) Get(context.Context, string) ([]catalog_models.SongView, bool, error) {
	return nil, false, nil
}

func (noopBrowseCache) Set(context.Context, string, []catalog_models.SongView) error { return nil }

func (noopBrowseCache) Invalidate(context.Context) error { return nil }
