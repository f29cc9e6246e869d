package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/listny/listny-backend/cache"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_interface"
	"github.com/redis/go-redis/v9"
)

// NewBrowseCache 未配置或连不上 Redis 时退化为不缓存
func NewBrowseCache(env *Env, logger *slog.Logger) (catalog_interface.BrowseCache, *redis.Client) {
	if env.RedisAddr == "" {
		logger.Info("未配置 Redis，浏览缓存关闭")
		return cache.NewNoopBrowseCache(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     env.RedisAddr,
		Password: env.RedisPassword,
		DB:       env.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis 不可用，浏览缓存关闭", "addr", env.RedisAddr, "error", err.Error())
		_ = client.Close()
		return cache.NewNoopBrowseCache(), nil
	}

	logger.Info("浏览缓存已启用", "addr", env.RedisAddr, "ttl", env.CacheExpiry().String())
	return cache.NewRedisBrowseCache(client, env.CacheExpiry()), client
}
