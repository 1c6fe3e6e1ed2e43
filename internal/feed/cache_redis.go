// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/quill/internal/platform/constants"
)

// RedisCache is a read-through [Cache] for single posts.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache creates a post cache whose entries expire after ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func postKey(id string) string {
	return constants.RedisPrefixPost + id
}

// Get returns the cached post. Misses, transport failures and corrupted
// entries all read as a miss.
func (cache *RedisCache) Get(ctx context.Context, id string) (*Post, bool) {
	data, err := cache.client.Get(ctx, postKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.WarnContext(ctx, "post_cache_get_failed",
				slog.String("post_id", id),
				slog.Any("error", err),
			)
		}
		return nil, false
	}

	var post Post
	if err := json.Unmarshal(data, &post); err != nil {
		cache.Invalidate(ctx, id)
		return nil, false
	}

	return &post, true
}

// Set stores the post with the configured TTL.
func (cache *RedisCache) Set(ctx context.Context, post *Post) {
	data, err := json.Marshal(post)
	if err != nil {
		return
	}

	if err := cache.client.Set(ctx, postKey(post.ID), data, cache.ttl).Err(); err != nil {
		cache.logger.WarnContext(ctx, "post_cache_set_failed",
			slog.String("post_id", post.ID),
			slog.Any("error", err),
		)
	}
}

// Invalidate drops the cached post.
func (cache *RedisCache) Invalidate(ctx context.Context, id string) {
	if err := cache.client.Del(ctx, postKey(id)).Err(); err != nil {
		cache.logger.WarnContext(ctx, "post_cache_invalidate_failed",
			slog.String("post_id", id),
			slog.Any("error", err),
		)
	}
}
