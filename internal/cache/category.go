// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// category.go caches the JSON-ready category reads (listings, tree and
// breadcrumbs) in Valkey. Any tree mutation can change every one of them,
// so invalidation drops the whole prefix.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// categoryKeyPrefix is the Valkey key prefix for cached category reads.
	// Entries live under "cat:v<generation>:<key>".
	categoryKeyPrefix = "cat:v"

	// generationKey holds the counter bumped by every invalidation. A fill
	// computed under an older generation lands on keys nobody reads.
	generationKey = "cat:gen"

	// DefaultCategoryTTL is how long a cached read stays valid when no
	// mutation invalidates it first.
	DefaultCategoryTTL = 5 * time.Minute
)

// CategoryCache manages category read caching in Valkey. A nil
// *CategoryCache is valid and caches nothing.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache creates a new category cache backed by the given Valkey
// client. It returns nil when client is nil.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	if client == nil {
		return nil
	}
	if ttl == 0 {
		ttl = DefaultCategoryTTL
	}
	return &CategoryCache{client: client, ttl: ttl}
}

// Cache keys for the category reads, relative to the prefix.
const (
	AllKey   = "all"
	RootsKey = "roots"
	TreeKey  = "tree"
)

// ChildrenKey returns the cache key for the children of parentID.
func ChildrenKey(parentID uuid.UUID) string {
	return "children:" + parentID.String()
}

// PathKey returns the cache key for the breadcrumb of id.
func PathKey(id uuid.UUID) string {
	return "path:" + id.String()
}

// generation returns the current cache generation. It reports false when
// Valkey cannot be read, in which case nothing is cached.
func (c *CategoryCache) generation(ctx context.Context) (int64, bool) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		slog.Warn("category cache generation error", "error", err)
		return 0, false
	}
	return gen, true
}

func versionedKey(gen int64, key string) string {
	return categoryKeyPrefix + strconv.FormatInt(gen, 10) + ":" + key
}

// get unmarshals a cached value into dst. It reports false on a miss or
// any cache error.
func (c *CategoryCache) get(ctx context.Context, gen int64, key string, dst any) bool {
	val, err := c.client.Get(ctx, versionedKey(gen, key)).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("category cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("category cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("category cache hit", "key", key, "generation", gen)
	return true
}

// set stores v as JSON with the configured TTL.
func (c *CategoryCache) set(ctx context.Context, gen int64, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("category cache encode error", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, versionedKey(gen, key), data, c.ttl).Err(); err != nil {
		slog.Warn("category cache set error", "key", key, "error", err)
	}
}

// Load returns the cached value for key, or calls fn, caches its result
// and returns it. Errors from fn are returned as-is and nothing is cached.
// The result is stored under the generation read before fn ran, so a fill
// racing with an invalidation is never served.
func Load[T any](ctx context.Context, c *CategoryCache, key string, fn func() (T, error)) (T, error) {
	if c == nil {
		return fn()
	}
	gen, ok := c.generation(ctx)
	if !ok {
		return fn()
	}
	var cached T
	if c.get(ctx, gen, key, &cached) {
		return cached, nil
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	c.set(ctx, gen, key, v)
	return v, nil
}

// InvalidateAll bumps the generation, then removes the cached category
// reads by scanning for the prefix.
func (c *CategoryCache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		slog.Warn("category cache generation bump error", "error", err)
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, categoryKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("category cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("category cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("category cache cleared", "deleted", deleted)
	}
}
