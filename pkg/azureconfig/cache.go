/*
Copyright 2025 The Merge Warden Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package azureconfig

import (
	"context"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sirupsen/logrus"

	"github.com/pvandervelde/merge-warden-sub000/pkg/provider"
)

// CachedFetcher wraps a provider.ConfigFetcher with two cache tiers: a
// small in-process LRU (cheap, instance-local) in front of a shared Redis
// cache (slower, shared across every instance of a multi-replica
// deployment), so a burst of webhook deliveries for the same repository
// doesn't re-fetch and re-parse the same TOML file on every delivery.
type CachedFetcher struct {
	inner provider.ConfigFetcher
	local *lru.Cache
	pool  *redis.Pool
	ttl   time.Duration
	log   logrus.FieldLogger
}

// NewCachedFetcher wraps inner with an LRU of localCacheSize entries
// fronting a Redis connection pool. A nil pool disables the shared tier
// and falls back to the LRU alone, which is the expected shape for a
// single-instance deployment.
func NewCachedFetcher(inner provider.ConfigFetcher, localCacheSize int, pool *redis.Pool, ttl time.Duration, log logrus.FieldLogger) (*CachedFetcher, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	local, err := lru.New(localCacheSize)
	if err != nil {
		return nil, fmt.Errorf("building local config cache: %w", err)
	}
	return &CachedFetcher{inner: inner, local: local, pool: pool, ttl: ttl, log: log}, nil
}

func cacheKey(owner, repo, path string) string {
	return "merge-warden:config:" + owner + "/" + repo + ":" + path
}

// FetchConfig returns the repository's configuration, consulting the LRU
// then Redis before falling back to inner. A cache miss falls through to
// inner silently; a Redis error is logged and treated as a pass-through to
// inner rather than a fatal error: the shared cache is a performance
// optimization, not a correctness dependency. Local LRU entries are evicted
// by size only; the ttl applies to the Redis tier.
func (c *CachedFetcher) FetchConfig(ctx context.Context, owner, repo, path string) (string, error) {
	key := cacheKey(owner, repo, path)

	if cached, ok := c.local.Get(key); ok {
		return cached.(string), nil
	}

	if c.pool != nil {
		if raw, ok := c.getFromRedis(ctx, key); ok {
			c.local.Add(key, raw)
			return raw, nil
		}
	}

	raw, err := c.inner.FetchConfig(ctx, owner, repo, path)
	if err != nil {
		return "", err
	}

	c.local.Add(key, raw)
	if c.pool != nil {
		c.storeInRedis(key, raw)
	}
	return raw, nil
}

func (c *CachedFetcher) getFromRedis(ctx context.Context, key string) (string, bool) {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		c.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("redis connection unavailable, falling through")
		return "", false
	}
	defer conn.Close()

	raw, err := redis.String(conn.Do("GET", key))
	if err != nil {
		if err != redis.ErrNil {
			c.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("redis GET failed, falling through")
		}
		return "", false
	}
	return raw, true
}

func (c *CachedFetcher) storeInRedis(key, raw string) {
	conn, err := c.pool.Get()
	if err != nil {
		c.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("redis connection unavailable, skipping cache write")
		return
	}
	defer conn.Close()

	if _, err := conn.Do("SET", key, raw, "EX", int(c.ttl.Seconds())); err != nil {
		c.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("redis SET failed")
	}
}

// NewRedisPool builds a connection pool against a single Redis address,
// matching redigo's documented pool-construction idiom.
func NewRedisPool(addr string, maxIdle int) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     maxIdle,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
	}
}
