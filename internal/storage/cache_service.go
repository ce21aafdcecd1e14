package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService provides high-level caching for profile read paths. Mutating
// operations invalidate the affected keys so readers never observe a profile
// state older than the last committed unit of work plus the TTL.
type CacheService struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(redis *RedisCache, ttl time.Duration) *CacheService {
	return &CacheService{
		redis: redis,
		ttl:   ttl,
	}
}

// CacheKeyType represents different types of cache keys
type CacheKeyType string

const (
	// CacheKeyActiveProfile is for the active profile of an account
	CacheKeyActiveProfile CacheKeyType = "active"
	// CacheKeyProfile is for single profiles with snapshots
	CacheKeyProfile CacheKeyType = "profile"
	// CacheKeyProfileList is for per-account profile listings
	CacheKeyProfileList CacheKeyType = "profiles"
)

// GenerateCacheKey generates a cache key for a given type and parameters
// Format: <type>:<param1>:<param2>:...
func (c *CacheService) GenerateCacheKey(keyType CacheKeyType, params ...string) string {
	normalizedParams := make([]string, len(params))
	for i, param := range params {
		normalizedParams[i] = strings.ToLower(param)
	}

	parts := append([]string{string(keyType)}, normalizedParams...)
	return strings.Join(parts, ":")
}

// GenerateActiveProfileKey generates a cache key for an account's active profile
// Format: active:<account-client-id>
func (c *CacheService) GenerateActiveProfileKey(accountClientID string) string {
	return c.GenerateCacheKey(CacheKeyActiveProfile, accountClientID)
}

// GenerateProfileKey generates a cache key for a profile with snapshots
// Format: profile:<profile-client-id>
func (c *CacheService) GenerateProfileKey(profileClientID string) string {
	return c.GenerateCacheKey(CacheKeyProfile, profileClientID)
}

// GenerateProfileListKey generates a cache key for an account's profile listing
// Format: profiles:<account-client-id>
func (c *CacheService) GenerateProfileListKey(accountClientID string) string {
	return c.GenerateCacheKey(CacheKeyProfileList, accountClientID)
}

// Set stores a value in cache with the configured TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := c.redis.Client().Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}

	return nil
}

// Get retrieves a value from cache into dest. It returns false when the key
// is absent or expired.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.redis.Client().Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	return true, nil
}

// Delete removes keys from the cache. Missing keys are not an error.
func (c *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.redis.Client().Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}

	return nil
}
