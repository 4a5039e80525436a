// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/constants"
)

// # Redis Implementation

// RedisCodeRepository stores confirmation-code hashes in Redis with automatic
// TTL-based expiry. Keys are namespaced under the confirmation-code prefix.
type RedisCodeRepository struct {
	client *redis.Client
}

// NewRedisCodeRepository wires a Redis client into the repository.
func NewRedisCodeRepository(client *redis.Client) *RedisCodeRepository {
	return &RedisCodeRepository{client: client}
}

func codeKey(username string) string {
	return constants.RedisPrefixConfirmationCode + username
}

// Set stores the hash under the username key, replacing any earlier code.
func (repository *RedisCodeRepository) Set(ctx context.Context, username, codeHash string, ttl time.Duration) error {
	if err := repository.client.Set(ctx, codeKey(username), codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_set_failed: %w", err)
	}
	return nil
}

// Get returns the stored hash or apperr.ErrNotFound when the key is absent.
func (repository *RedisCodeRepository) Get(ctx context.Context, username string) (string, error) {
	codeHash, err := repository.client.Get(ctx, codeKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.ErrNotFound
		}
		return "", fmt.Errorf("redis_confirmation_code_get_failed: %w", err)
	}
	return codeHash, nil
}

// Delete removes the stored hash. Deleting a missing key is a no-op.
func (repository *RedisCodeRepository) Delete(ctx context.Context, username string) error {
	if err := repository.client.Del(ctx, codeKey(username)).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_delete_failed: %w", err)
	}
	return nil
}
