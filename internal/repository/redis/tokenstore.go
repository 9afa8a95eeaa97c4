package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/avialex/AeroMarketGo/pkg/errors"
)

const (
	refreshKeyPrefix   = "refresh:"
	blacklistKeyPrefix = "blacklist:"
)

// TokenStore implements repository.TokenStore using Redis. Refresh tokens
// and revoked access tokens expire through key TTLs, so no sweeper is needed.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a new Redis-backed token store.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func refreshKey(userID, jti string) string {
	return refreshKeyPrefix + userID + ":" + jti
}

// StoreRefresh records an issued refresh token under its user and token ID.
func (s *TokenStore) StoreRefresh(ctx context.Context, userID, jti, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKey(userID, jti), token, ttl).Err(); err != nil {
		return fmt.Errorf("redis set refresh token: %w", err)
	}
	return nil
}

// GetRefresh returns the stored refresh token string, or ErrNotFound when the
// token was never stored, already rotated, or has expired.
func (s *TokenStore) GetRefresh(ctx context.Context, userID, jti string) (string, error) {
	token, err := s.client.Get(ctx, refreshKey(userID, jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("redis get refresh token: %w", err)
	}
	return token, nil
}

// DeleteRefresh removes a stored refresh token. Deleting an absent token is
// not an error.
func (s *TokenStore) DeleteRefresh(ctx context.Context, userID, jti string) error {
	if err := s.client.Del(ctx, refreshKey(userID, jti)).Err(); err != nil {
		return fmt.Errorf("redis del refresh token: %w", err)
	}
	return nil
}

// DeleteAllRefresh removes every stored refresh token for the user.
func (s *TokenStore) DeleteAllRefresh(ctx context.Context, userID string) error {
	iter := s.client.Scan(ctx, 0, refreshKeyPrefix+userID+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del refresh token: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan refresh tokens: %w", err)
	}
	return nil
}

// Blacklist marks an access token as revoked until its natural expiry.
func (s *TokenStore) Blacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis set blacklist: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether an access token has been revoked.
func (s *TokenStore) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("redis check blacklist: %w", err)
	}
	return n > 0, nil
}
