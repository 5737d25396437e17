package cache

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("refresh token not found or expired")

// TokenStore keeps rotating refresh tokens in redis, keyed by the opaque
// token value with the owning user id as payload. Expiry is enforced by the
// key TTL.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

func tokenKey(token string) string {
	return "refresh_token:" + token
}

func (s *TokenStore) Save(ctx context.Context, token string, userID uuid.UUID) error {
	return s.client.Set(ctx, tokenKey(token), userID.String(), s.ttl).Err()
}

// Consume atomically fetches and deletes the token, so a refresh token can
// be redeemed exactly once.
func (s *TokenStore) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	value, err := s.client.GetDel(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrTokenNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.FromString(value)
	if err != nil {
		return uuid.Nil, ErrTokenNotFound
	}
	return userID, nil
}

func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKey(token)).Err()
}
