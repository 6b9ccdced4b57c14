// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/updoot/auth"
)

const (
	sessionPrefix = "sess:"
	resetPrefix   = "forget-password:"

	// ResetTokenTTL is how long a password reset link stays valid.
	ResetTokenTTL = 3 * 24 * time.Hour
)

var ErrNoSession = errors.New("session not found or expired")

// Store keeps login sessions and password reset tokens in Redis. Both map
// a random token to a user ID.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore connects to Redis at url and verifies the connection.
func NewStore(ctx context.Context, url string, ttl time.Duration) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis URL: %w", err)
	}

	c := redis.NewClient(opts)

	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	return &Store{client: c, ttl: ttl}, nil
}

// NewStoreFromClient wraps an existing client.
func NewStoreFromClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Create starts a session for userID and returns its token.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	token := auth.GenerateToken()
	if err := s.client.Set(ctx, sessionPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("error storing session: %w", err)
	}
	return token, nil
}

// Lookup resolves a session token into a user ID.
func (s *Store) Lookup(ctx context.Context, token string) (int64, error) {
	return s.get(ctx, sessionPrefix+token)
}

// Destroy ends a session. Destroying an unknown session is not an error.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionPrefix+token).Err(); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// CreateResetToken issues a password reset token for userID.
func (s *Store) CreateResetToken(ctx context.Context, userID int64) (string, error) {
	token := auth.GenerateToken()
	if err := s.client.Set(ctx, resetPrefix+token, userID, ResetTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("error storing reset token: %w", err)
	}
	return token, nil
}

// ResetTokenUser returns the user a reset token was issued for. The token
// stays valid until DeleteResetToken is called or it expires.
func (s *Store) ResetTokenUser(ctx context.Context, token string) (int64, error) {
	return s.get(ctx, resetPrefix+token)
}

func (s *Store) DeleteResetToken(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, resetPrefix+token).Err(); err != nil {
		return fmt.Errorf("error deleting reset token: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("error closing redis client: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (int64, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNoSession
	}
	if err != nil {
		return 0, fmt.Errorf("error reading %s from redis: %w", key, err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting user id: %w", err)
	}
	return userID, nil
}
