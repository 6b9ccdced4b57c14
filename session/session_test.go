// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewStore(context.Background(), "redis://"+mr.Addr()+"/0", time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestNewStore_BadURL(t *testing.T) {
	_, err := NewStore(context.Background(), "not a url", time.Hour)
	assert.Error(t, err)
}

func TestSession_Lifecycle(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	token, err := s.Create(ctx, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := s.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	require.NoError(t, s.Destroy(ctx, token))

	_, err = s.Lookup(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)

	// Destroying twice is fine
	assert.NoError(t, s.Destroy(ctx, token))
}

func TestSession_Expires(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	token, err := s.Create(ctx, 7)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = s.Lookup(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSession_UnknownToken(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.Lookup(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestResetToken(t *testing.T) {
	s, mr := setupStore(t)
	ctx := context.Background()

	token, err := s.CreateResetToken(ctx, 9)
	require.NoError(t, err)

	assert.True(t, mr.Exists(resetPrefix+token))
	assert.Equal(t, ResetTokenTTL, mr.TTL(resetPrefix+token))

	userID, err := s.ResetTokenUser(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), userID)

	// Reset tokens are not sessions
	_, err = s.Lookup(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.DeleteResetToken(ctx, token))
	_, err = s.ResetTokenUser(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
}
