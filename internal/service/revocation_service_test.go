package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-app/internal/model"
)

func newTestRevocationService() (*RevocationService, *MockRevokedTokenRepository, *MockRevocationCache) {
	repo := new(MockRevokedTokenRepository)
	cache := new(MockRevocationCache)
	svc := NewRevocationService(repo, cache, nil)
	svc.now = fixedNow
	return svc, repo, cache
}

func TestRevocationService_IsRevoked(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips database", func(t *testing.T) {
		svc, repo, cache := newTestRevocationService()
		cache.On("IsRevoked", ctx, "jti-1").Return(true, nil)

		revoked, err := svc.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
		repo.AssertNotCalled(t, "FindActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("database hit fills cache", func(t *testing.T) {
		svc, repo, cache := newTestRevocationService()
		cache.On("IsRevoked", ctx, "jti-1").Return(false, nil)
		repo.On("FindActive", ctx, mock.Anything, "jti-1", fixedNow()).
			Return(&model.RevokedToken{JTI: "jti-1", ExpiresAt: fixedNow().Add(time.Hour)}, nil)
		cache.On("MarkRevoked", ctx, "jti-1", time.Hour).Return(nil)

		revoked, err := svc.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
		cache.AssertExpectations(t)
	})

	t.Run("absent or expired record", func(t *testing.T) {
		svc, repo, cache := newTestRevocationService()
		cache.On("IsRevoked", ctx, "jti-1").Return(false, nil)
		repo.On("FindActive", ctx, mock.Anything, "jti-1", fixedNow()).Return(nil, nil)

		revoked, err := svc.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("cache failure falls back to database", func(t *testing.T) {
		svc, repo, cache := newTestRevocationService()
		cache.On("IsRevoked", ctx, "jti-1").Return(false, errors.New("redis down"))
		repo.On("FindActive", ctx, mock.Anything, "jti-1", fixedNow()).Return(nil, nil)

		revoked, err := svc.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("database failure is surfaced", func(t *testing.T) {
		svc, repo, cache := newTestRevocationService()
		cache.On("IsRevoked", ctx, "jti-1").Return(false, nil)
		repo.On("FindActive", ctx, mock.Anything, "jti-1", fixedNow()).Return(nil, errors.New("db down"))

		_, err := svc.IsRevoked(ctx, "jti-1")
		assert.ErrorContains(t, err, "db down")
	})
}

func TestRevocationService_Revoke(t *testing.T) {
	ctx := context.Background()
	token := &model.RevokedToken{JTI: "jti-1", UserUUID: "user-1", ExpiresAt: fixedNow().Add(2 * time.Hour)}

	t.Run("database then cache", func(t *testing.T) {
		svc, repo, cache := newTestRevocationService()
		repo.On("Insert", ctx, mock.Anything, token).Return(nil)
		cache.On("MarkRevoked", ctx, "jti-1", 2*time.Hour).Return(errors.New("redis down"))

		assert.NoError(t, svc.Revoke(ctx, token))
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("database failure skips cache", func(t *testing.T) {
		svc, repo, cache := newTestRevocationService()
		repo.On("Insert", ctx, mock.Anything, token).Return(errors.New("db down"))

		assert.Error(t, svc.Revoke(ctx, token))
		cache.AssertNotCalled(t, "MarkRevoked", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRevocationService_Sweep(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestRevocationService()
	repo.On("DeleteExpired", ctx, mock.Anything, fixedNow()).Return(int64(4), nil)

	n, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
