package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/ridvansevik/campus-management-system-backend-part3/pkg/errors"
)

type cacheRepoStub struct {
	entries map[string]string
	getErr  error
	setTTL  time.Duration
}

func (s *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	value, ok := s.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if out, ok := dest.(*string); ok {
		*out = value
	}
	return nil
}

func (s *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.entries == nil {
		s.entries = make(map[string]string)
	}
	if text, ok := value.(string); ok {
		s.entries[key] = text
	}
	s.setTTL = ttl
	return nil
}

func (s *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.entries = nil
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := &cacheRepoStub{}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit, "empty cache misses")

	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	assert.Equal(t, time.Minute, repo.setTTL, "non-positive ttl falls back to the default")

	hit, err = svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", out)

	require.NoError(t, svc.Invalidate(context.Background(), "k*"))
	hit, err = svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit, "invalidated entries miss")
}

func TestCacheServiceBackendFailureDegradesToMiss(t *testing.T) {
	repo := &cacheRepoStub{getErr: errors.New("connection refused")}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	assert.False(t, hit)
	assert.Error(t, err)
}

func TestCacheServiceDisabledIsNoOp(t *testing.T) {
	svc := NewCacheService(nil, nil, 0, nil, false)

	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, svc.Set(context.Background(), "k", "v", time.Minute))
	assert.NoError(t, svc.Invalidate(context.Background(), "*"))
	assert.False(t, svc.Enabled())
}
