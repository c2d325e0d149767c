package enrich

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"admitcast/internal/college"
	"admitcast/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLookup struct {
	calls int
	patch *college.Patch
	err   error
}

func (c *countingLookup) Lookup(context.Context, string) (*college.Patch, error) {
	c.calls++
	return c.patch, c.err
}

func openTestSQLite(t *testing.T) *SQLiteCache {
	t.Helper()
	cache, err := OpenSQLiteCache(filepath.Join(t.TempDir(), "sub", "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestSQLiteCache_PutGet(t *testing.T) {
	ctx := context.Background()
	cache := openTestSQLite(t)

	_, ok, err := cache.Get(ctx, "UCLA")
	require.NoError(t, err)
	assert.False(t, ok)

	want := college.Patch{MedianGPA: ptr(3.93), SATRange: &college.Range{Low: 1290, High: 1520}}
	require.NoError(t, cache.Put(ctx, "UCLA", want, time.Hour))

	got, ok, err := cache.Get(ctx, " ucla ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, *got)
}

func TestSQLiteCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := openTestSQLite(t)

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	require.NoError(t, cache.Put(ctx, "USC", college.Patch{AcceptanceRate: ptr(0.1)}, time.Minute))

	now = now.Add(2 * time.Minute)
	_, ok, err := cache.Get(ctx, "USC")
	require.NoError(t, err)
	assert.False(t, ok, "expired rows are ignored")
}

func TestCachedLookup_HitSkipsInner(t *testing.T) {
	ctx := context.Background()
	inner := &countingLookup{patch: &college.Patch{MedianGPA: ptr(3.8)}}
	cl := NewCachedLookup(inner, openTestSQLite(t), time.Hour, nil)

	for i := 0; i < 3; i++ {
		p, err := cl.Lookup(ctx, "UC Berkeley")
		require.NoError(t, err)
		assert.Equal(t, 3.8, *p.MedianGPA)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedLookup_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingLookup{err: errors.New("quota")}
	cl := NewCachedLookup(inner, openTestSQLite(t), time.Hour, nil)

	_, err := cl.Lookup(ctx, "USC")
	assert.Error(t, err)
	_, err = cl.Lookup(ctx, "USC")
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (*college.Patch, bool, error) {
	return nil, false, errors.New("disk gone")
}
func (brokenCache) Put(context.Context, string, college.Patch, time.Duration) error {
	return errors.New("disk gone")
}
func (brokenCache) Close() error { return nil }

func TestCachedLookup_CacheFailureIsAMiss(t *testing.T) {
	inner := &countingLookup{patch: &college.Patch{MedianGPA: ptr(3.5)}}
	cl := NewCachedLookup(inner, brokenCache{}, time.Hour, nil)

	p, err := cl.Lookup(context.Background(), "UCLA")
	require.NoError(t, err)
	assert.Equal(t, 3.5, *p.MedianGPA)
}

func TestRedisCache_PutGet(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	cache, err := NewRedisCache(ctx, addr)
	require.NoError(t, err)
	defer cache.Close()

	want := college.Patch{ACTRange: &college.Range{Low: 30, High: 35}}
	require.NoError(t, cache.Put(ctx, "Test College", want, time.Minute))
	got, ok, err := cache.Get(ctx, "test college")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, *got)
}

func TestFromConfig_DisabledWithoutCredential(t *testing.T) {
	cfg := config.DefaultConfig()
	lookup, closeFn, err := FromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, lookup)
	assert.NoError(t, closeFn())
}
