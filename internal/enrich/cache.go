package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"admitcast/internal/college"

	"go.uber.org/zap"
)

// Cache stores patches keyed by college name.
type Cache interface {
	// Get returns the cached patch. ok is false on a miss or an expired entry.
	Get(ctx context.Context, name string) (patch *college.Patch, ok bool, err error)
	Put(ctx context.Context, name string, patch college.Patch, ttl time.Duration) error
	Close() error
}

// CachedLookup consults a Cache before calling the inner lookup. Cache
// failures are logged and treated as misses.
type CachedLookup struct {
	inner college.Lookup
	cache Cache
	ttl   time.Duration
	log   *zap.SugaredLogger
}

var _ college.Lookup = (*CachedLookup)(nil)

// NewCachedLookup wraps inner with cache.
func NewCachedLookup(inner college.Lookup, cache Cache, ttl time.Duration, log *zap.SugaredLogger) *CachedLookup {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &CachedLookup{inner: inner, cache: cache, ttl: ttl, log: log}
}

// Lookup implements college.Lookup.
func (c *CachedLookup) Lookup(ctx context.Context, name string) (*college.Patch, error) {
	patch, ok, err := c.cache.Get(ctx, name)
	switch {
	case err != nil:
		c.log.Warnw("patch cache read failed", "college", name, "error", err)
	case ok:
		c.log.Debugw("patch cache hit", "college", name)
		return patch, nil
	}

	patch, err = c.inner.Lookup(ctx, name)
	if err != nil || patch == nil || patch.Empty() {
		return patch, err
	}

	if err := c.cache.Put(ctx, name, *patch, c.ttl); err != nil {
		c.log.Warnw("patch cache write failed", "college", name, "error", err)
	}
	return patch, nil
}

func cacheKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func encodePatch(p college.Patch) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	return data, nil
}

func decodePatch(data []byte) (*college.Patch, error) {
	var p college.Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	return &p, nil
}
