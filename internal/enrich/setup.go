package enrich

import (
	"context"
	"fmt"

	"admitcast/internal/college"
	"admitcast/internal/config"

	"go.uber.org/zap"
)

// FromConfig builds the lookup described by cfg. It returns a nil lookup when
// no credential is configured, which the catalog treats as "enrichment off".
// The returned close func releases the cache and is never nil.
func FromConfig(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (college.Lookup, func() error, error) {
	noop := func() error { return nil }
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if !cfg.EnrichmentEnabled() {
		log.Infow("no gemini credential, enrichment disabled")
		return nil, noop, nil
	}

	gl, err := NewGenAILookup(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.GetGeminiTimeout())
	if err != nil {
		return nil, noop, err
	}

	var cache Cache
	switch cfg.Cache.Backend {
	case config.CacheNone, "":
		log.Debugw("enrichment enabled without cache", "model", gl.Model())
		return gl, noop, nil
	case config.CacheSQLite:
		cache, err = OpenSQLiteCache(cfg.Cache.Path)
	case config.CacheRedis:
		cache, err = NewRedisCache(ctx, cfg.Cache.RedisAddr)
	default:
		return nil, noop, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
	if err != nil {
		// The cache is an optimisation; run uncached rather than fail startup.
		log.Warnw("patch cache unavailable, continuing without it", "backend", cfg.Cache.Backend, "error", err)
		return gl, noop, nil
	}

	log.Debugw("enrichment enabled", "model", gl.Model(), "cache", cfg.Cache.Backend)
	return NewCachedLookup(gl, cache, cfg.GetCacheTTL(), log), cache.Close, nil
}
